// Package ingest loads recordings and event markers from external formats.
package ingest

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/edf"

	"github.com/eegviz/eegviz/eeg"
	"github.com/eegviz/eegviz/logging"
	"github.com/eegviz/eegviz/preprocess"
)

// annotationLabel marks the EDF+ annotations pseudo-signal, which carries
// no sample data we can treat as a channel.
const annotationLabel = "EDF Annotations"

// edfHeaderInfo is the slice of the container header the Recording needs.
// The OpenPSG reader decodes samples but doesn't expose its parsed header,
// so the few text fields required here are scanned directly; the layout is
// fixed by the EDF specification.
type edfHeaderInfo struct {
	patientID      string
	recordingID    string
	startTime      time.Time
	dataRecords    int
	recordDuration float64
	labels         []string
	samplesPerRec  []int
}

// LoadEDF reads an EDF/EDF+ byte stream into a Recording. Channel names
// are normalized and annotation pseudo-signals skipped before any other
// component sees the data. All retained signals must share one sampling
// rate.
func LoadEDF(r io.ReadSeeker) (*eeg.Recording, error) {
	hdr, err := scanEDFHeader(r)
	if err != nil {
		return nil, fmt.Errorf("reading EDF header: %w", err)
	}
	if hdr.dataRecords <= 0 {
		return nil, fmt.Errorf("EDF file reports %d data records; cannot determine recording length", hdr.dataRecords)
	}
	if hdr.recordDuration <= 0 {
		return nil, fmt.Errorf("EDF file reports non-positive record duration %g s", hdr.recordDuration)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding EDF stream: %w", err)
	}
	reader, err := edf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("opening EDF file: %w", err)
	}

	var data [][]float64
	var names []string
	sampleRate := 0.0
	for i, label := range hdr.labels {
		if label == annotationLabel {
			continue
		}

		rate := float64(hdr.samplesPerRec[i]) / hdr.recordDuration
		if sampleRate == 0 {
			sampleRate = rate
		} else if math.Abs(rate-sampleRate) > 1e-9 {
			return nil, fmt.Errorf("signal %q has rate %g Hz, expected %g Hz; mixed-rate EDF files are not supported",
				label, rate, sampleRate)
		}

		sr, err := reader.Signal(i)
		if err != nil {
			return nil, fmt.Errorf("opening signal %q: %w", label, err)
		}

		total := hdr.dataRecords * hdr.samplesPerRec[i]
		samples := make([]float64, total)
		if _, err := readFullFloats(sr, samples); err != nil {
			return nil, fmt.Errorf("reading signal %q: %w", label, err)
		}

		data = append(data, samples)
		names = append(names, label)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("no data signals found in EDF file")
	}

	rec, err := eeg.NewRecording(data, sampleRate, names)
	if err != nil {
		return nil, fmt.Errorf("assembling recording: %w", err)
	}
	rec.StartTime = hdr.startTime
	rec.Meta = eeg.Meta{PatientID: hdr.patientID, RecordingID: hdr.recordingID}

	preprocess.NormalizeChannelNames(rec)

	logging.GetGlobalLogger().Info("EDF recording loaded", logging.Fields{
		"channels":   rec.NumChannels(),
		"rate_hz":    rec.SampleRate,
		"duration_s": rec.Duration(),
	})
	return rec, nil
}

// readFullFloats is io.ReadFull for float64 sample readers.
func readFullFloats(r interface{ Read([]float64) (int, error) }, buf []float64) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// scanEDFHeader reads the fixed-layout text header.
func scanEDFHeader(r io.ReadSeeker) (*edfHeaderInfo, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	b := make([]byte, 256)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}

	hdr := &edfHeaderInfo{
		patientID:   strings.TrimSpace(string(b[8:88])),
		recordingID: strings.TrimSpace(string(b[88:168])),
	}

	dateStr := strings.TrimSpace(string(b[168:176]))
	timeStr := strings.TrimSpace(string(b[176:184]))
	if d, err := time.Parse("02.01.06", dateStr); err == nil {
		if t, err := time.Parse("15.04.05", timeStr); err == nil {
			hdr.startTime = time.Date(d.Year(), d.Month(), d.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		}
	}

	var err error
	hdr.dataRecords, err = strconv.Atoi(strings.TrimSpace(string(b[236:244])))
	if err != nil {
		return nil, fmt.Errorf("parsing data record count: %w", err)
	}
	hdr.recordDuration, err = strconv.ParseFloat(strings.TrimSpace(string(b[244:252])), 64)
	if err != nil {
		return nil, fmt.Errorf("parsing record duration: %w", err)
	}
	signalCount, err := strconv.Atoi(strings.TrimSpace(string(b[252:256])))
	if err != nil {
		return nil, fmt.Errorf("parsing signal count: %w", err)
	}
	if signalCount <= 0 {
		return nil, fmt.Errorf("EDF file reports %d signals", signalCount)
	}

	labels := make([]byte, 16*signalCount)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("reading signal labels: %w", err)
	}
	hdr.labels = make([]string, signalCount)
	for i := range signalCount {
		hdr.labels[i] = strings.TrimSpace(string(labels[i*16 : (i+1)*16]))
	}

	// Skip transducer(80) + dimension(8) + physical min/max(16) +
	// digital min/max(16) + prefiltering(80) per signal.
	if _, err := r.Seek(int64(200*signalCount), io.SeekCurrent); err != nil {
		return nil, err
	}

	sprBytes := make([]byte, 8*signalCount)
	if _, err := io.ReadFull(r, sprBytes); err != nil {
		return nil, fmt.Errorf("reading samples-per-record: %w", err)
	}
	hdr.samplesPerRec = make([]int, signalCount)
	for i := range signalCount {
		spr, err := strconv.Atoi(strings.TrimSpace(string(sprBytes[i*8 : (i+1)*8])))
		if err != nil {
			return nil, fmt.Errorf("parsing samples-per-record for signal %d: %w", i, err)
		}
		hdr.samplesPerRec[i] = spr
	}

	return hdr, nil
}
