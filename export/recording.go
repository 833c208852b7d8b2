package export

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/OpenPSG/edf"

	"github.com/eegviz/eegviz/eeg"
)

// EDFExportError reports a failure in the universal-format export path.
// The native container does not share the EDF format's constraints, so the
// message advises falling back to it.
type EDFExportError struct {
	Err error
}

func (e *EDFExportError) Error() string {
	return fmt.Sprintf("EDF export failed: %v; use the native export format instead", e.Err)
}

func (e *EDFExportError) Unwrap() error {
	return e.Err
}

// RecordingGob serializes a recording into the native binary container.
func RecordingGob(rec *eeg.Recording) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("encoding recording: %w", err)
	}
	return buf.Bytes(), nil
}

// RecordingFromGob restores a recording from the native binary container.
func RecordingFromGob(data []byte) (*eeg.Recording, error) {
	var rec eeg.Recording
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding recording: %w", err)
	}
	return &rec, nil
}

// RecordingEDF serializes a recording into a universal EDF container with
// one-second data records. The EDF format requires an integral number of
// samples per record, so non-integral sampling rates fail with an
// *EDFExportError advising the native fallback.
func RecordingEDF(rec *eeg.Recording) ([]byte, error) {
	spr := int(rec.SampleRate)
	if float64(spr) != rec.SampleRate || spr <= 0 {
		return nil, &EDFExportError{Err: fmt.Errorf(
			"sampling rate %g Hz does not fit one-second EDF records", rec.SampleRate)}
	}

	startTime := rec.StartTime
	if startTime.IsZero() {
		// EDF carries a two-digit year; pick a fixed in-range date when
		// the source container had none.
		startTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	signals := make([]edf.SignalHeader, rec.NumChannels())
	for i, name := range rec.ChannelNames {
		pmin, pmax := physicalRange(rec.Data[i])
		signals[i] = edf.SignalHeader{
			Label:             name,
			PhysicalDimension: "uV",
			PhysicalMin:       pmin,
			PhysicalMax:       pmax,
			DigitalMin:        -32768,
			DigitalMax:        32767,
			SamplesPerRecord:  spr,
		}
	}

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          rec.Meta.PatientID,
		RecordingID:        rec.Meta.RecordingID,
		StartTime:          startTime,
		DataRecordDuration: time.Second,
		SignalCount:        len(signals),
		Signals:            signals,
	}

	var buf seekableBuffer
	w, err := edf.Create(&buf, hdr)
	if err != nil {
		return nil, &EDFExportError{Err: err}
	}

	n := rec.NumSamples()
	records := (n + spr - 1) / spr
	for r := 0; r < records; r++ {
		record := make([][]float64, len(signals))
		for c := range signals {
			chunk := make([]float64, spr)
			copy(chunk, rec.Data[c][r*spr:min((r+1)*spr, n)])
			record[c] = chunk
		}
		if err := w.WriteRecord(record); err != nil {
			return nil, &EDFExportError{Err: err}
		}
	}

	if err := w.Close(); err != nil {
		return nil, &EDFExportError{Err: err}
	}
	return buf.Bytes(), nil
}

// physicalRange returns a symmetric calibration range covering the data.
func physicalRange(data []float64) (float64, float64) {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		peak = 1
	}
	return -peak, peak
}

// seekableBuffer is an in-memory io.WriteSeeker; the EDF writer seeks back
// to rewrite its header on Close.
type seekableBuffer struct {
	data []byte
	pos  int
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.data) {
		grown := make([]byte, need)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(b.pos) + offset
	case io.SeekEnd:
		pos = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	b.pos = int(pos)
	return pos, nil
}

func (b *seekableBuffer) Bytes() []byte {
	return b.data
}
