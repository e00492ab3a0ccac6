package pipeline

import (
	"encoding/binary"
	"fmt"
	"math"
)

// WebM containers are EBML documents. The duration lives in the Segment's
// Info element as a float scaled by TimecodeScale (nanoseconds per tick,
// defaulting to 1ms). Only metadata is read; cluster payloads are skipped.
const (
	ebmlHeaderID       = 0x1A45DFA3
	segmentID          = 0x18538067
	infoID             = 0x1549A966
	timecodeScaleID    = 0x2AD7B1
	durationID         = 0x4489
	defaultScaleNanos  = 1_000_000
	maxMetadataScanLen = 1 << 20
)

// ProbeWebMDuration reads the container metadata and returns the duration in
// whole seconds, rounded down. It is best-effort: malformed or truncated
// input returns an error and callers are expected to carry on without a
// duration.
func ProbeWebMDuration(data []byte) (int, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("audio too short to be a webm container")
	}

	p := &ebmlReader{data: data}
	if len(p.data) > maxMetadataScanLen {
		p.data = p.data[:maxMetadataScanLen]
	}

	id, _, err := p.readElementHeader()
	if err != nil {
		return 0, fmt.Errorf("read ebml header: %w", err)
	}
	if id != ebmlHeaderID {
		return 0, fmt.Errorf("not an ebml document")
	}
	// Skip the header body entirely
	size, err := p.readSizeAndSkip()
	if err != nil {
		return 0, fmt.Errorf("skip ebml header body: %w", err)
	}
	_ = size

	id, _, err = p.readElementHeader()
	if err != nil {
		return 0, fmt.Errorf("read segment: %w", err)
	}
	if id != segmentID {
		return 0, fmt.Errorf("segment element not found")
	}
	if _, err := p.readSize(); err != nil {
		return 0, fmt.Errorf("read segment size: %w", err)
	}

	scale := float64(defaultScaleNanos)
	var rawDuration float64
	haveDuration := false

	// Walk the Segment's children until the Info element yields a duration
	for !p.done() {
		childID, _, err := p.readElementHeader()
		if err != nil {
			break
		}
		childSize, err := p.readSize()
		if err != nil {
			break
		}

		if childID != infoID {
			if !p.skip(childSize) {
				break
			}
			continue
		}

		end := p.pos + int(childSize)
		for p.pos < end && !p.done() {
			infoChildID, _, err := p.readElementHeader()
			if err != nil {
				break
			}
			infoChildSize, err := p.readSize()
			if err != nil {
				break
			}
			body, ok := p.read(infoChildSize)
			if !ok {
				break
			}
			switch infoChildID {
			case timecodeScaleID:
				scale = float64(readUint(body))
			case durationID:
				rawDuration = readFloat(body)
				haveDuration = true
			}
		}
		break
	}

	if !haveDuration {
		return 0, fmt.Errorf("duration element not present in container metadata")
	}

	seconds := rawDuration * scale / float64(1_000_000_000)
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("implausible duration value")
	}
	return int(seconds), nil
}

type ebmlReader struct {
	data []byte
	pos  int
}

func (r *ebmlReader) done() bool {
	return r.pos >= len(r.data)
}

func (r *ebmlReader) read(n uint64) ([]byte, bool) {
	if n > uint64(len(r.data)-r.pos) {
		return nil, false
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, true
}

func (r *ebmlReader) skip(n uint64) bool {
	if n > uint64(len(r.data)-r.pos) {
		return false
	}
	r.pos += int(n)
	return true
}

// readElementHeader reads an EBML element ID with its marker bits intact
func (r *ebmlReader) readElementHeader() (uint32, int, error) {
	if r.done() {
		return 0, 0, fmt.Errorf("unexpected end of data")
	}
	first := r.data[r.pos]
	var length int
	switch {
	case first&0x80 != 0:
		length = 1
	case first&0x40 != 0:
		length = 2
	case first&0x20 != 0:
		length = 3
	case first&0x10 != 0:
		length = 4
	default:
		return 0, 0, fmt.Errorf("invalid element id marker 0x%02x", first)
	}
	b, ok := r.read(uint64(length))
	if !ok {
		return 0, 0, fmt.Errorf("truncated element id")
	}
	var id uint32
	for _, v := range b {
		id = id<<8 | uint32(v)
	}
	return id, length, nil
}

// readSize reads an EBML variable-length size with marker bits stripped
func (r *ebmlReader) readSize() (uint64, error) {
	if r.done() {
		return 0, fmt.Errorf("unexpected end of data")
	}
	first := r.data[r.pos]
	length := 0
	for i := 0; i < 8; i++ {
		if first&(0x80>>i) != 0 {
			length = i + 1
			break
		}
	}
	if length == 0 {
		return 0, fmt.Errorf("invalid size marker 0x%02x", first)
	}
	b, ok := r.read(uint64(length))
	if !ok {
		return 0, fmt.Errorf("truncated size field")
	}
	size := uint64(b[0]) &^ (0x80 >> (length - 1))
	for _, v := range b[1:] {
		size = size<<8 | uint64(v)
	}
	return size, nil
}

func (r *ebmlReader) readSizeAndSkip() (uint64, error) {
	size, err := r.readSize()
	if err != nil {
		return 0, err
	}
	if !r.skip(size) {
		return 0, fmt.Errorf("truncated element body")
	}
	return size, nil
}

func readUint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func readFloat(b []byte) float64 {
	switch len(b) {
	case 4:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
	case 8:
		return math.Float64frombits(binary.BigEndian.Uint64(b))
	default:
		return 0
	}
}
