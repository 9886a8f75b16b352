package embcache

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Vectors are cached as packed little-endian float32, 4 bytes per component.

func encodeVector(v []float32) []byte {
	buf := make([]byte, 0, 4*len(v))
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("cached vector has %d bytes, want a positive multiple of 4", len(data))
	}
	v := make([]float32, 0, len(data)/4)
	for rest := data; len(rest) > 0; rest = rest[4:] {
		v = append(v, math.Float32frombits(binary.LittleEndian.Uint32(rest)))
	}
	return v, nil
}
