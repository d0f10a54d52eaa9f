// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package device

import (
	"encoding/binary"
	"math"
	"sync"
)

// StreamReader turns an EbitenSource into the io.Reader shape
// ebiten's audio.Context.NewPlayerF32 expects: interleaved stereo
// float32 samples, little-endian, 8 bytes per frame.
type StreamReader struct {
	mu     sync.Mutex
	source *EbitenSource
	buf    []float32
}

// NewStreamReader wraps source.
func NewStreamReader(source *EbitenSource) *StreamReader {
	return &StreamReader{source: source}
}

// Read implements io.Reader.
func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	return frames * 8, nil
}

// Close implements io.ReadCloser.
func (r *StreamReader) Close() error { return nil }
