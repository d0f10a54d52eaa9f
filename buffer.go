// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import (
	"fmt"
	"io"
	"math"

	"zikichombo.org/sound/freq"
)

// InterpMode selects how Buffer.Get interpolates between frames.
type InterpMode int

const (
	// InterpNearest truncates to the nearest lower frame.
	InterpNearest InterpMode = iota
	// InterpLinear linearly interpolates between the two surrounding frames.
	InterpLinear
)

// offsetMapper lets a Buffer remap the public "offset" domain used by
// Get/Fill onto the underlying frame index domain. The default is the
// identity map; NewEnvelopeBuffer and NewWaveShaperBuffer install
// others, generalising the original implementation's offset_to_frame /
// frame_to_offset subclass overrides via composition.
type offsetMapper interface {
	offsetToFrame(numFrames int, offset float64) float64
	frameToOffset(numFrames int, frame float64) float64
}

type linearMapper struct{}

func (linearMapper) offsetToFrame(_ int, offset float64) float64 { return offset }
func (linearMapper) frameToOffset(_ int, frame float64) float64  { return frame }

type envelopeMapper struct{}

func (envelopeMapper) offsetToFrame(n int, offset float64) float64 {
	return mapRange(offset, 0, 1, 0, float64(n-1))
}
func (envelopeMapper) frameToOffset(n int, frame float64) float64 {
	return mapRange(frame, 0, float64(n-1), 0, 1)
}

type waveShaperMapper struct{}

func (waveShaperMapper) offsetToFrame(n int, offset float64) float64 {
	return mapRange(offset, -1, 1, 0, float64(n-1))
}
func (waveShaperMapper) frameToOffset(n int, frame float64) float64 {
	return mapRange(frame, 0, float64(n-1), -1, 1)
}

func mapRange(x, inMin, inMax, outMin, outMax float64) float64 {
	return outMin + (x-inMin)*(outMax-outMin)/(inMax-inMin)
}

// betaPDF evaluates the Beta(a, b) probability density function at x,
// used by NewBetaEnvelope to shape stochastic envelopes.
func betaPDF(x, a, b float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	lgA, _ := math.Lgamma(a)
	lgB, _ := math.Lgamma(b)
	lgAB, _ := math.Lgamma(a + b)
	logBeta := lgA + lgB - lgAB
	return math.Exp((a-1)*math.Log(x) + (b-1)*math.Log(1-x) - logBeta)
}


// Buffer is an owned block of num_channels x num_frames samples, stored
// channel-planar with a consistent inter-channel stride.
type Buffer struct {
	data       [][]Sample
	numFrames  int
	sampleRate freq.T
	interp     InterpMode
	mapper     offsetMapper
}

// NewBuffer allocates a zeroed buffer of the given shape.
func NewBuffer(numChannels, numFrames int, sampleRate freq.T) *Buffer {
	return &Buffer{
		data:       planar(numChannels, numFrames),
		numFrames:  numFrames,
		sampleRate: sampleRate,
		interp:     InterpLinear,
		mapper:     linearMapper{},
	}
}

// NewBufferFrom allocates a buffer and copies data into it. Every
// channel in data must have length numFrames.
func NewBufferFrom(numFrames int, sampleRate freq.T, data [][]Sample) (*Buffer, error) {
	b := NewBuffer(len(data), numFrames, sampleRate)
	for c, ch := range data {
		if len(ch) != numFrames {
			return nil, &BufferShapeMismatchError{Reason: fmt.Sprintf("channel %d has %d frames, want %d", c, len(ch), numFrames)}
		}
		copy(b.data[c], ch)
	}
	return b, nil
}

// NewEnvelopeBuffer returns a flat, maximum-amplitude envelope of the
// given length, addressed over the offset domain [0, 1].
func NewEnvelopeBuffer(numFrames int) *Buffer {
	b := NewBuffer(1, numFrames, 0)
	b.mapper = envelopeMapper{}
	b.Fill(1)
	return b
}

// NewHanningEnvelope returns a Hanning (raised cosine) window envelope.
func NewHanningEnvelope(numFrames int) *Buffer {
	b := NewEnvelopeBuffer(numFrames)
	for x := 0; x < numFrames; x++ {
		b.data[0][x] = Sample(0.5 * (1 - math.Cos(2*math.Pi*float64(x)/float64(numFrames-1))))
	}
	return b
}

// NewTriangleEnvelope returns a linear attack/release triangle envelope.
func NewTriangleEnvelope(numFrames int) *Buffer {
	b := NewEnvelopeBuffer(numFrames)
	half := numFrames / 2
	for x := 0; x < half; x++ {
		b.data[0][x] = Sample(float64(x) / float64(half))
	}
	for x := 0; x < half; x++ {
		b.data[0][half+x] = Sample(1 - float64(x)/float64(half))
	}
	return b
}

// NewLinearDecayEnvelope returns an envelope that ramps linearly down
// from 1: frame x holds 1 - x/numFrames, so the last frame is
// 1/numFrames rather than 0.
func NewLinearDecayEnvelope(numFrames int) *Buffer {
	b := NewEnvelopeBuffer(numFrames)
	for x := 0; x < numFrames; x++ {
		b.data[0][x] = Sample(1 - float64(x)/float64(numFrames))
	}
	return b
}

// NewExponentialEnvelope fills an envelope with an exponential
// probability density, as a decay-shape generator.
func NewExponentialEnvelope(numFrames int, mu float64) *Buffer {
	b := NewEnvelopeBuffer(numFrames)
	for x := 0; x < numFrames; x++ {
		t := float64(x) / float64(numFrames)
		b.data[0][x] = Sample(mu * math.Exp(-mu*t))
	}
	return b
}

// NewBetaEnvelope fills an envelope with a Beta(a, b) probability
// density, rescaled to a maximum of 1.
func NewBetaEnvelope(numFrames int, a, b float64) *Buffer {
	buf := NewEnvelopeBuffer(numFrames)
	peak := 0.0
	vals := make([]float64, numFrames)
	for x := 0; x < numFrames; x++ {
		t := (float64(x) + 0.5) / float64(numFrames)
		v := betaPDF(t, a, b)
		vals[x] = v
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}
	for x := 0; x < numFrames; x++ {
		buf.data[0][x] = Sample(vals[x] / peak)
	}
	return buf
}

// NewWaveShaperBuffer returns a 1-to-1 linear mapping buffer addressed
// over the offset domain [-1, 1].
func NewWaveShaperBuffer(numFrames int) *Buffer {
	b := NewBuffer(1, numFrames, 0)
	b.mapper = waveShaperMapper{}
	b.FillFunc(func(offset float64) Sample { return Sample(offset) })
	return b
}

// NumChannels returns the number of channels in the buffer.
func (b *Buffer) NumChannels() int { return len(b.data) }

// NumFrames returns the number of frames per channel.
func (b *Buffer) NumFrames() int { return b.numFrames }

// SampleRate returns the buffer's sample-rate annotation.
func (b *Buffer) SampleRate() freq.T { return b.sampleRate }

// Interpolation returns the buffer's interpolation mode.
func (b *Buffer) Interpolation() InterpMode { return b.interp }

// SetInterpolation sets the buffer's interpolation mode.
func (b *Buffer) SetInterpolation(m InterpMode) { b.interp = m }

// Channel exposes the raw samples of channel c for codec code to read
// or fill; out of the core's scope, this is the only contract a Load/Save
// collaborator needs.
func (b *Buffer) Channel(c int) []Sample { return b.data[c] }

// GetFrame reads channel 0 at a fractional frame index, clamping to
// [0, NumFrames()-1] and interpolating per the buffer's InterpMode.
func (b *Buffer) GetFrame(f float64) Sample {
	return b.GetFrameChannel(0, f)
}

// GetFrameChannel is GetFrame generalised to an arbitrary channel, for
// readers (e.g. a BufferPlayer) that need every channel of a
// multi-channel buffer rather than just channel 0.
func (b *Buffer) GetFrameChannel(c int, f float64) Sample {
	if f > float64(b.numFrames-1) {
		f = float64(b.numFrames - 1)
	}
	if f < 0 {
		f = 0
	}
	if b.interp == InterpLinear {
		lo := int(f)
		hi := lo + 1
		if hi > b.numFrames-1 {
			hi = b.numFrames - 1
		}
		frac := f - float64(lo)
		return Sample((1-frac)*float64(b.data[c][lo]) + frac*float64(b.data[c][hi]))
	}
	return b.data[c][int(f)]
}

// Get reads the buffer at a fractional offset in the buffer's own
// offset domain (identity for a plain Buffer; [0,1] for an envelope;
// [-1,1] for a wave shaper).
func (b *Buffer) Get(offset float64) Sample {
	return b.GetFrame(b.mapper.offsetToFrame(b.numFrames, offset))
}

// Fill sets every frame of every channel to value.
func (b *Buffer) Fill(value Sample) {
	for c := range b.data {
		for f := range b.data[c] {
			b.data[c][f] = value
		}
	}
}

// FillFunc sets every frame of every channel to fn(offset), where
// offset is the frame mapped through the buffer's offset domain.
func (b *Buffer) FillFunc(fn func(offset float64) Sample) {
	for c := range b.data {
		for f := range b.data[c] {
			offset := b.mapper.frameToOffset(b.numFrames, float64(f))
			b.data[c][f] = fn(offset)
		}
	}
}

// Split partitions a mono buffer into floor(NumFrames()/n) zero-copy
// views of length n, sharing the same backing storage.
func (b *Buffer) Split(n int) ([]*Buffer, error) {
	if b.NumChannels() != 1 {
		return nil, &BufferShapeMismatchError{Reason: "split only supports mono buffers"}
	}
	count := b.numFrames / n
	views := make([]*Buffer, count)
	for i := 0; i < count; i++ {
		views[i] = &Buffer{
			data:       [][]Sample{b.data[0][i*n : i*n+n]},
			numFrames:  n,
			sampleRate: b.sampleRate,
			interp:     b.interp,
			mapper:     linearMapper{},
		}
	}
	return views, nil
}

// LoadFrom populates the buffer from an external codec. decode must
// return channel-planar data and the source sample rate; LoadFrom
// fails with BufferShapeMismatchError if they disagree with an
// already-allocated buffer's shape, matching the narrower preallocated
// case of the original Buffer::load.
func (b *Buffer) LoadFrom(r io.Reader, decode func(io.Reader) ([][]Sample, freq.T, error)) error {
	data, sr, err := decode(r)
	if err != nil {
		return err
	}
	if b.numFrames > 0 && len(b.data) > 0 {
		if len(data) != b.NumChannels() {
			return &BufferShapeMismatchError{Reason: fmt.Sprintf("decoded %d channels, buffer has %d", len(data), b.NumChannels())}
		}
		if sr != 0 && b.sampleRate != 0 && sr != b.sampleRate {
			return &BufferShapeMismatchError{Reason: fmt.Sprintf("decoded sample rate %s, buffer has %s", sr, b.sampleRate)}
		}
	}
	nb, err := NewBufferFrom(len(data[0]), sr, data)
	if err != nil {
		return err
	}
	*b = *nb
	return nil
}

// SaveTo hands the buffer's channel-planar data to an external codec.
func (b *Buffer) SaveTo(w io.Writer, encode func(io.Writer, [][]Sample, freq.T) error) error {
	return encode(w, b.data, b.sampleRate)
}
