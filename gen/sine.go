// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math"

	"github.com/signalflow-go/signalflow"
	"zikichombo.org/sound/freq"
)

func init() {
	signalflow.RegisterNode("sine", func() signalflow.Node { return NewSine(DefaultSampleRate, nil) })
}

// Sine is a phase-accumulating sine oscillator reading its frequency,
// in Hz, from the "frequency" input every sample, so it can be
// frequency-modulated by any other node's output.
type Sine struct {
	*signalflow.NodeBase
	sampleRate freq.T
	phase      float64

	// ProcessCount counts invocations of Process, for tests exercising
	// the single-evaluation-per-tick scheduler invariant.
	ProcessCount int
}

// NewSine returns a Sine at sampleRate reading frequency (may be nil,
// meaning silence) for its pitch.
func NewSine(sampleRate freq.T, frequency signalflow.Node) *Sine {
	s := &Sine{
		NodeBase:   signalflow.NewNodeBase("sine", 1, 1, 1, 1),
		sampleRate: sampleRate,
	}
	s.Init(s)
	s.CreateInput("frequency", frequency)
	return s
}

// Process implements signalflow.Node.
func (s *Sine) Process(numFrames int) error {
	s.ProcessCount++
	freqNode, _ := s.GetInput("frequency")
	out := s.Out(0)[:numFrames]
	sr := float64(s.sampleRate)
	for i := range out {
		hz := 0.0
		if freqNode != nil {
			fb := freqNode.Base()
			hz = float64(fb.Out(0)[i])
		}
		out[i] = signalflow.Sample(math.Sin(2 * math.Pi * s.phase))
		s.phase += hz / sr
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
		}
	}
	return nil
}
