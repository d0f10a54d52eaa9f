// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math"

	"github.com/signalflow-go/signalflow"
	"zikichombo.org/sound/freq"
)

func init() {
	signalflow.RegisterNode("saw", func() signalflow.Node { return NewSaw(DefaultSampleRate, nil) })
}

// Saw is a phase-accumulating band-unlimited sawtooth oscillator
// reading its frequency, in Hz, from the "frequency" input.
type Saw struct {
	*signalflow.NodeBase
	sampleRate freq.T
	phase      float64
}

// NewSaw returns a Saw at sampleRate reading frequency (may be nil).
func NewSaw(sampleRate freq.T, frequency signalflow.Node) *Saw {
	s := &Saw{
		NodeBase:   signalflow.NewNodeBase("saw", 1, 1, 1, 1),
		sampleRate: sampleRate,
	}
	s.Init(s)
	s.CreateInput("frequency", frequency)
	return s
}

// Process implements signalflow.Node.
func (s *Saw) Process(numFrames int) error {
	freqNode, _ := s.GetInput("frequency")
	out := s.Out(0)[:numFrames]
	sr := float64(s.sampleRate)
	for i := range out {
		hz := 0.0
		if freqNode != nil {
			hz = float64(freqNode.Base().Out(0)[i])
		}
		out[i] = signalflow.Sample(2*s.phase - 1)
		s.phase += hz / sr
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
		}
	}
	return nil
}
