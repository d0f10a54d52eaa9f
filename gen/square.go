// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math"

	"github.com/signalflow-go/signalflow"
	"zikichombo.org/sound/freq"
)

func init() {
	signalflow.RegisterNode("square", func() signalflow.Node { return NewSquare(DefaultSampleRate, nil) })
}

// Square is a phase-accumulating square-wave oscillator with a
// "frequency" input and a "width" (duty cycle, default 0.5) input.
type Square struct {
	*signalflow.NodeBase
	sampleRate freq.T
	phase      float64
}

// NewSquare returns a Square at sampleRate reading frequency (may be nil).
func NewSquare(sampleRate freq.T, frequency signalflow.Node) *Square {
	s := &Square{
		NodeBase:   signalflow.NewNodeBase("square", 1, 1, 1, 1),
		sampleRate: sampleRate,
	}
	s.Init(s)
	s.CreateInput("frequency", frequency)
	s.CreateInput("width", signalflow.NewConstant(0.5))
	return s
}

// Process implements signalflow.Node.
func (s *Square) Process(numFrames int) error {
	freqNode, _ := s.GetInput("frequency")
	widthNode, _ := s.GetInput("width")
	out := s.Out(0)[:numFrames]
	sr := float64(s.sampleRate)
	for i := range out {
		hz := 0.0
		if freqNode != nil {
			hz = float64(freqNode.Base().Out(0)[i])
		}
		width := 0.5
		if widthNode != nil {
			width = float64(widthNode.Base().Out(0)[i])
		}
		if s.phase < width {
			out[i] = 1
		} else {
			out[i] = -1
		}
		s.phase += hz / sr
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
		}
	}
	return nil
}
