// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import (
	"math"

	"github.com/signalflow-go/signalflow"
)

func init() {
	signalflow.RegisterNode("scale", func() signalflow.Node { return NewScale(nil, -1, 1) })
	signalflow.RegisterNode("linexp", func() signalflow.Node { return NewLinExp(nil, 1, 2) })
	signalflow.RegisterScaleFactory(func(input signalflow.Node, from, to float32, mode signalflow.ScaleMode) signalflow.Node {
		if mode == signalflow.ScaleLinExp {
			return NewLinExp(input, from, to)
		}
		return NewScale(input, from, to)
	})
}

// Scale linearly remaps its input's [-1, 1] range onto [from, to].
type Scale struct {
	*signalflow.NodeBase
	from, to float32
}

// NewScale returns a Scale node reading input (may be nil) and
// remapping onto [from, to].
func NewScale(input signalflow.Node, from, to float32) *Scale {
	s := &Scale{
		NodeBase: signalflow.NewNodeBase("scale", signalflow.NChannels, signalflow.NChannels, 1, signalflow.NChannels),
		from:     from,
		to:       to,
	}
	s.Init(s)
	s.CreateInput("input", input)
	return s
}

// Process implements signalflow.Node.
func (s *Scale) Process(numFrames int) error {
	in, _ := s.GetInput("input")
	for c := 0; c < s.NumOutputChannels; c++ {
		dst := s.Out(c)[:numFrames]
		if in == nil {
			for i := range dst {
				dst[i] = s.from
			}
			continue
		}
		base := in.Base()
		src := base.Out(c % base.NumOutputChannels)[:numFrames]
		for i, v := range src {
			frac := (v + 1) / 2
			dst[i] = s.from + frac*(s.to-s.from)
		}
	}
	return nil
}

// LinExp linearly reads its input's [-1, 1] range and maps it
// exponentially onto [from, to]; from and to must both be positive,
// as with frequency or gain ranges.
type LinExp struct {
	*signalflow.NodeBase
	from, to float32
}

// NewLinExp returns a LinExp node reading input (may be nil) and
// remapping exponentially onto [from, to].
func NewLinExp(input signalflow.Node, from, to float32) *LinExp {
	l := &LinExp{
		NodeBase: signalflow.NewNodeBase("linexp", signalflow.NChannels, signalflow.NChannels, 1, signalflow.NChannels),
		from:     from,
		to:       to,
	}
	l.Init(l)
	l.CreateInput("input", input)
	return l
}

// Process implements signalflow.Node.
func (l *LinExp) Process(numFrames int) error {
	in, _ := l.GetInput("input")
	logFrom := math.Log(float64(l.from))
	logTo := math.Log(float64(l.to))
	for c := 0; c < l.NumOutputChannels; c++ {
		dst := l.Out(c)[:numFrames]
		if in == nil {
			for i := range dst {
				dst[i] = l.from
			}
			continue
		}
		base := in.Base()
		src := base.Out(c % base.NumOutputChannels)[:numFrames]
		for i, v := range src {
			frac := (float64(v) + 1) / 2
			dst[i] = signalflow.Sample(math.Exp(logFrom + frac*(logTo-logFrom)))
		}
	}
	return nil
}
