// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import "github.com/signalflow-go/signalflow"

func init() {
	signalflow.RegisterNode("sum", func() signalflow.Node { return NewSum() })
}

// Sum is a variadic node summing every connected input, matching
// channel counts by the widest connected input.
type Sum struct {
	*signalflow.NodeBase
}

// NewSum returns a Sum over inputs (numeric literals are promoted to
// Constants); with no arguments it starts empty. More summands can be
// appended with Add.
func NewSum(inputs ...interface{}) *Sum {
	s := &Sum{NodeBase: signalflow.NewNodeBase("sum", signalflow.NChannels, signalflow.NChannels, 1, signalflow.NChannels)}
	s.Init(s)
	for _, in := range inputs {
		s.Add(in)
	}
	return s
}

// Add appends a new summand, returning the synthesised input name.
func (s *Sum) Add(in interface{}) string {
	name, err := s.AddVariadicInput(asNode(in))
	if err != nil {
		panic(err)
	}
	return name
}

// Process implements signalflow.Node.
func (s *Sum) Process(numFrames int) error {
	for c := 0; c < s.NumOutputChannels; c++ {
		dst := s.Out(c)[:numFrames]
		for i := range dst {
			dst[i] = 0
		}
	}
	for _, name := range s.InputNames() {
		in, _ := s.GetInput(name)
		if in == nil {
			continue
		}
		base := in.Base()
		for c := 0; c < s.NumOutputChannels; c++ {
			src := base.Out(c % base.NumOutputChannels)[:numFrames]
			dst := s.Out(c)[:numFrames]
			for i, v := range src {
				dst[i] += v
			}
		}
	}
	return nil
}
