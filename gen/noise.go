// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math/rand"

	"github.com/signalflow-go/signalflow"
)

func init() {
	signalflow.RegisterNode("noise", func() signalflow.Node { return NewNoise() })
}

// Noise is a zero-input white-noise generator, uniform on [-1, 1].
type Noise struct {
	*signalflow.NodeBase
	rng *rand.Rand
}

// NewNoise returns a Noise generator seeded from the process-wide
// random source.
func NewNoise() *Noise {
	n := &Noise{
		NodeBase: signalflow.NewNodeBase("noise", 0, 0, 1, 1),
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
	n.Init(n)
	return n
}

// Process implements signalflow.Node.
func (n *Noise) Process(numFrames int) error {
	out := n.Out(0)[:numFrames]
	for i := range out {
		out[i] = signalflow.Sample(n.rng.Float64()*2 - 1)
	}
	return nil
}
