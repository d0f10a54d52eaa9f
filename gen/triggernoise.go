// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math/rand"

	"github.com/signalflow-go/signalflow"
)

func init() {
	signalflow.RegisterNode("trigger-noise", func() signalflow.Node { return NewTriggerNoise(nil) })
}

// TriggerNoise reads a "clock" control input and emits a fresh
// uniform random value on [-1, 1] each time that input crosses from
// non-positive to positive, holding the value otherwise. The
// crossing test compares the clock's first sample this block against
// its one-sample look-back from the previous block, the concrete use
// of PrevSample the scheduler's pre-history slot exists for.
type TriggerNoise struct {
	*signalflow.NodeBase
	rng   *rand.Rand
	value float32
}

// NewTriggerNoise returns a TriggerNoise reading clock (may be nil).
func NewTriggerNoise(clock signalflow.Node) *TriggerNoise {
	t := &TriggerNoise{
		NodeBase: signalflow.NewNodeBase("trigger-noise", 1, 1, 1, 1),
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
	t.Init(t)
	t.CreateInput("clock", clock)
	return t
}

// Process implements signalflow.Node.
func (t *TriggerNoise) Process(numFrames int) error {
	clockNode, _ := t.GetInput("clock")
	out := t.Out(0)[:numFrames]
	if clockNode == nil {
		for i := range out {
			out[i] = t.value
		}
		return nil
	}
	cb := clockNode.Base()
	clk := cb.Out(0)[:numFrames]
	prev := cb.PrevSample(0)
	for i, c := range clk {
		if prev <= 0 && c > 0 {
			t.value = t.rng.Float32()*2 - 1
		}
		out[i] = t.value
		prev = c
	}
	return nil
}
