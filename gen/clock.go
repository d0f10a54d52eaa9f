// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"github.com/signalflow-go/signalflow"
	"zikichombo.org/sound/freq"
)

func init() {
	signalflow.RegisterNode("clock", func() signalflow.Node { return NewClock(DefaultSampleRate, 1) })
}

// Clock emits a one-sample pulse (1.0, else 0.0) every period seconds,
// the control-rate tick source TriggerNoise and similar nodes detect
// via their one-sample look-back.
type Clock struct {
	*signalflow.NodeBase
	periodSamples int
	pos           int
}

// NewClock returns a Clock at sampleRate firing every period seconds.
func NewClock(sampleRate freq.T, period float64) *Clock {
	c := &Clock{
		NodeBase:      signalflow.NewNodeBase("clock", 0, 0, 1, 1),
		periodSamples: secondsToSamples(sampleRate, period),
	}
	if c.periodSamples < 1 {
		c.periodSamples = 1
	}
	c.Init(c)
	return c
}

// Process implements signalflow.Node.
func (c *Clock) Process(numFrames int) error {
	out := c.Out(0)[:numFrames]
	for i := range out {
		if c.pos == 0 {
			out[i] = 1
		} else {
			out[i] = 0
		}
		c.pos++
		if c.pos >= c.periodSamples {
			c.pos = 0
		}
	}
	return nil
}
