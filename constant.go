// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

func init() {
	RegisterNode("constant", func() Node { return NewConstant(0) })
}

// Constant is a zero-input node that broadcasts a single scalar value
// to every frame of its (single) output channel. SetInput's Constant
// fast path mutates Constant.value directly instead of rewiring the
// graph, so automating a parameter never touches the topology.
type Constant struct {
	*NodeBase
	value Sample
}

// NewConstant returns an initialised Constant holding value.
func NewConstant(value Sample) *Constant {
	c := &Constant{
		NodeBase: NewNodeBase("constant", 0, 0, 1, 1),
		value:    value,
	}
	c.Init(c)
	return c
}

// Value returns the constant's current value.
func (c *Constant) Value() Sample { return c.value }

// SetValue updates the constant's value in place, observed by every
// consumer on its next Process call.
func (c *Constant) SetValue(v Sample) { c.value = v }

// Process fills the output buffer with the constant's current value.
func (c *Constant) Process(numFrames int) error {
	out := c.Out(0)[:numFrames]
	for i := range out {
		out[i] = c.value
	}
	return nil
}

// AsNode promotes a bare float32 to a *Constant, the numeric-literal
// promotion used by signalflow/ops' arithmetic helpers so that
// expressions like ops.Add(osc, 0.5) don't require the caller to wrap
// every literal manually.
func AsNode(v float32) Node {
	return NewConstant(v)
}
