// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import "testing"

// passThrough is a minimal test double: one input, identity Process,
// matching the input's channel count.
type passThrough struct {
	*NodeBase
}

func newPassThrough() *passThrough {
	p := &passThrough{NodeBase: NewNodeBase("pass-through", NChannels, NChannels, 1, NChannels)}
	p.Init(p)
	p.CreateInput("input", nil)
	return p
}

func (p *passThrough) Process(numFrames int) error {
	in, _ := p.GetInput("input")
	for c := 0; c < p.NumOutputChannels; c++ {
		dst := p.Out(c)[:numFrames]
		if in == nil {
			for i := range dst {
				dst[i] = 0
			}
			continue
		}
		copy(dst, in.Base().Out(c%in.Base().NumOutputChannels)[:numFrames])
	}
	return nil
}

func TestPassThroughCopiesInput(t *testing.T) {
	a := NewConstant(0.25)
	p := newPassThrough()
	if err := p.SetInput("input", a); err != nil {
		t.Fatal(err)
	}
	if err := a.Process(64); err != nil {
		t.Fatal(err)
	}
	if err := p.Process(64); err != nil {
		t.Fatal(err)
	}
	for _, v := range p.Out(0)[:64] {
		if v != 0.25 {
			t.Fatalf("got %v, want 0.25", v)
		}
	}
}

func TestChannelInferenceWidensToWidestInput(t *testing.T) {
	mono := NewConstant(1)
	p := newPassThrough()
	if err := p.SetInput("input", mono); err != nil {
		t.Fatal(err)
	}
	if p.NumOutputChannels != 1 {
		t.Fatalf("got %d channels, want 1", p.NumOutputChannels)
	}
}

func TestChannelInferenceRespectsMinOutputChannels(t *testing.T) {
	n := NewNodeBase("sink-like", NChannels, NChannels, 2, 2)
	n.Init(&stubNode{n})
	if err := n.defaultUpdateChannels(); err != nil {
		t.Fatal(err)
	}
	if n.NumOutputChannels != 2 {
		t.Fatalf("got %d, want 2 (min_output_channels floor)", n.NumOutputChannels)
	}
}

type stubNode struct{ *NodeBase }

func (s *stubNode) Process(int) error { return nil }

func TestSetInputRejectsCycle(t *testing.T) {
	a := newPassThrough()
	b := newPassThrough()
	if err := b.SetInput("input", a); err != nil {
		t.Fatal(err)
	}
	if err := a.SetInput("input", b); err == nil {
		t.Fatal("expected cycle rejection, got nil")
	}
}

func TestSetInputValueRequiresConstant(t *testing.T) {
	p := newPassThrough()
	other := newPassThrough()
	if err := p.SetInput("input", other); err != nil {
		t.Fatal(err)
	}
	if err := p.SetInputValue("input", 1); err == nil {
		t.Fatal("expected CannotSetInputError")
	}
}

func TestSetInputValueMutatesConstantInPlace(t *testing.T) {
	p := newPassThrough()
	c := NewConstant(1)
	if err := p.SetInput("input", c); err != nil {
		t.Fatal(err)
	}
	prevOutputs := len(c.outputs)
	if err := p.SetInputValue("input", 2); err != nil {
		t.Fatal(err)
	}
	if c.Value() != 2 {
		t.Fatalf("got %v, want 2", c.Value())
	}
	if len(c.outputs) != prevOutputs {
		t.Fatalf("SetInputValue must not rewire edges")
	}
}

func TestPrevSampleLookBack(t *testing.T) {
	c := NewConstant(0)
	out := c.Out(0)
	for i := range out[:4] {
		out[i] = Sample(i + 1)
	}
	c.markProcessed(4)
	c.snapshotPrev()
	if got := c.PrevSample(0); got != 4 {
		t.Fatalf("got %v, want 4 (last sample of previous block)", got)
	}
}
