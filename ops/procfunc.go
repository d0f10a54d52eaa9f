// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import "github.com/signalflow-go/signalflow"

// asNode promotes v to a signalflow.Node: a Node passes through
// unchanged, a float32/float64/int literal is wrapped in a Constant.
// This is the free-function substitute for the operand coercion Go's
// lack of operator overloading would otherwise need built into Node
// itself.
func asNode(v interface{}) signalflow.Node {
	switch x := v.(type) {
	case signalflow.Node:
		return x
	case float32:
		return signalflow.AsNode(x)
	case float64:
		return signalflow.AsNode(float32(x))
	case int:
		return signalflow.AsNode(float32(x))
	default:
		panic("signalflow/ops: operand is neither a Node nor a numeric literal")
	}
}

// binaryFunc is the shared shape of every two-input arithmetic node:
// "input0" op "input1", sample by sample, with the narrower input's
// channels read cyclically to match the wider side.
type binaryFunc struct {
	*signalflow.NodeBase
	fn func(a, b signalflow.Sample) signalflow.Sample
}

func newBinaryFunc(kind string, fn func(a, b signalflow.Sample) signalflow.Sample) *binaryFunc {
	b := &binaryFunc{
		NodeBase: signalflow.NewNodeBase(kind, signalflow.NChannels, signalflow.NChannels, 1, signalflow.NChannels),
		fn:       fn,
	}
	b.Init(b)
	b.CreateInput("input0", nil)
	b.CreateInput("input1", nil)
	return b
}

// Process implements signalflow.Node.
func (b *binaryFunc) Process(numFrames int) error {
	in0, _ := b.GetInput("input0")
	in1, _ := b.GetInput("input1")
	for c := 0; c < b.NumOutputChannels; c++ {
		dst := b.Out(c)[:numFrames]
		for i := range dst {
			var a, v signalflow.Sample
			if in0 != nil {
				base := in0.Base()
				a = base.Out(c % base.NumOutputChannels)[i]
			}
			if in1 != nil {
				base := in1.Base()
				v = base.Out(c % base.NumOutputChannels)[i]
			}
			dst[i] = b.fn(a, v)
		}
	}
	return nil
}

// unaryFunc is the shared shape of every single-input remapping node:
// f(input), sample by sample, same channel count as the input.
type unaryFunc struct {
	*signalflow.NodeBase
	fn func(a signalflow.Sample) signalflow.Sample
}

func newUnaryFunc(kind string, fn func(a signalflow.Sample) signalflow.Sample) *unaryFunc {
	u := &unaryFunc{
		NodeBase: signalflow.NewNodeBase(kind, signalflow.NChannels, signalflow.NChannels, 1, signalflow.NChannels),
		fn:       fn,
	}
	u.Init(u)
	u.CreateInput("input", nil)
	return u
}

// Process implements signalflow.Node.
func (u *unaryFunc) Process(numFrames int) error {
	in, _ := u.GetInput("input")
	for c := 0; c < u.NumOutputChannels; c++ {
		dst := u.Out(c)[:numFrames]
		if in == nil {
			for i := range dst {
				dst[i] = u.fn(0)
			}
			continue
		}
		base := in.Base()
		src := base.Out(c % base.NumOutputChannels)[:numFrames]
		for i, v := range src {
			dst[i] = u.fn(v)
		}
	}
	return nil
}
