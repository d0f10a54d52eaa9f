// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import "github.com/signalflow-go/signalflow"

func init() {
	signalflow.RegisterNode("channel-array", func() signalflow.Node { return NewChannelArray() })
}

// ChannelArray is a variadic node that assembles N mono inputs into an
// N-channel output, one input per output channel. Unlike the default
// match-mode inference, its output width is the number of connected
// inputs, not their widest channel count, so it overrides
// UpdateChannels.
type ChannelArray struct {
	*signalflow.NodeBase
}

// NewChannelArray returns a ChannelArray with one output channel per
// given input, in order; further channels can be appended with Add.
func NewChannelArray(inputs ...signalflow.Node) *ChannelArray {
	a := &ChannelArray{NodeBase: signalflow.NewNodeBase("channel-array", 1, 1, 1, 1)}
	a.NoInputUpmix = true
	a.Init(a)
	for _, in := range inputs {
		a.Add(in)
	}
	return a
}

// Add appends in as the next output channel.
func (a *ChannelArray) Add(in signalflow.Node) string {
	name, err := a.AddVariadicInput(in)
	if err != nil {
		panic(err)
	}
	return name
}

// UpdateChannels implements signalflow.ChannelUpdater: the output
// width tracks the number of connected input slots exactly.
func (a *ChannelArray) UpdateChannels() error {
	n := len(a.InputNames())
	if n < 1 {
		n = 1
	}
	a.NumOutputChannels = n
	a.SyncOutputChannels()
	return nil
}

// Process implements signalflow.Node.
func (a *ChannelArray) Process(numFrames int) error {
	for c, name := range a.InputNames() {
		dst := a.Out(c)[:numFrames]
		in, _ := a.GetInput(name)
		if in == nil {
			for i := range dst {
				dst[i] = 0
			}
			continue
		}
		src := in.Base().Out(0)[:numFrames]
		copy(dst, src)
	}
	return nil
}
