// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import "github.com/signalflow-go/signalflow"

func init() {
	signalflow.RegisterNode("channel-mixer", func() signalflow.Node { return NewChannelMixer(nil, 2) })
}

// ChannelMixer downmixes a wide multi-channel input to a fixed
// numOutputChannels by summing each input channel, cycled modulo
// numOutputChannels, into its target output channel. It is the
// explicit fix-up the host inserts wherever InvalidChannelCountError
// would otherwise be raised connecting a wide input into a
// fixed-width, non-matching node.
type ChannelMixer struct {
	*signalflow.NodeBase
}

// NewChannelMixer returns a mixer reading input (may be nil) down to
// numOutputChannels.
func NewChannelMixer(input signalflow.Node, numOutputChannels int) *ChannelMixer {
	m := &ChannelMixer{NodeBase: signalflow.NewNodeBase("channel-mixer", signalflow.NChannels, signalflow.NChannels, numOutputChannels, numOutputChannels)}
	m.NoInputUpmix = true
	m.NumOutputChannels = numOutputChannels
	m.Init(m)
	m.SyncOutputChannels()
	m.CreateInput("input", input)
	return m
}

// UpdateChannels implements signalflow.ChannelUpdater: output width is
// fixed at construction time regardless of the connected input's
// channel count, which is exactly the point of a mixer.
func (m *ChannelMixer) UpdateChannels() error {
	return nil
}

// Process implements signalflow.Node.
func (m *ChannelMixer) Process(numFrames int) error {
	for c := 0; c < m.NumOutputChannels; c++ {
		dst := m.Out(c)[:numFrames]
		for i := range dst {
			dst[i] = 0
		}
	}
	in, _ := m.GetInput("input")
	if in == nil {
		return nil
	}
	base := in.Base()
	for sc := 0; sc < base.NumOutputChannels; sc++ {
		src := base.Out(sc)[:numFrames]
		dst := m.Out(sc % m.NumOutputChannels)[:numFrames]
		for i, v := range src {
			dst[i] += v
		}
	}
	return nil
}
