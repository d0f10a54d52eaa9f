// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import "github.com/signalflow-go/signalflow"

func init() {
	signalflow.RegisterNode("channel-select", func() signalflow.Node { return NewChannelSelect(nil, 0) })
}

// ChannelSelect extracts a fixed subset of channels (by index) from a
// wider input, producing one output channel per requested index. Like
// ChannelMixer, it is the other explicit fix-up for a width mismatch
// InvalidChannelCountError would otherwise raise.
type ChannelSelect struct {
	*signalflow.NodeBase
	indices channelMap
}

// NewChannelSelect returns a node selecting indices from input (may be
// nil). With no indices given, it defaults to selecting channel 0.
func NewChannelSelect(input signalflow.Node, indices ...int) *ChannelSelect {
	var cm channelMap
	if len(indices) == 0 {
		cm = identityChannelMap(1)
	} else {
		cm = append(channelMap(nil), indices...)
	}
	s := &ChannelSelect{
		NodeBase: signalflow.NewNodeBase("channel-select", signalflow.NChannels, signalflow.NChannels, len(cm), len(cm)),
		indices:  cm,
	}
	s.NoInputUpmix = true
	s.NumOutputChannels = len(cm)
	s.Init(s)
	s.SyncOutputChannels()
	s.CreateInput("input", input)
	return s
}

// UpdateChannels implements signalflow.ChannelUpdater: output width is
// fixed at construction time, equal to the number of selected indices.
func (s *ChannelSelect) UpdateChannels() error {
	return nil
}

// Process implements signalflow.Node.
func (s *ChannelSelect) Process(numFrames int) error {
	in, _ := s.GetInput("input")
	for c, idx := range s.indices {
		dst := s.Out(c)[:numFrames]
		if in == nil {
			for i := range dst {
				dst[i] = 0
			}
			continue
		}
		base := in.Base()
		if idx >= base.NumOutputChannels {
			for i := range dst {
				dst[i] = 0
			}
			continue
		}
		copy(dst, base.Out(idx)[:numFrames])
	}
	return nil
}
