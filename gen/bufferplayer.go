// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import "github.com/signalflow-go/signalflow"

func init() {
	signalflow.RegisterNode("buffer-player", func() signalflow.Node { return NewBufferPlayer(nil) })
}

// BufferPlayer streams a Buffer's channels at a controllable rate,
// looping by default. It is what Patch.AddBufferInput wires up behind
// a named template input, and what a sampler voice's root typically
// is.
type BufferPlayer struct {
	*signalflow.NodeBase
	buf    *signalflow.Buffer
	offset float64
	loop   bool
}

// NewBufferPlayer returns a player over buf (which may be nil until
// SetBuffer is called), matching buf's channel count once set.
func NewBufferPlayer(buf *signalflow.Buffer) *BufferPlayer {
	p := &BufferPlayer{
		NodeBase: signalflow.NewNodeBase("buffer-player", 0, 0, 1, signalflow.NChannels),
		buf:      buf,
		loop:     true,
	}
	p.Init(p)
	p.CreateInput("rate", signalflow.NewConstant(1))
	if buf != nil {
		p.applyBufferChannels()
	}
	return p
}

// SetBuffer installs buf as the node's source, replacing any previous
// one and resetting playback to its start.
func (p *BufferPlayer) SetBuffer(buf *signalflow.Buffer) {
	p.buf = buf
	p.offset = 0
	p.applyBufferChannels()
}

// SetLoop controls whether playback wraps at the buffer's end (true,
// the default) or finishes the node once reached.
func (p *BufferPlayer) SetLoop(flag bool) { p.loop = flag }

func (p *BufferPlayer) applyBufferChannels() {
	p.NumOutputChannels = p.buf.NumChannels()
	p.SyncOutputChannels()
}

// Process implements signalflow.Node. Unlike an oscillator's optional
// frequency-modulation input, a BufferPlayer with no buffer installed
// cannot meaningfully run at all, so it reports a DisconnectedError
// rather than silently emitting zero.
func (p *BufferPlayer) Process(numFrames int) error {
	if p.buf == nil {
		return signalflow.NewDisconnectedError(true, "buffer")
	}
	rateNode, _ := p.GetInput("rate")
	frames := float64(p.buf.NumFrames())
	for i := 0; i < numFrames; i++ {
		rate := float64(1)
		if rateNode != nil {
			rate = float64(rateNode.Base().Out(0)[i])
		}
		if p.loop {
			for p.offset >= frames {
				p.offset -= frames
			}
			for p.offset < 0 {
				p.offset += frames
			}
		} else if p.offset >= frames {
			p.SetState(signalflow.StateFinished)
		}
		for c := 0; c < p.NumOutputChannels; c++ {
			p.Out(c)[i] = p.buf.GetFrameChannel(c, p.offset)
		}
		p.offset += rate
	}
	return nil
}
