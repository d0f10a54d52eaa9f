// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package device adapts *signalflow.AudioGraph to the device-I/O
// boundary: a sound.Source a zikichombo-style backend can Receive
// from, and an interleaved-float32 SampleSource a cbegin-mmlfm-go
// style ebiten player can Process from. Neither core package nor
// signalflow/gen/ops import this package; it exists purely so a real
// backend can sit on the output side of the graph without the
// scheduler depending on any device library.
package device

import (
	"github.com/signalflow-go/signalflow"
	"zikichombo.org/sound"
)

// Source exposes an AudioGraph's output root as a zikichombo
// sound.Source: each Receive call drains exactly one scheduler tick.
type Source struct {
	graph *signalflow.AudioGraph
	form  sound.Form
}

// NewSource wraps graph, taking its form from the graph's sample rate
// and the output root's channel count.
func NewSource(graph *signalflow.AudioGraph) *Source {
	root := graph.Root().Base()
	return &Source{
		graph: graph,
		form:  sound.NewForm(graph.SampleRate(), root.NumOutputChannels),
	}
}

// Form implements sound.Source.
func (s *Source) Form() sound.Form { return s.form }

// Receive pulls one tick of len(d)/Channels() frames and copies the
// output root's channels into d, matching zikichombo.org/sound's
// channel-major-planar Source convention (all of channel 0, then all
// of channel 1, ...), the same layout packet.go's put/get use for
// Block.Samples.
func (s *Source) Receive(d []float64) (int, error) {
	channels := s.form.Channels()
	if channels == 0 {
		return 0, nil
	}
	numFrames := len(d) / channels
	if numFrames == 0 {
		return 0, nil
	}
	if err := s.graph.PullInput(numFrames); err != nil {
		return 0, err
	}
	root := s.graph.Root().Base()
	for c := 0; c < channels; c++ {
		out := root.Out(c % root.NumOutputChannels)
		dStart := c * numFrames
		for i := 0; i < numFrames; i++ {
			d[dStart+i] = float64(out[i])
		}
	}
	return numFrames, nil
}

// Close implements sound.Source; the graph owns no OS resources of its
// own, so this only stops the scheduler.
func (s *Source) Close() error {
	s.graph.Stop()
	return nil
}
