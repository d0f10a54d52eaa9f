// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package device

import "github.com/signalflow-go/signalflow"

// EbitenSource adapts an AudioGraph to the SampleSource shape
// cbegin-mmlfm-go's StreamReader consumes: Process fills dst with
// interleaved stereo float32 frames, pulling exactly len(dst)/2
// frames from the graph per call.
type EbitenSource struct {
	graph *signalflow.AudioGraph
}

// NewEbitenSource wraps graph for interleaved stereo playback.
func NewEbitenSource(graph *signalflow.AudioGraph) *EbitenSource {
	return &EbitenSource{graph: graph}
}

// Process implements cbegin-mmlfm-go/internal/audio.SampleSource.
func (e *EbitenSource) Process(dst []float32) {
	numFrames := len(dst) / 2
	if numFrames == 0 {
		return
	}
	if err := e.graph.PullInput(numFrames); err != nil {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	root := e.graph.Root().Base()
	left := root.Out(0)[:numFrames]
	right := root.Out(1 % root.NumOutputChannels)[:numFrames]
	for i := 0; i < numFrames; i++ {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
}
