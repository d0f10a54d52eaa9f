// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package device

import (
	"testing"

	"github.com/signalflow-go/signalflow"
	"github.com/signalflow-go/signalflow/ops"
)

func TestSourceReceivePacksChannelMajorPlanar(t *testing.T) {
	root := ops.NewChannelArray(signalflow.NewConstant(1), signalflow.NewConstant(2))

	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(root); err != nil {
		t.Fatal(err)
	}

	src := NewSource(g)
	const numFrames = 4
	d := make([]float64, numFrames*2)
	n, err := src.Receive(d)
	if err != nil {
		t.Fatal(err)
	}
	if n != numFrames {
		t.Fatalf("got %d frames, want %d", n, numFrames)
	}

	for i := 0; i < numFrames; i++ {
		if v := d[i]; v != 1 {
			t.Fatalf("channel 0 frame %d: got %v, want 1", i, v)
		}
	}
	for i := 0; i < numFrames; i++ {
		if v := d[numFrames+i]; v != 2 {
			t.Fatalf("channel 1 frame %d: got %v, want 2", i, v)
		}
	}
}

func TestSourceCloseStopsGraph(t *testing.T) {
	root := signalflow.NewConstant(0)
	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(root); err != nil {
		t.Fatal(err)
	}
	src := NewSource(g)
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
}
