// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import (
	"testing"

	"github.com/signalflow-go/signalflow"
)

func TestChannelSelectDefaultsToChannelZero(t *testing.T) {
	src := NewChannelArray(signalflow.NewConstant(1), signalflow.NewConstant(2))
	sel := NewChannelSelect(src)
	if sel.NumOutputChannels != 1 {
		t.Fatalf("got %d output channels, want 1", sel.NumOutputChannels)
	}

	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(sel); err != nil {
		t.Fatal(err)
	}
	if err := g.PullInput(4); err != nil {
		t.Fatal(err)
	}
	for _, v := range sel.Out(0)[:4] {
		if v != 1 {
			t.Fatalf("got %v, want 1", v)
		}
	}
}

func TestChannelSelectExplicitIndicesReorder(t *testing.T) {
	src := NewChannelArray(signalflow.NewConstant(10), signalflow.NewConstant(20), signalflow.NewConstant(30))
	sel := NewChannelSelect(src, 2, 0)
	if sel.NumOutputChannels != 2 {
		t.Fatalf("got %d output channels, want 2", sel.NumOutputChannels)
	}

	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(sel); err != nil {
		t.Fatal(err)
	}
	if err := g.PullInput(4); err != nil {
		t.Fatal(err)
	}
	if v := sel.Out(0)[0]; v != 30 {
		t.Fatalf("channel 0: got %v, want 30", v)
	}
	if v := sel.Out(1)[0]; v != 10 {
		t.Fatalf("channel 1: got %v, want 10", v)
	}
}
