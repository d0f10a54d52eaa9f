// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"testing"

	"github.com/signalflow-go/signalflow"
)

// TestTriggerNoiseReRollsOnlyOnRisingEdge drives a few Clock periods
// through a TriggerNoise and checks the output changes exactly on the
// clock's rising edges and holds steady everywhere else, including
// across the block boundary the one-sample look-back exists for.
func TestTriggerNoiseReRollsOnlyOnRisingEdge(t *testing.T) {
	const sampleRate = 8
	const periodSamples = 4

	clock := NewClock(sampleRate, float64(periodSamples)/float64(sampleRate))
	tn := NewTriggerNoise(clock)

	g := signalflow.NewAudioGraph(sampleRate)
	if err := g.AddOutput(tn); err != nil {
		t.Fatal(err)
	}

	const blockSize = 3
	const numBlocks = 4
	var clockOut, triggerOut []signalflow.Sample
	for b := 0; b < numBlocks; b++ {
		if err := g.PullInput(blockSize); err != nil {
			t.Fatal(err)
		}
		clockOut = append(clockOut, append([]signalflow.Sample(nil), clock.Out(0)[:blockSize]...)...)
		triggerOut = append(triggerOut, append([]signalflow.Sample(nil), tn.Out(0)[:blockSize]...)...)
	}

	var prevClock signalflow.Sample
	var prevTrigger signalflow.Sample
	sawFirst := false
	for i := range clockOut {
		c := clockOut[i]
		v := triggerOut[i]
		risingEdge := prevClock <= 0 && c > 0
		if risingEdge {
			if sawFirst && v == prevTrigger {
				t.Fatalf("sample %d: expected a fresh value on rising edge, got the same %v", i, v)
			}
		} else if sawFirst && v != prevTrigger {
			t.Fatalf("sample %d: value changed without a rising edge (%v -> %v)", i, prevTrigger, v)
		}
		prevClock = c
		prevTrigger = v
		sawFirst = true
	}
}

func TestTriggerNoiseWithNoClockHoldsLastValue(t *testing.T) {
	tn := NewTriggerNoise(nil)
	if err := tn.Process(4); err != nil {
		t.Fatal(err)
	}
	first := tn.Out(0)[0]
	for _, v := range tn.Out(0)[:4] {
		if v != first {
			t.Fatalf("got %v, want constant %v with no clock input", v, first)
		}
	}
}
