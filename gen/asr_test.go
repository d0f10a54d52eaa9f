// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import "testing"

// TestASRTriggerGateRestartsEnvelope lets an ASR run past its attack
// stage, then sends a "gate" trigger and checks the envelope restarts
// from its attack ramp instead of continuing from wherever it was.
func TestASRTriggerGateRestartsEnvelope(t *testing.T) {
	a := NewASR(8, 0.5, 0, 0.5) // attack/release = 4 samples each at sampleRate 8
	if err := a.Process(4); err != nil {
		t.Fatal(err)
	}
	if a.stage != asrSustain {
		t.Fatalf("got stage %v after 4-sample attack, want sustain", a.stage)
	}
	if err := a.Process(2); err != nil {
		t.Fatal(err)
	}
	if a.stage != asrRelease {
		t.Fatalf("got stage %v, want release after the zero-length sustain elapses", a.stage)
	}
	if a.level == 0 {
		t.Fatalf("expected nonzero level mid-release before trigger")
	}

	a.Trigger("gate", 1)
	if a.stage != asrAttack || a.pos != 0 {
		t.Fatalf("got stage %v pos %d after gate trigger, want attack/0", a.stage, a.pos)
	}

	out := make([]float32, 0, 4)
	if err := a.Process(4); err != nil {
		t.Fatal(err)
	}
	out = append(out, a.Out(0)[:4]...)
	for i, v := range out {
		want := float32(i) / 4
		if v != want {
			t.Fatalf("sample %d after restart: got %v, want %v", i, v, want)
		}
	}
}

func TestASRTriggerIgnoresOtherNamesAndZeroValue(t *testing.T) {
	a := NewASR(8, 0, 0, 0)
	a.stage = asrDone
	a.pos = 99

	a.Trigger("other", 1)
	if a.stage != asrDone {
		t.Fatalf("unrelated trigger name changed stage to %v", a.stage)
	}

	a.Trigger("gate", 0)
	if a.stage != asrDone {
		t.Fatalf("zero-value gate trigger changed stage to %v", a.stage)
	}
}
