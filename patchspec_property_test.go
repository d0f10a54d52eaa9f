// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

var patchSpecKinds = []string{"sine", "square", "saw", "noise", "asr", "add", "multiply"}

// genPatchSpec builds a random, always-valid PatchSpec: a chain of
// nodes each wired to zero or more earlier nodes (so Validate always
// succeeds), with a random subset promoted to constants or named
// template inputs.
func genPatchSpec(t *rapid.T) *PatchSpec {
	s := NewPatchSpec("generated")
	n := rapid.IntRange(1, 8).Draw(t, "n")
	specs := make([]*PatchNodeSpec, n)
	for i := 0; i < n; i++ {
		isConstant := rapid.Bool().Draw(t, fmt.Sprintf("isConstant%d", i))
		var ns *PatchNodeSpec
		if isConstant {
			value := float32(rapid.Float64Range(-10, 10).Draw(t, fmt.Sprintf("value%d", i)))
			ns = s.AddConstantSpec(value)
			if rapid.Bool().Draw(t, fmt.Sprintf("named%d", i)) {
				ns.InputName = fmt.Sprintf("in%d", i)
			}
		} else {
			kind := rapid.SampledFrom(patchSpecKinds).Draw(t, fmt.Sprintf("kind%d", i))
			ns = s.AddNodeSpec(kind)
		}
		specs[i] = ns
		if i > 0 {
			numInputs := rapid.IntRange(0, i).Draw(t, fmt.Sprintf("numInputs%d", i))
			for k := 0; k < numInputs; k++ {
				idx := rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("inputIdx%d_%d", i, k))
				name := fmt.Sprintf("input%d", k)
				if err := s.Connect(ns, name, specs[idx]); err != nil {
					t.Fatal(err)
				}
			}
		}
	}
	s.SetOutput(specs[n-1])
	return s
}

func TestPatchSpecJSONRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genPatchSpec(t)
		data, err := s.ToJSON()
		if err != nil {
			t.Fatal(err)
		}
		back, err := PatchSpecFromJSON(data)
		if err != nil {
			t.Fatal(err)
		}
		data2, err := back.ToJSON()
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != string(data2) {
			t.Fatalf("round trip not idempotent:\nfirst:  %s\nsecond: %s", data, data2)
		}
	})
}
