// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildSampleSpec() *PatchSpec {
	s := NewPatchSpec("voice")
	freqIn := s.AddTemplateInputSpec("freq", 110)
	osc := s.AddNodeSpec("square")
	env := s.AddNodeSpec("asr")
	mul := s.AddNodeSpec("multiply")
	s.Connect(osc, "frequency", freqIn)
	s.Connect(mul, "input0", osc)
	s.Connect(mul, "input1", env)
	s.SetOutput(mul)
	return s
}

func TestPatchSpecJSONRoundTrip(t *testing.T) {
	s := buildSampleSpec()
	data, err := s.ToJSON()
	assert.NoError(t, err)

	back, err := PatchSpecFromJSON(data)
	assert.NoError(t, err)
	assert.Equal(t, s.name, back.name)
	assert.Equal(t, s.root, back.root)
	assert.Equal(t, len(s.nodes), len(back.nodes))

	for id, n := range s.nodes {
		bn, ok := back.nodes[id]
		if !assert.True(t, ok, "missing node id %d after round trip", id) {
			continue
		}
		assert.Equal(t, n.Kind, bn.Kind)
		assert.Equal(t, n.InputName, bn.InputName)
		assert.Equal(t, n.IsConstant, bn.IsConstant)
		if n.IsConstant {
			assert.Equal(t, n.Value, bn.Value)
		}
		assert.Equal(t, n.Inputs, bn.Inputs)
	}
}

func TestPatchSpecJSONRoundTripIsIdempotent(t *testing.T) {
	s := buildSampleSpec()
	data1, err := s.ToJSON()
	assert.NoError(t, err)

	back, err := PatchSpecFromJSON(data1)
	assert.NoError(t, err)

	data2, err := back.ToJSON()
	assert.NoError(t, err)
	assert.JSONEq(t, string(data1), string(data2))
}

func TestPatchSpecValidateRejectsDanglingInput(t *testing.T) {
	s := NewPatchSpec("broken")
	n := s.AddNodeSpec("square")
	n.Inputs["frequency"] = 999
	s.SetOutput(n)
	assert.Error(t, s.Validate())
}

func TestPatchSpecValidateRejectsMissingRoot(t *testing.T) {
	s := NewPatchSpec("unrooted")
	s.AddNodeSpec("square")
	assert.Error(t, s.Validate())
}
