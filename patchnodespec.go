// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

// PatchNodeSpec is one node in a serialisable PatchSpec template:
// an id, a registry kind name, and either a scalar value (if
// IsConstant) or a mapping from input name to the id of a child
// PatchNodeSpec. InputName, if non-empty, marks this node as a
// template input placeholder: a Patch instantiated from the spec
// records it under that name among its template inputs so a host can later call
// Patch.SetInput(name, ...) to rebind it per instance.
type PatchNodeSpec struct {
	ID         int
	Kind       string
	InputName  string
	IsConstant bool
	Value      float32
	Inputs     map[string]int
}

func newPatchNodeSpec(id int, kind string) *PatchNodeSpec {
	return &PatchNodeSpec{ID: id, Kind: kind, Inputs: make(map[string]int)}
}
