// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import (
	"encoding/json"
	"fmt"
)

// PatchSpec is a serialisable template describing a Patch's topology
// and template inputs: a name, a monotonic id counter, the set of
// PatchNodeSpecs reachable by id, and the id of the root (output)
// node.
type PatchSpec struct {
	name   string
	lastID int
	nodes  map[int]*PatchNodeSpec
	root   int
	hasRoot bool
}

// NewPatchSpec returns an empty, unrooted spec named name.
func NewPatchSpec(name string) *PatchSpec {
	return &PatchSpec{name: name, nodes: make(map[int]*PatchNodeSpec)}
}

// Name returns the spec's name.
func (s *PatchSpec) Name() string { return s.name }

// AddNodeSpec allocates a fresh id, registers a node of the given
// registry kind under it, and returns it for further wiring.
func (s *PatchSpec) AddNodeSpec(kind string) *PatchNodeSpec {
	s.lastID++
	n := newPatchNodeSpec(s.lastID, kind)
	s.nodes[n.ID] = n
	return n
}

// AddConstantSpec is AddNodeSpec for a constant carrier: kind
// "constant" with IsConstant set and the given value.
func (s *PatchSpec) AddConstantSpec(value float32) *PatchNodeSpec {
	n := s.AddNodeSpec("constant")
	n.IsConstant = true
	n.Value = value
	return n
}

// AddTemplateInputSpec is AddConstantSpec plus marking the node as a
// named template input, the spec-time counterpart of Patch.AddInput.
func (s *PatchSpec) AddTemplateInputSpec(name string, defaultValue float32) *PatchNodeSpec {
	n := s.AddConstantSpec(defaultValue)
	n.InputName = name
	return n
}

// Connect wires child into node's named input slot. Both must already
// belong to this spec.
func (s *PatchSpec) Connect(node *PatchNodeSpec, inputName string, child *PatchNodeSpec) error {
	if _, ok := s.nodes[node.ID]; !ok {
		return &SpecIntegrityError{Reason: fmt.Sprintf("node id %d not in spec %q", node.ID, s.name)}
	}
	if _, ok := s.nodes[child.ID]; !ok {
		return &SpecIntegrityError{Reason: fmt.Sprintf("node id %d not in spec %q", child.ID, s.name)}
	}
	node.Inputs[inputName] = child.ID
	return nil
}

// SetOutput designates node as the spec's root.
func (s *PatchSpec) SetOutput(node *PatchNodeSpec) {
	s.root = node.ID
	s.hasRoot = true
}

// GetNodeSpec looks up a node spec by id.
func (s *PatchSpec) GetNodeSpec(id int) (*PatchNodeSpec, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, &SpecIntegrityError{Reason: fmt.Sprintf("no node with id %d in spec %q", id, s.name)}
	}
	return n, nil
}

// GetRoot returns the spec's root node spec.
func (s *PatchSpec) GetRoot() (*PatchNodeSpec, error) {
	if !s.hasRoot {
		return nil, &SpecIntegrityError{Reason: fmt.Sprintf("spec %q has no root", s.name)}
	}
	return s.GetNodeSpec(s.root)
}

// Validate checks structural integrity: exactly one root, and every
// input reference resolves to a node id present in the spec.
func (s *PatchSpec) Validate() error {
	if !s.hasRoot {
		return &SpecIntegrityError{Reason: fmt.Sprintf("spec %q has no root", s.name)}
	}
	if _, ok := s.nodes[s.root]; !ok {
		return &SpecIntegrityError{Reason: fmt.Sprintf("spec %q root id %d not present", s.name, s.root)}
	}
	for _, n := range s.nodes {
		for inputName, childID := range n.Inputs {
			if _, ok := s.nodes[childID]; !ok {
				return &SpecIntegrityError{Reason: fmt.Sprintf("spec %q: node %d input %q references missing id %d", s.name, n.ID, inputName, childID)}
			}
		}
	}
	return nil
}

// Store validates the spec and registers it in the global PatchRegistry
// under its own name, so NewPatchFromName can later instantiate it.
func (s *PatchSpec) Store() error {
	if err := s.Validate(); err != nil {
		return err
	}
	RegisterPatchSpec(s)
	return nil
}

// jsonPatchNodeSpec mirrors the stable on-disk node shape from the
// PatchSpec JSON contract: Value is a pointer so encoding/json omits
// it when nil, giving "present iff is_constant".
type jsonPatchNodeSpec struct {
	ID         int            `json:"id"`
	Kind       string         `json:"kind"`
	InputName  string         `json:"input_name,omitempty"`
	IsConstant bool           `json:"is_constant"`
	Value      *float32       `json:"value,omitempty"`
	Inputs     map[string]int `json:"inputs,omitempty"`
}

type jsonPatchSpec struct {
	Name  string              `json:"name"`
	Root  int                 `json:"root"`
	Nodes []jsonPatchNodeSpec `json:"nodes"`
}

// ToJSON encodes the spec in the stable on-disk shape fixed by the
// host control surface contract.
func (s *PatchSpec) ToJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := jsonPatchSpec{Name: s.name, Root: s.root}
	ids := make([]int, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	// Sorted for a deterministic, diffable encoding; id order carries
	// no semantic meaning.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	for _, id := range ids {
		n := s.nodes[id]
		jn := jsonPatchNodeSpec{
			ID:         n.ID,
			Kind:       n.Kind,
			InputName:  n.InputName,
			IsConstant: n.IsConstant,
			Inputs:     n.Inputs,
		}
		if n.IsConstant {
			v := n.Value
			jn.Value = &v
		}
		out.Nodes = append(out.Nodes, jn)
	}
	return json.Marshal(out)
}

// PatchSpecFromJSON decodes a spec previously produced by ToJSON.
func PatchSpecFromJSON(data []byte) (*PatchSpec, error) {
	var in jsonPatchSpec
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	s := NewPatchSpec(in.Name)
	s.root = in.Root
	s.hasRoot = true
	for _, jn := range in.Nodes {
		n := &PatchNodeSpec{
			ID:         jn.ID,
			Kind:       jn.Kind,
			InputName:  jn.InputName,
			IsConstant: jn.IsConstant,
			Inputs:     jn.Inputs,
		}
		if n.Inputs == nil {
			n.Inputs = make(map[string]int)
		}
		if jn.Value != nil {
			n.Value = *jn.Value
		}
		s.nodes[n.ID] = n
		if n.ID > s.lastID {
			s.lastID = n.ID
		}
	}
	return s, s.Validate()
}
