// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import "fmt"

// Patch is a live, named subgraph: the set of Nodes it exclusively
// owns, a name->Node map addressing the Constants (or other nodes)
// serving as template inputs, its root output Node, an auto-free
// flag, and a lifecycle state mirroring the original's destructor
// cleanup via Go's garbage collector instead of manual teardown.
type Patch struct {
	name     string
	nodes    []Node
	inputs   map[string]Node
	root     Node
	autoFree bool
	state    NodeState
	graph    *AudioGraph
}

// NewPatch returns an empty patch with no root, ready to be built live
// via AddInput/AddNode/SetOutput.
func NewPatch(name string) *Patch {
	return &Patch{name: name, inputs: make(map[string]Node)}
}

// NewPatchFromSpec instantiates a PatchSpec: walks it depth-first from
// the root, constructing a fresh Node per spec node (or reusing an
// already-bound template input), wiring inputs, and recording every
// template-input-named node under Patch.inputs.
func NewPatchFromSpec(spec *PatchSpec) (*Patch, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	p := NewPatch(spec.Name())
	built := make(map[int]Node)

	var build func(id int) (Node, error)
	build = func(id int) (Node, error) {
		if n, ok := built[id]; ok {
			return n, nil
		}
		ns, err := spec.GetNodeSpec(id)
		if err != nil {
			return nil, err
		}
		if ns.InputName != "" {
			if existing, ok := p.inputs[ns.InputName]; ok {
				built[id] = existing
				return existing, nil
			}
		}
		n, err := CreateNode(ns.Kind)
		if err != nil {
			return nil, err
		}
		built[id] = n
		p.nodes = append(p.nodes, n)
		if err := n.Base().setPatch(p); err != nil {
			return nil, err
		}
		if ns.IsConstant {
			if c, ok := n.(*Constant); ok {
				c.SetValue(ns.Value)
			}
		}
		for inputName, childID := range ns.Inputs {
			child, err := build(childID)
			if err != nil {
				return nil, err
			}
			if err := n.Base().CreateInput(inputName, child); err != nil {
				return nil, err
			}
		}
		if ns.InputName != "" {
			p.inputs[ns.InputName] = n
		}
		return n, nil
	}

	rootSpec, err := spec.GetRoot()
	if err != nil {
		return nil, err
	}
	root, err := build(rootSpec.ID)
	if err != nil {
		return nil, err
	}
	p.root = root
	return p, nil
}

// NewPatchFromPatch instantiates a fresh Patch equivalent to other,
// by snapshotting other's current wiring into a spec and instantiating
// that, so the two patches share no Node instances.
func NewPatchFromPatch(other *Patch) (*Patch, error) {
	spec, err := other.CreateSpec(other.name)
	if err != nil {
		return nil, err
	}
	return NewPatchFromSpec(spec)
}

// NewPatchFromName looks up name in the PatchRegistry and instantiates it.
func NewPatchFromName(name string) (*Patch, error) {
	spec, err := LookupPatchSpec(name)
	if err != nil {
		return nil, err
	}
	return NewPatchFromSpec(spec)
}

// Name returns the patch's name.
func (p *Patch) Name() string { return p.name }

// Root returns the patch's output node, or nil if SetOutput was never called.
func (p *Patch) Root() Node { return p.root }

// State returns the patch's lifecycle state.
func (p *Patch) State() NodeState { return p.state }

// AddInput is the template-building helper used while authoring a
// patch live: it inserts a Constant holding defaultValue, marks it as
// the named template input, records it in Patch.inputs, and returns it
// so it can be wired into the graph like any other node.
func (p *Patch) AddInput(name string, defaultValue float32) Node {
	c := NewConstant(defaultValue)
	p.nodes = append(p.nodes, c)
	c.Base().setPatch(p)
	p.inputs[name] = c
	return c
}

// AddBufferInput is AddInput's analogue for buffer-valued template
// inputs: it registers a BufferPlayer-compatible placeholder Node
// under name so the host can later SetInput(name, bufferNode).
func (p *Patch) AddBufferInput(name string, buf *Buffer) (Node, error) {
	n, err := CreateNode("buffer-player")
	if err != nil {
		return nil, err
	}
	if bp, ok := n.(interface{ SetBuffer(*Buffer) }); ok {
		bp.SetBuffer(buf)
	}
	p.nodes = append(p.nodes, n)
	if err := n.Base().setPatch(p); err != nil {
		return nil, err
	}
	p.inputs[name] = n
	return n, nil
}

// AddNode takes ownership of a free-standing Node (typically built via
// operator overloading, e.g. ops.Multiply(square, ops.Multiply(asr, 0.05))) so
// that CreateSpec can later capture it.
func (p *Patch) AddNode(n Node) error {
	if err := n.Base().setPatch(p); err != nil {
		return err
	}
	p.nodes = append(p.nodes, n)
	return nil
}

// SetOutput designates n as the patch's root output node.
func (p *Patch) SetOutput(n Node) {
	p.root = n
}

// SetInput replaces the named template input with the node value: it
// walks every owned node's input slots and rewrites every occurrence
// of the current occupant to point at value, and the name then
// resolves to value in Patch.inputs. The scalar case, mutating a
// Constant in place, is SetInputValue.
func (p *Patch) SetInput(name string, value Node) error {
	cur, ok := p.inputs[name]
	if !ok {
		return &UnknownInputError{Node: p.name, Input: name}
	}
	for _, n := range p.nodes {
		base := n.Base()
		for _, slot := range base.InputNames() {
			if base.inputs[slot] == cur {
				if err := base.SetInput(slot, value); err != nil {
					return err
				}
			}
		}
	}
	if p.root == cur {
		p.root = value
	}
	p.inputs[name] = value
	return nil
}

// SetInputValue is the scalar fast path of SetInput: name must
// currently resolve to a Constant.
func (p *Patch) SetInputValue(name string, value float32) error {
	cur, ok := p.inputs[name]
	if !ok {
		return &UnknownInputError{Node: p.name, Input: name}
	}
	c, ok := cur.(*Constant)
	if !ok {
		return &CannotSetInputError{Node: p.name, Input: name}
	}
	c.SetValue(value)
	return nil
}

// SetAutoFree sets whether the patch transitions itself to FINISHED
// and schedules its own removal once any contained node finishes.
func (p *Patch) SetAutoFree(flag bool) { p.autoFree = flag }

// AutoFree reports the current auto-free flag.
func (p *Patch) AutoFree() bool { return p.autoFree }

// nodeStateChanged is called by NodeBase.SetState whenever a node this
// patch owns transitions. If the node finished and auto-free is set,
// the patch finishes too and (if attached) schedules its own removal
// from the owning AudioGraph.
func (p *Patch) nodeStateChanged(n Node) {
	if n.Base().State() != StateFinished || !p.autoFree || p.state == StateFinished {
		return
	}
	p.state = StateFinished
	if p.graph != nil {
		p.graph.scheduleRemove(p)
	}
}

// CreateSpec snapshots the patch's current live graph into a fresh
// PatchSpec named name: depth-first from the output, assigning ids and
// serialising each node's kind and wiring. A node is serialised as a
// Constant carrier if it is a *Constant, otherwise by its kind and
// input map.
func (p *Patch) CreateSpec(name string) (*PatchSpec, error) {
	if p.root == nil {
		return nil, &SpecIntegrityError{Reason: fmt.Sprintf("patch %q has no output set", p.name)}
	}
	spec := NewPatchSpec(name)
	visited := make(map[Node]*PatchNodeSpec)

	inputNameFor := func(n Node) string {
		for name, in := range p.inputs {
			if in == n {
				return name
			}
		}
		return ""
	}

	var walk func(n Node) (*PatchNodeSpec, error)
	walk = func(n Node) (*PatchNodeSpec, error) {
		if ns, ok := visited[n]; ok {
			return ns, nil
		}
		base := n.Base()
		var ns *PatchNodeSpec
		if c, ok := n.(*Constant); ok {
			ns = spec.AddConstantSpec(c.Value())
		} else {
			ns = spec.AddNodeSpec(base.Name)
		}
		ns.InputName = inputNameFor(n)
		visited[n] = ns
		for _, slot := range base.InputNames() {
			child := base.inputs[slot]
			if child == nil {
				continue
			}
			childSpec, err := walk(child)
			if err != nil {
				return nil, err
			}
			if err := spec.Connect(ns, slot, childSpec); err != nil {
				return nil, err
			}
		}
		return ns, nil
	}

	rootSpec, err := walk(p.root)
	if err != nil {
		return nil, err
	}
	spec.SetOutput(rootSpec)
	return spec, spec.Validate()
}
