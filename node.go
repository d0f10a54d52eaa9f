// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import "fmt"

// NodeState is a Node's position in its ACTIVE -> FINISHED lifecycle.
type NodeState int

const (
	// StateActive is the state of every newly constructed node.
	StateActive NodeState = iota
	// StateFinished is a monotonic, terminal state set by generators with
	// a natural end (one-shot envelopes, buffer players reaching EOF).
	StateFinished
)

func (s NodeState) String() string {
	if s == StateFinished {
		return "finished"
	}
	return "active"
}

// Node is the uniform contract every unit generator satisfies. Concrete
// types embed *NodeBase, which supplies Base, and implement Process
// themselves; a missing Process implementation is a compile error
// rather than the original's runtime-fatal default.
type Node interface {
	// Base returns the node's shared bookkeeping: channel counts, wiring,
	// output buffer, and lifecycle state.
	Base() *NodeBase

	// Process fills Base().Out(c)[:numFrames] for every output channel
	// c, reading from every input's already-populated output. The
	// scheduler guarantees every input was processed first in this tick.
	Process(numFrames int) error
}

// ChannelUpdater lets a node override the default channel-inference
// algorithm in NodeBase.defaultUpdateChannels, for nodes like
// ChannelArray whose output width isn't simply the widest input.
type ChannelUpdater interface {
	UpdateChannels() error
}

// Triggerable lets a node handle lateral control events delivered by
// NodeBase.Trigger. Triggers are consumed inside the next Process
// call, never out of band.
type Triggerable interface {
	Trigger(name string, value float32)
}

type outEdge struct {
	node Node
	name string
}

// NodeBase implements the shared, non-polymorphic part of Node: channel
// bookkeeping, ordered named inputs, reciprocal output edges, the
// block-size-plus-one-sample-of-history output buffer, and the
// ACTIVE/FINISHED state machine. Every concrete node embeds a
// *NodeBase and calls Init(self) once, immediately after construction.
type NodeBase struct {
	Name string

	MinInputChannels, MaxInputChannels   int
	MinOutputChannels, MaxOutputChannels int
	NumInputChannels, NumOutputChannels  int

	// NoInputUpmix suppresses channel-match inference even when
	// MinInputChannels == NChannels; used by the graph's fixed-width
	// output node.
	NoInputUpmix bool

	self       Node
	inputNames []string
	inputs     map[string]Node
	outputs    map[outEdge]struct{}

	out               [][]Sample
	prev              []Sample
	allocatedChannels int
	bufferLen         int
	lastNumFrames     int

	state   NodeState
	patch   *Patch
	monitor *NodeMonitor
}

// NewNodeBase constructs the shared state for a node kind named name,
// with the given channel-count bounds. Pass NChannels for any bound
// that doesn't apply.
func NewNodeBase(name string, minIn, maxIn, minOut, maxOut int) *NodeBase {
	nb := &NodeBase{
		Name:              name,
		MinInputChannels:  minIn,
		MaxInputChannels:  maxIn,
		MinOutputChannels: minOut,
		MaxOutputChannels: maxOut,
		NumInputChannels:  1,
		NumOutputChannels: 1,
		inputs:            make(map[string]Node),
		outputs:           make(map[outEdge]struct{}),
		bufferLen:         defaultMaxBlockSize,
	}
	if minOut != NChannels && minOut > 1 {
		nb.NumOutputChannels = minOut
	}
	if minIn != NChannels && minIn > 1 {
		nb.NumInputChannels = minIn
	}
	return nb
}

// Init binds the concrete node (self) to its NodeBase and allocates the
// initial output buffer. Every constructor must call this exactly once.
func (nb *NodeBase) Init(self Node) {
	nb.self = self
	nb.allocateOutputBuffer()
}

// Base implements Node, so NodeBase itself trivially satisfies the part
// of the interface concrete nodes get for free via embedding.
func (nb *NodeBase) Base() *NodeBase { return nb }

// State returns the node's current lifecycle state.
func (nb *NodeBase) State() NodeState { return nb.state }

// SetState transitions the node's lifecycle state. Transitions are
// expected to be monotonic (ACTIVE -> FINISHED); setting the same state
// twice is a no-op. A transition notifies the owning Patch, if any.
func (nb *NodeBase) SetState(s NodeState) {
	if s == nb.state {
		return
	}
	nb.state = s
	if nb.patch != nil {
		nb.patch.nodeStateChanged(nb.self)
	}
}

// Patch returns the Patch that owns this node, or nil.
func (nb *NodeBase) Patch() *Patch { return nb.patch }

func (nb *NodeBase) setPatch(p *Patch) error {
	if nb.patch != nil && nb.patch != p {
		return fmt.Errorf("signalflow: node %q is already part of a patch", nb.Name)
	}
	nb.patch = p
	return nil
}

// InputNames returns the node's input slot names in declaration order,
// which is also their serialisation order.
func (nb *NodeBase) InputNames() []string {
	return append([]string(nil), nb.inputNames...)
}

// GetInput returns the node currently wired into the named slot, which
// may be nil for an unbound template-input placeholder.
func (nb *NodeBase) GetInput(name string) (Node, error) {
	n, ok := nb.inputs[name]
	if !ok {
		return nil, &UnknownInputError{Node: nb.Name, Input: name}
	}
	return n, nil
}

// CreateInput registers a new named input slot bound to n (which may be
// nil), records the producer -> consumer back-edge, and triggers
// channel re-inference on both sides. Order mirrors the original
// Node::add_input: the producer's own channels are resolved, and the
// new edge is registered, before this node's channels are recomputed.
func (nb *NodeBase) CreateInput(name string, n Node) error {
	if n != nil {
		if nb.reachableFrom(n) {
			return &SpecIntegrityError{Reason: fmt.Sprintf("connecting %q as input %q of %q would create a cycle", n.Base().Name, name, nb.Name)}
		}
		if err := n.Base().updateChannelsSelf(); err != nil {
			return err
		}
		n.Base().addOutputEdge(nb.self, name)
	}
	if _, exists := nb.inputs[name]; !exists {
		nb.inputNames = append(nb.inputNames, name)
	}
	nb.inputs[name] = n
	return nb.updateChannelsSelf()
}

// SetInput replaces the producer wired into slot name with n (nil
// disconnects). The previous producer, if any, loses this node as a
// consumer. Order mirrors the original Node::set_input(name, NodeRef).
func (nb *NodeBase) SetInput(name string, n Node) error {
	cur, ok := nb.inputs[name]
	if !ok {
		return &UnknownInputError{Node: nb.Name, Input: name}
	}
	if n != nil && nb.reachableFrom(n) {
		return &SpecIntegrityError{Reason: fmt.Sprintf("connecting %q as input %q of %q would create a cycle", n.Base().Name, name, nb.Name)}
	}
	if cur != nil {
		cur.Base().removeOutputEdge(nb.self, name)
	}
	nb.inputs[name] = n
	if err := nb.updateChannelsSelf(); err != nil {
		return err
	}
	if n != nil {
		if err := n.Base().updateChannelsSelf(); err != nil {
			return err
		}
		n.Base().addOutputEdge(nb.self, name)
	}
	return nil
}

// SetInputValue is the Constant fast path: if slot name currently holds
// a *Constant, its value is mutated in place without touching any edge
// in the graph. It fails if the slot is occupied by anything else.
func (nb *NodeBase) SetInputValue(name string, value float32) error {
	cur, ok := nb.inputs[name]
	if !ok {
		return &UnknownInputError{Node: nb.Name, Input: name}
	}
	c, ok := cur.(*Constant)
	if !ok {
		return &CannotSetInputError{Node: nb.Name, Input: name}
	}
	c.SetValue(value)
	return nil
}

// RemoveInput erases an input slot entirely. Used only by variadic
// nodes (Sum, ChannelArray, and the graph's output node) to shrink
// their input list.
func (nb *NodeBase) RemoveInput(name string) error {
	cur, ok := nb.inputs[name]
	if !ok {
		return &UnknownInputError{Node: nb.Name, Input: name}
	}
	if cur != nil {
		cur.Base().removeOutputEdge(nb.self, name)
	}
	delete(nb.inputs, name)
	for i, nm := range nb.inputNames {
		if nm == name {
			nb.inputNames = append(nb.inputNames[:i], nb.inputNames[i+1:]...)
			break
		}
	}
	return nb.updateChannelsSelf()
}

// AddVariadicInput appends a new input slot named "input<index>" bound
// to n, following the naming scheme spec'd for variadic nodes. index
// starts at the current slot count and is advanced past any name
// already in use, so an existing slot is never overwritten.
func (nb *NodeBase) AddVariadicInput(n Node) (string, error) {
	idx := len(nb.inputNames)
	for {
		if _, taken := nb.inputs[fmt.Sprintf("input%d", idx)]; !taken {
			break
		}
		idx++
	}
	name := fmt.Sprintf("input%d", idx)
	if err := nb.CreateInput(name, n); err != nil {
		return "", err
	}
	return name, nil
}

// DisconnectInputs clears every input slot to nil.
func (nb *NodeBase) DisconnectInputs() error {
	for _, name := range append([]string(nil), nb.inputNames...) {
		if err := nb.SetInput(name, nil); err != nil {
			return err
		}
	}
	return nil
}

// DisconnectOutputs detaches every downstream consumer of this node.
// It repeatedly pulls the first remaining edge, because clearing a
// consumer's slot also mutates this node's own outputs set.
func (nb *NodeBase) DisconnectOutputs() error {
	for len(nb.outputs) > 0 {
		var e outEdge
		for k := range nb.outputs {
			e = k
			break
		}
		if err := e.node.Base().SetInput(e.name, nil); err != nil {
			return err
		}
	}
	return nil
}

// Trigger delivers a lateral control event. If the concrete node
// implements Triggerable, its Trigger method handles it; otherwise the
// event is a no-op, matching the original Node::trigger default.
func (nb *NodeBase) Trigger(name string, value float32) {
	if t, ok := nb.self.(Triggerable); ok {
		t.Trigger(name, value)
	}
}

// Out returns the node's full output buffer for channel c (length
// equal to the node's allocated block size); a concrete Process
// implementation writes Out(c)[:numFrames].
func (nb *NodeBase) Out(c int) []Sample { return nb.out[c] }

// PrevSample returns channel c's last sample from the previous block,
// i.e. the one-sample look-back the original exposes as out[c][-1].
func (nb *NodeBase) PrevSample(c int) Sample { return nb.prev[c] }

// OutputBufferLength returns the number of frames the node's output
// buffer is currently sized for.
func (nb *NodeBase) OutputBufferLength() int { return nb.bufferLen }

// SyncOutputChannels reallocates the output buffer to match the
// node's current NumOutputChannels. A custom ChannelUpdater (e.g.
// signalflow/ops' ChannelArray) calls this after changing
// NumOutputChannels itself, since the default channel-inference path
// that normally triggers reallocation is bypassed.
func (nb *NodeBase) SyncOutputChannels() {
	nb.allocateOutputBuffer()
}

// EnsureBufferLength grows the node's allocated block length to at
// least n frames, preserving already-written samples.
func (nb *NodeBase) EnsureBufferLength(n int) {
	if n <= nb.bufferLen {
		return
	}
	oldOut, oldPrev := nb.out, nb.prev
	nb.bufferLen = n
	nb.out = planar(nb.allocatedChannels, n)
	nb.prev = make([]Sample, nb.allocatedChannels)
	for c := range oldOut {
		copy(nb.out[c], oldOut[c])
		nb.prev[c] = oldPrev[c]
	}
}

func (nb *NodeBase) addOutputEdge(consumer Node, name string) {
	nb.outputs[outEdge{consumer, name}] = struct{}{}
}

func (nb *NodeBase) removeOutputEdge(consumer Node, name string) {
	delete(nb.outputs, outEdge{consumer, name})
}

// reachableFrom reports whether nb.self is reachable by following
// inputs starting at n, i.e. whether wiring n in as an input of nb
// would close a cycle. This enforces invariant DAG (spec.md S8 #6)
// eagerly, at wiring time, rather than merely before the first pull.
func (nb *NodeBase) reachableFrom(n Node) bool {
	seen := make(map[Node]bool)
	var walk func(Node) bool
	walk = func(cur Node) bool {
		if cur == nil {
			return false
		}
		if cur == Node(nb.self) {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		for _, name := range cur.Base().inputNames {
			if walk(cur.Base().inputs[name]) {
				return true
			}
		}
		return false
	}
	return walk(n)
}

// snapshotPrev copies each channel's last sample from the block just
// completed into the look-back slot, ahead of the next Process call.
func (nb *NodeBase) snapshotPrev() {
	if nb.lastNumFrames <= 0 {
		return
	}
	for c := 0; c < nb.NumOutputChannels; c++ {
		nb.prev[c] = nb.out[c][nb.lastNumFrames-1]
	}
}

func (nb *NodeBase) markProcessed(numFrames int) {
	nb.lastNumFrames = numFrames
}

// updateChannelsSelf dispatches to the concrete node's own
// UpdateChannels override, if any, or the default inference below.
func (nb *NodeBase) updateChannelsSelf() error {
	if cu, ok := nb.self.(ChannelUpdater); ok {
		return cu.UpdateChannels()
	}
	return nb.defaultUpdateChannels()
}

// defaultUpdateChannels implements spec.md 4.2's channel-inference
// algorithm: in "match" mode (MinInputChannels == NChannels and
// NoInputUpmix is false) the node widens to the widest connected
// input, clamped below by MinOutputChannels; otherwise it only
// validates that no input exceeds the node's fixed NumInputChannels.
func (nb *NodeBase) defaultUpdateChannels() error {
	matchMode := nb.MinInputChannels == NChannels && !nb.NoInputUpmix
	if matchMode {
		maxCh := 1
		for _, name := range nb.inputNames {
			in := nb.inputs[name]
			if in == nil {
				continue
			}
			if c := in.Base().NumOutputChannels; c > maxCh {
				maxCh = c
			}
		}
		nb.NumInputChannels = maxCh
		nb.NumOutputChannels = maxCh
		if nb.MinOutputChannels != NChannels && nb.MinOutputChannels > nb.NumOutputChannels {
			nb.NumOutputChannels = nb.MinOutputChannels
		}
		nb.allocateOutputBuffer()
		return nil
	}
	for _, name := range nb.inputNames {
		in := nb.inputs[name]
		if in == nil {
			continue
		}
		if c := in.Base().NumOutputChannels; c > nb.NumInputChannels {
			return &InvalidChannelCountError{Node: nb.Name, Input: name, Got: c, Want: nb.NumInputChannels}
		}
	}
	return nil
}

// allocateOutputBuffer grows the output buffer to NumOutputChannels,
// never shrinking (spec.md S8 #4 channel monotonicity), preserving any
// samples already written to previously allocated channels.
func (nb *NodeBase) allocateOutputBuffer() {
	if nb.out != nil && nb.NumOutputChannels <= nb.allocatedChannels {
		return
	}
	width := nb.NumOutputChannels
	if width < 1 {
		width = 1
	}
	newOut := planar(width, nb.bufferLen)
	newPrev := make([]Sample, width)
	for c := 0; c < nb.allocatedChannels && c < width; c++ {
		copy(newOut[c], nb.out[c])
		newPrev[c] = nb.prev[c]
	}
	nb.out = newOut
	nb.prev = newPrev
	nb.allocatedChannels = width
}

// Scale returns a new node remapping this node's output range
// [-1, 1] onto [from, to], per the chosen ScaleMode. The concrete
// node kind is supplied by signalflow/ops via RegisterScaleFactory, so
// the core package doesn't need to depend on it.
func (nb *NodeBase) Scale(from, to float32, mode ScaleMode) Node {
	if scaleFactory == nil {
		panic("signalflow: Scale used without importing signalflow/ops")
	}
	return scaleFactory(nb.self, from, to, mode)
}

// ScaleMode selects the curve Node.Scale uses to remap a range.
type ScaleMode int

const (
	// ScaleLinLin maps linearly.
	ScaleLinLin ScaleMode = iota
	// ScaleLinExp maps linearly in, exponentially out.
	ScaleLinExp
)

var scaleFactory func(input Node, from, to float32, mode ScaleMode) Node

// RegisterScaleFactory installs the constructor Node.Scale uses to
// build its result node. signalflow/ops calls this from an init func.
func RegisterScaleFactory(fn func(input Node, from, to float32, mode ScaleMode) Node) {
	scaleFactory = fn
}
