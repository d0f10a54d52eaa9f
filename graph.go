// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import (
	"fmt"
	"io"
	"sync"
	"time"

	"zikichombo.org/sound/freq"
)

// GraphOption configures an AudioGraph at construction time, following
// the functional-options pattern used throughout the corpus for
// embeddable libraries with no natural config file.
type GraphOption func(*AudioGraph)

// WithMaxBlockSize overrides DefaultMaxBlockSize for every node's
// output buffer allocation.
func WithMaxBlockSize(n int) GraphOption {
	return func(g *AudioGraph) {
		g.maxBlockSize = n
		SetDefaultMaxBlockSize(n)
	}
}

// WithOutputForm sets the channel shape of the graph's fixed-width
// output root, overriding the default stereo (2-channel) root.
func WithOutputForm(channels int) GraphOption {
	return func(g *AudioGraph) { g.outputChannels = channels }
}

// WithCPUSmoothing sets the exponential smoothing factor (0,1] used by
// GetCPUUsage; smaller values smooth more aggressively. Default 0.1.
func WithCPUSmoothing(alpha float64) GraphOption {
	return func(g *AudioGraph) { g.cpuAlpha = alpha }
}

type outputSink struct {
	*NodeBase
}

func newOutputSink(channels int) *outputSink {
	s := &outputSink{NodeBase: NewNodeBase("audio-out", NChannels, NChannels, channels, channels)}
	s.NoInputUpmix = true
	s.NumInputChannels = channels
	s.NumOutputChannels = channels
	s.Init(s)
	return s
}

// Process sums every connected input into the fixed-width output.
func (s *outputSink) Process(numFrames int) error {
	for c := 0; c < s.NumOutputChannels; c++ {
		out := s.Out(c)[:numFrames]
		for i := range out {
			out[i] = 0
		}
	}
	for _, name := range s.InputNames() {
		in := s.inputs[name]
		if in == nil {
			continue
		}
		inBase := in.Base()
		for c := 0; c < s.NumOutputChannels; c++ {
			src := inBase.Out(c % inBase.NumOutputChannels)[:numFrames]
			dst := s.Out(c)[:numFrames]
			for i, v := range src {
				dst[i] += v
			}
		}
	}
	return nil
}

// AudioGraph is the scheduler: it owns the fixed-width output root, the
// set of live patches and bare nodes attached to it, pending structural
// mutations, the sample rate, and per-tick bookkeeping.
type AudioGraph struct {
	sampleRate     freq.T
	maxBlockSize   int
	outputChannels int
	cpuAlpha       float64

	root *outputSink

	mu            sync.Mutex
	patches       map[*Patch]string
	bareNodes     map[Node]string
	toRemoveNode  []Node
	toRemovePatch []*Patch

	processed map[Node]bool

	running  bool
	monitor  *NodeMonitor
	cpuUsage float64

	waitCh chan struct{}
}

// NewAudioGraph constructs a graph at the given sample rate.
func NewAudioGraph(sampleRate freq.T, opts ...GraphOption) *AudioGraph {
	g := &AudioGraph{
		sampleRate:     sampleRate,
		maxBlockSize:   DefaultMaxBlockSize,
		outputChannels: 2,
		cpuAlpha:       0.1,
		patches:        make(map[*Patch]string),
		bareNodes:      make(map[Node]string),
		processed:      make(map[Node]bool),
		waitCh:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.root = newOutputSink(g.outputChannels)
	g.root.EnsureBufferLength(g.maxBlockSize)
	return g
}

// SampleRate returns the graph's sample rate.
func (g *AudioGraph) SampleRate() freq.T { return g.sampleRate }

// Root returns the graph's fixed-width output node.
func (g *AudioGraph) Root() Node { return g.root }

// Start marks the graph as running. It does not itself spin up a
// device callback; that is the device package's job.
func (g *AudioGraph) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = true
}

// Stop marks the graph as no longer running and releases any waiters.
func (g *AudioGraph) Stop() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
	close(g.waitCh)
}

// AddOutput adds n (a bare Node or a *Patch) as an input of the root
// output node, under a synthesised "input<index>" slot. A *Patch
// contributes its own root output node.
func (g *AudioGraph) AddOutput(n interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch v := n.(type) {
	case *Patch:
		if v.root == nil {
			return &SpecIntegrityError{Reason: fmt.Sprintf("patch %q has no output set", v.name)}
		}
		v.graph = g
		slot, err := g.root.AddVariadicInput(v.root)
		if err != nil {
			return err
		}
		g.patches[v] = slot
	case Node:
		slot, err := g.root.AddVariadicInput(v)
		if err != nil {
			return err
		}
		g.bareNodes[v] = slot
	default:
		return fmt.Errorf("signalflow: AddOutput: unsupported type %T", n)
	}
	return nil
}

// RemoveOutput schedules n (a bare Node or *Patch) for detachment from
// the root at the next tick boundary.
func (g *AudioGraph) RemoveOutput(n interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch v := n.(type) {
	case *Patch:
		if _, ok := g.patches[v]; !ok {
			return &SpecIntegrityError{Reason: fmt.Sprintf("patch %q is not attached to this graph", v.name)}
		}
		g.toRemovePatch = append(g.toRemovePatch, v)
	case Node:
		if _, ok := g.bareNodes[v]; !ok {
			return &SpecIntegrityError{Reason: "node is not attached to this graph"}
		}
		g.toRemoveNode = append(g.toRemoveNode, v)
	default:
		return fmt.Errorf("signalflow: RemoveOutput: unsupported type %T", n)
	}
	return nil
}

func (g *AudioGraph) scheduleRemove(p *Patch) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.toRemovePatch = append(g.toRemovePatch, p)
}

// drainRemovals detaches every pending node/patch from the root and
// integrates pending patch state transitions. Called at the start of a
// tick whenever that tick acquires the graph's try-lock; a contended
// tick leaves pending removals for a later one.
func (g *AudioGraph) drainRemovals() {
	for _, p := range g.toRemovePatch {
		if slot, ok := g.patches[p]; ok {
			g.root.RemoveInput(slot)
			delete(g.patches, p)
		}
	}
	g.toRemovePatch = g.toRemovePatch[:0]
	for _, n := range g.toRemoveNode {
		if slot, ok := g.bareNodes[n]; ok {
			g.root.RemoveInput(slot)
			delete(g.bareNodes, n)
		}
	}
	g.toRemoveNode = g.toRemoveNode[:0]
}

// PullInput runs one scheduler tick for numFrames frames: drains
// pending removals, clears the per-tick processed set, and recursively
// evaluates the output root so that every reachable node is processed
// exactly once regardless of fan-out.
func (g *AudioGraph) PullInput(numFrames int) error {
	start := time.Now()

	locked := g.mu.TryLock()
	if locked {
		g.drainRemovals()
		g.mu.Unlock()
	}
	// If contended, this tick proceeds against the previous
	// configuration: the root's current wiring is read without
	// further synchronisation, matching the RCU-style publication
	// spec.md's concurrency model calls for.

	for k := range g.processed {
		delete(g.processed, k)
	}
	if err := g.evaluate(g.root, numFrames); err != nil {
		return err
	}

	elapsed := time.Since(start).Seconds()
	budget := float64(numFrames) / float64(g.sampleRate)
	sample := 0.0
	if budget > 0 {
		sample = elapsed / budget
	}
	g.cpuUsage = g.cpuUsage + g.cpuAlpha*(sample-g.cpuUsage)
	return nil
}

func (g *AudioGraph) evaluate(n Node, numFrames int) error {
	if g.processed[n] {
		return nil
	}
	base := n.Base()
	for _, name := range base.InputNames() {
		in := base.inputs[name]
		if in == nil {
			continue
		}
		if err := g.evaluate(in, numFrames); err != nil {
			return err
		}
	}
	if numFrames > base.OutputBufferLength() {
		return &BufferTooSmallError{Node: base.Name, Requested: numFrames, Allocated: base.OutputBufferLength()}
	}
	base.snapshotPrev()
	if err := n.Process(numFrames); err != nil {
		return err
	}
	base.markProcessed(numFrames)
	g.processed[n] = true
	return nil
}

// Process renders totalFrames frames of root offline, blockSize frames
// at a time, clearing the processed set between blocks. Intended for
// bounce-to-buffer use outside a live device callback.
func (g *AudioGraph) Process(root Node, totalFrames, blockSize int) error {
	for remaining := totalFrames; remaining > 0; {
		n := blockSize
		if n > remaining {
			n = remaining
		}
		for k := range g.processed {
			delete(g.processed, k)
		}
		if err := g.evaluate(root, n); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

// Wait blocks until Stop is called or timeout elapses.
func (g *AudioGraph) Wait(timeout time.Duration) {
	if timeout <= 0 {
		<-g.waitCh
		return
	}
	select {
	case <-g.waitCh:
	case <-time.After(timeout):
	}
}

// GetNodeCount returns the number of distinct nodes reachable from the
// output root.
func (g *AudioGraph) GetNodeCount() int {
	seen := make(map[Node]bool)
	var walk func(Node)
	walk = func(n Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		for _, name := range n.Base().InputNames() {
			walk(n.Base().inputs[name])
		}
	}
	walk(g.root)
	return len(seen)
}

// GetPatchCount returns the number of patches currently attached.
func (g *AudioGraph) GetPatchCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.patches)
}

// GetCPUUsage returns the smoothed fraction of the device's real-time
// budget the last several ticks consumed.
func (g *AudioGraph) GetCPUUsage() float64 { return g.cpuUsage }

// Print writes a depth-first, indented pretty-print of the graph
// starting at root (or the output root if root is nil) to w, one line
// per node, children in input-declaration order.
func (g *AudioGraph) Print(w io.Writer, root Node) {
	if root == nil {
		root = g.root
	}
	seen := make(map[Node]bool)
	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		if n == nil {
			return
		}
		base := n.Base()
		mark := ""
		if seen[n] {
			mark = " (shared)"
		}
		fmt.Fprintf(w, "%*s%s [%dch]%s\n", depth*2, "", base.Name, base.NumOutputChannels, mark)
		if seen[n] {
			return
		}
		seen[n] = true
		for _, name := range base.InputNames() {
			walk(base.inputs[name], depth+1)
		}
	}
	walk(root, 0)
}

// Poll starts a NodeMonitor on root (or the output root if nil) that
// samples at frequency Hz and writes peak/RMS summaries to sink.
func (g *AudioGraph) Poll(root Node, frequency float64, sink io.Writer) *NodeMonitor {
	if root == nil {
		root = g.root
	}
	m := newNodeMonitor(root, frequency, sink)
	g.monitor = m
	m.start()
	return m
}
