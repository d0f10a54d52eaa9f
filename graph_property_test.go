// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// countingNode records how many times Process ran this tick, so a
// randomly generated DAG can assert the single-evaluation-per-tick
// invariant regardless of its shape.
type countingNode struct {
	*NodeBase
	count int
}

func newCountingNode(id int) *countingNode {
	n := &countingNode{NodeBase: NewNodeBase(fmt.Sprintf("count-%d", id), NChannels, NChannels, 1, NChannels)}
	n.Init(n)
	return n
}

func (n *countingNode) Process(numFrames int) error {
	n.count++
	for c := 0; c < n.NumOutputChannels; c++ {
		dst := n.Out(c)[:numFrames]
		for i := range dst {
			dst[i] = 0
		}
	}
	return nil
}

// TestGraphEvaluatesEveryNodeExactlyOncePerTick generates random DAGs
// (edges only ever point from a later-created node back to an earlier
// one, which rules out cycles by construction) and checks that every
// reachable node's Process runs exactly once per PullInput call,
// regardless of fan-out or depth.
func TestGraphEvaluatesEveryNodeExactlyOncePerTick(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "n")
		nodes := make([]*countingNode, n)
		for i := 0; i < n; i++ {
			nodes[i] = newCountingNode(i)
			if i == 0 {
				continue
			}
			numInputs := rapid.IntRange(0, i).Draw(t, fmt.Sprintf("numInputs%d", i))
			chosen := make(map[int]bool)
			for k := 0; k < numInputs; k++ {
				idx := rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("input%d_%d", i, k))
				if chosen[idx] {
					continue
				}
				chosen[idx] = true
				if _, err := nodes[i].AddVariadicInput(nodes[idx]); err != nil {
					t.Fatal(err)
				}
			}
		}
		root := nodes[n-1]

		g := NewAudioGraph(48000)
		if err := g.AddOutput(root); err != nil {
			t.Fatal(err)
		}

		for tick := 1; tick <= 3; tick++ {
			if err := g.PullInput(32); err != nil {
				t.Fatal(err)
			}
			reachable := make(map[*countingNode]bool)
			var walk func(Node)
			walk = func(nd Node) {
				if nd == nil {
					return
				}
				cn := nd.(*countingNode)
				if reachable[cn] {
					return
				}
				reachable[cn] = true
				for _, name := range nd.Base().InputNames() {
					in, _ := nd.Base().GetInput(name)
					walk(in)
				}
			}
			walk(root)
			for _, cn := range reachable {
				if cn.count != tick {
					t.Fatalf("node %s: got %d Process calls after %d ticks, want %d", cn.Name, cn.count, tick, tick)
				}
			}
		}
	})
}
