// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import (
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// NodeMonitor periodically samples a node's output buffer for peak and
// RMS amplitude and reports the summary to an external sink, per
// AudioGraph.Poll. Sampling runs on its own goroutine entirely outside
// the audio thread; it reads whatever the node's buffer held at the
// moment its ticker fired, so it never contends with pull_input.
type NodeMonitor struct {
	node   Node
	freqHz float64
	logger *log.Logger

	stop    chan struct{}
	once    sync.Once
	running int32
}

func newNodeMonitor(n Node, frequency float64, sink io.Writer) *NodeMonitor {
	if sink == nil {
		sink = io.Discard
	}
	return &NodeMonitor{
		node:   n,
		freqHz: frequency,
		logger: log.New(sink),
		stop:   make(chan struct{}),
	}
}

func (m *NodeMonitor) start() {
	if !atomic.CompareAndSwapInt32(&m.running, 0, 1) {
		return
	}
	period := time.Second
	if m.freqHz > 0 {
		period = time.Duration(float64(time.Second) / m.freqHz)
	}
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				m.sample()
			}
		}
	}()
}

// Stop halts sampling. Safe to call more than once.
func (m *NodeMonitor) Stop() {
	m.once.Do(func() { close(m.stop) })
}

func (m *NodeMonitor) sample() {
	base := m.node.Base()
	n := base.lastNumFrames
	if n <= 0 {
		return
	}
	for c := 0; c < base.NumOutputChannels; c++ {
		data := base.Out(c)[:n]
		var peak, sumSq float64
		for _, s := range data {
			v := float64(s)
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
			sumSq += v * v
		}
		rms := math.Sqrt(sumSq / float64(n))
		m.logger.Info("node sample", "node", base.Name, "channel", c, "peak", peak, "rms", rms)
	}
}
