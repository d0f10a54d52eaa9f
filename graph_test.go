// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow_test

import (
	"math"
	"testing"

	"github.com/signalflow-go/signalflow"
	"github.com/signalflow-go/signalflow/gen"
	"github.com/signalflow-go/signalflow/ops"
)

func init() {
	gen.SetDefaultSampleRate(48000)
}

// S1 Constant sum.
func TestConstantSum(t *testing.T) {
	root := ops.Add(float32(0.25), float32(0.75))
	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(root); err != nil {
		t.Fatal(err)
	}
	if err := g.PullInput(64); err != nil {
		t.Fatal(err)
	}
	for c := 0; c < 2; c++ {
		for _, v := range g.Root().Base().Out(c)[:64] {
			if math.Abs(float64(v)-1.0) > 1e-6 {
				t.Fatalf("channel %d: got %v, want 1.0", c, v)
			}
		}
	}
}

// S2 Sine purity.
func TestSinePurity(t *testing.T) {
	freqNode := signalflow.NewConstant(440)
	sine := gen.NewSine(48000, freqNode)

	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(sine); err != nil {
		t.Fatal(err)
	}
	if err := g.PullInput(256); err != nil {
		t.Fatal(err)
	}
	out := sine.Out(0)[:256]
	for n, v := range out {
		want := math.Sin(2 * math.Pi * 440 * float64(n) / 48000)
		if math.Abs(float64(v)-want) > 1e-5 {
			t.Fatalf("sample %d: got %v, want %v", n, v, want)
		}
	}
}

// S3 Up-mix inference.
func TestUpmixInference(t *testing.T) {
	freqNode := signalflow.NewConstant(220)
	sine := gen.NewSine(48000, freqNode)
	arr := ops.NewChannelArray(signalflow.NewConstant(0.5), signalflow.NewConstant(1.0))
	root := ops.Multiply(sine, arr)

	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(root); err != nil {
		t.Fatal(err)
	}
	if err := g.PullInput(64); err != nil {
		t.Fatal(err)
	}
	if root.Base().NumOutputChannels != 2 {
		t.Fatalf("got %d output channels, want 2", root.Base().NumOutputChannels)
	}
	ch0 := root.Base().Out(0)[:64]
	ch1 := root.Base().Out(1)[:64]
	for i := range ch0 {
		if math.Abs(float64(ch1[i])-2*float64(ch0[i])) > 1e-5 {
			t.Fatalf("sample %d: channel 1 (%v) should be double channel 0 (%v)", i, ch1[i], ch0[i])
		}
	}
}

// S4 Shared subgraph evaluated once.
func TestSharedSubgraphEvaluatedOnce(t *testing.T) {
	freqNode := signalflow.NewConstant(100)
	s := gen.NewSine(48000, freqNode)
	root := ops.Add(s, s)

	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(root); err != nil {
		t.Fatal(err)
	}
	if err := g.PullInput(64); err != nil {
		t.Fatal(err)
	}
	if s.ProcessCount != 1 {
		t.Fatalf("got %d Process calls, want exactly 1 per tick", s.ProcessCount)
	}
	if err := g.PullInput(64); err != nil {
		t.Fatal(err)
	}
	if s.ProcessCount != 2 {
		t.Fatalf("got %d Process calls across two ticks, want 2", s.ProcessCount)
	}
}

// S5 Patch polyphony.
func TestPatchPolyphonyMatchesIndividualPulls(t *testing.T) {
	spec := signalflow.NewPatchSpec("voice")
	freqIn := spec.AddTemplateInputSpec("freq", 110)
	square := spec.AddNodeSpec("square")
	if err := spec.Connect(square, "frequency", freqIn); err != nil {
		t.Fatal(err)
	}
	spec.SetOutput(square)
	if err := spec.Validate(); err != nil {
		t.Fatal(err)
	}

	freqs := make([]float64, 8)
	for k := range freqs {
		freqs[k] = 110 * math.Pow(2, float64(k)/12)
	}

	g := signalflow.NewAudioGraph(48000)
	patches := make([]*signalflow.Patch, 8)
	for k, hz := range freqs {
		p, err := signalflow.NewPatchFromSpec(spec)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.SetInputValue("freq", float32(hz)); err != nil {
			t.Fatal(err)
		}
		patches[k] = p
		if err := g.AddOutput(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.PullInput(64); err != nil {
		t.Fatal(err)
	}
	summed := make([]signalflow.Sample, 64)
	copy(summed, g.Root().Base().Out(0)[:64])

	// Individually pulled: a fresh patch per frequency, pulled alone.
	individual := make([]signalflow.Sample, 64)
	for _, hz := range freqs {
		p, err := signalflow.NewPatchFromSpec(spec)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.SetInputValue("freq", float32(hz)); err != nil {
			t.Fatal(err)
		}
		ig := signalflow.NewAudioGraph(48000)
		if err := ig.AddOutput(p); err != nil {
			t.Fatal(err)
		}
		if err := ig.PullInput(64); err != nil {
			t.Fatal(err)
		}
		for i, v := range ig.Root().Base().Out(0)[:64] {
			individual[i] += v
		}
	}
	for i := range summed {
		if summed[i] != individual[i] {
			t.Fatalf("sample %d: graph sum %v != individually-summed %v", i, summed[i], individual[i])
		}
	}
}

// S6 Auto-free.
func TestAutoFreeRemovesFinishedPatch(t *testing.T) {
	const sampleRate = 48000
	const blockSize = 64
	p := signalflow.NewPatch("one-shot")
	envelope := gen.NewASR(sampleRate, 0, 0, 0.1)
	if err := p.AddNode(envelope); err != nil {
		t.Fatal(err)
	}
	p.SetOutput(envelope)
	p.SetAutoFree(true)

	g := signalflow.NewAudioGraph(sampleRate)
	if err := g.AddOutput(p); err != nil {
		t.Fatal(err)
	}
	if g.GetPatchCount() != 1 {
		t.Fatalf("got %d patches, want 1", g.GetPatchCount())
	}

	releaseSamples := int(math.Ceil(0.1 * sampleRate))
	ticks := releaseSamples/blockSize + 1
	for i := 0; i < ticks; i++ {
		if err := g.PullInput(blockSize); err != nil {
			t.Fatal(err)
		}
	}
	if g.GetPatchCount() != 0 {
		t.Fatalf("got %d patches after auto-free window, want 0", g.GetPatchCount())
	}
}

// A ChannelMixer accepts a wider input: the pull succeeds and the
// mixer keeps its fixed output width.
func TestChannelMixerKeepsFixedWidthWithWiderInput(t *testing.T) {
	mixer := ops.NewChannelMixer(nil, 2)
	arr := ops.NewChannelArray(signalflow.NewConstant(0), signalflow.NewConstant(0), signalflow.NewConstant(0))
	if err := mixer.SetInput("input", arr); err != nil {
		t.Fatal(err)
	}
	g := signalflow.NewAudioGraph(48000)
	if err := g.AddOutput(mixer); err != nil {
		t.Fatal(err)
	}
	if err := g.PullInput(32); err != nil {
		t.Fatal(err)
	}
	if mixer.Base().NumOutputChannels != 2 {
		t.Fatalf("ChannelMixer must keep its fixed output width, got %d", mixer.Base().NumOutputChannels)
	}
}
