// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command sfdemo builds an 8-voice polyphonic square-wave patch,
// attaches it to an AudioGraph, and plays it through ebiten's audio
// backend, exercising the full PatchSpec -> Patch -> AudioGraph ->
// device pipeline end to end.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/signalflow-go/signalflow"
	"github.com/signalflow-go/signalflow/device"
	"github.com/signalflow-go/signalflow/gen"
	_ "github.com/signalflow-go/signalflow/ops"
	"zikichombo.org/sound/freq"
)

const sampleRate = 48000

func buildVoiceSpec() *signalflow.PatchSpec {
	spec := signalflow.NewPatchSpec("voice")
	freqSpec := spec.AddTemplateInputSpec("freq", 110)
	square := spec.AddNodeSpec("square")
	if err := spec.Connect(square, "frequency", freqSpec); err != nil {
		panic(err)
	}
	asr := spec.AddNodeSpec("asr")
	amp := spec.AddNodeSpec("multiply")
	if err := spec.Connect(amp, "input0", square); err != nil {
		panic(err)
	}
	if err := spec.Connect(amp, "input1", asr); err != nil {
		panic(err)
	}
	spec.SetOutput(amp)
	if err := spec.Validate(); err != nil {
		panic(err)
	}
	return spec
}

func main() {
	gen.SetDefaultSampleRate(sampleRate * freq.Hertz)
	graph := signalflow.NewAudioGraph(sampleRate*freq.Hertz, signalflow.WithOutputForm(2))
	graph.Start()

	spec := buildVoiceSpec()

	for k := 0; k < 8; k++ {
		patch, err := signalflow.NewPatchFromSpec(spec)
		if err != nil {
			fmt.Fprintln(os.Stderr, "instantiate voice:", err)
			os.Exit(1)
		}
		hz := 110 * math.Pow(2, float64(k)/12)
		if err := patch.SetInputValue("freq", float32(hz)); err != nil {
			fmt.Fprintln(os.Stderr, "set freq:", err)
			os.Exit(1)
		}
		patch.SetAutoFree(false)
		if err := graph.AddOutput(patch); err != nil {
			fmt.Fprintln(os.Stderr, "attach voice:", err)
			os.Exit(1)
		}
	}

	src := device.NewEbitenSource(graph)
	reader := device.NewStreamReader(src)

	ctx := ebitaudio.NewContext(sampleRate)
	player, err := ctx.NewPlayerF32(reader)
	if err != nil {
		fmt.Fprintln(os.Stderr, "new player:", err)
		os.Exit(1)
	}
	player.Play()

	graph.Poll(nil, 2, os.Stderr)
	time.Sleep(5 * time.Second)
	graph.Stop()
}
