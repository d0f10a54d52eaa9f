// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"github.com/signalflow-go/signalflow"
	"zikichombo.org/sound/freq"
)

func init() {
	signalflow.RegisterNode("asr", func() signalflow.Node { return NewASR(DefaultSampleRate, 0, 0, 0.1) })
}

type asrStage int

const (
	asrAttack asrStage = iota
	asrSustain
	asrRelease
	asrDone
)

// ASR is an attack/sustain/release envelope: it ramps 0->1 over
// attack seconds, holds 1 for sustain seconds, ramps 1->0 over release
// seconds, then transitions to signalflow.StateFinished. A zero-input
// node whose only output is the envelope's current level, intended to
// multiply into an oscillator.
type ASR struct {
	*signalflow.NodeBase
	attackSamples, sustainSamples, releaseSamples int
	stage                                         asrStage
	pos                                           int
	level                                         float32
}

// NewASR returns an ASR at sampleRate with the given stage durations
// in seconds, starting in its attack stage immediately.
func NewASR(sampleRate freq.T, attack, sustain, release float64) *ASR {
	a := &ASR{
		NodeBase:       signalflow.NewNodeBase("asr", 0, 0, 1, 1),
		attackSamples:  secondsToSamples(sampleRate, attack),
		sustainSamples: secondsToSamples(sampleRate, sustain),
		releaseSamples: secondsToSamples(sampleRate, release),
	}
	a.Init(a)
	return a
}

// Trigger implements signalflow.Triggerable: a "gate" event with a
// nonzero value restarts the envelope from its attack stage.
func (a *ASR) Trigger(name string, value float32) {
	if name != "gate" || value == 0 {
		return
	}
	a.stage = asrAttack
	a.pos = 0
}

// Process implements signalflow.Node.
func (a *ASR) Process(numFrames int) error {
	out := a.Out(0)[:numFrames]
	for i := range out {
		if a.stage == asrAttack && a.attackSamples <= 0 {
			a.stage, a.pos = asrSustain, 0
		}
		if a.stage == asrSustain && a.sustainSamples <= 0 {
			a.stage, a.pos = asrRelease, 0
		}
		switch a.stage {
		case asrAttack:
			if a.attackSamples <= 0 {
				a.level = 1
			} else {
				a.level = float32(a.pos) / float32(a.attackSamples)
			}
			a.pos++
			if a.pos >= a.attackSamples {
				a.stage, a.pos = asrSustain, 0
			}
		case asrSustain:
			a.level = 1
			a.pos++
			if a.pos >= a.sustainSamples {
				a.stage, a.pos = asrRelease, 0
			}
		case asrRelease:
			if a.releaseSamples <= 0 {
				a.level = 0
			} else {
				a.level = 1 - float32(a.pos)/float32(a.releaseSamples)
			}
			a.pos++
			if a.pos >= a.releaseSamples {
				a.stage = asrDone
				a.level = 0
				a.SetState(signalflow.StateFinished)
			}
		case asrDone:
			a.level = 0
		}
		out[i] = a.level
	}
	return nil
}

func secondsToSamples(sr freq.T, seconds float64) int {
	n := int(float64(sr) * seconds)
	if n < 0 {
		n = 0
	}
	return n
}
