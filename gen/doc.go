// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen provides the leaf unit generators used to exercise the
// engine and its registry: oscillators (Sine, Square, Saw), Noise, an
// attack/sustain/release envelope (ASR), and control-rate utilities
// (Clock, TriggerNoise). Every node kind here self-registers with
// signalflow.RegisterNode at init time, reading DefaultSampleRate for
// its time base, per the registry constructor's no-argument shape.
package gen

import "zikichombo.org/sound/freq"

// DefaultSampleRate is the time base used by registry-constructed
// generators (those built via signalflow.CreateNode, e.g. from a
// PatchSpec), since NodeConstructor takes no arguments. A host sets it
// once at startup to match its AudioGraph's sample rate; generators
// built directly via their New* constructors take an explicit rate
// instead and ignore this package variable.
var DefaultSampleRate freq.T = 44100 * freq.Hertz

// SetDefaultSampleRate updates DefaultSampleRate. Call it before
// building any graph from a registry-constructed PatchSpec.
func SetDefaultSampleRate(sr freq.T) { DefaultSampleRate = sr }
