// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package signalflow

import "fmt"

// DisconnectedError describes an input or output slot that has no
// connection where one is required.
type DisconnectedError struct {
	IsInput bool
	Name    string
}

func (d *DisconnectedError) Error() string {
	dir := "input"
	if !d.IsInput {
		dir = "output"
	}
	return fmt.Sprintf("%s %q not connected", dir, d.Name)
}

func dce(in bool, name string) *DisconnectedError {
	return &DisconnectedError{IsInput: in, Name: name}
}

// NewDisconnectedError builds a DisconnectedError for an input or
// output slot a node genuinely cannot run without — as opposed to an
// optional modulation input a node treats as silence when unbound.
// Exported so node kinds outside this package (e.g. signalflow/gen's
// BufferPlayer, which cannot play without a buffer) can report the
// same error shape the core package uses internally.
func NewDisconnectedError(isInput bool, name string) *DisconnectedError {
	return dce(isInput, name)
}

// GraphNotReadyError is returned when an operation requires a live
// AudioGraph but none has been set.
type GraphNotReadyError struct {
	Op string
}

func (e *GraphNotReadyError) Error() string {
	return fmt.Sprintf("signalflow: %s: no graph is ready", e.Op)
}

// UnknownNodeError is returned by a NodeRegistry lookup miss.
type UnknownNodeError struct {
	Kind string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("signalflow: unknown node kind %q", e.Kind)
}

// UnknownInputError is returned by SetInput/GetInput on a non-existent slot.
type UnknownInputError struct {
	Node  string
	Input string
}

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("signalflow: node %q has no such input: %q", e.Node, e.Input)
}

// InvalidChannelCountError is returned when an input's channel count
// exceeds what a non-matching node accepts.
type InvalidChannelCountError struct {
	Node      string
	Input     string
	Got, Want int
}

func (e *InvalidChannelCountError) Error() string {
	return fmt.Sprintf("signalflow: node %q input %q has %d channels, %q supports at most %d; insert a ChannelMixer or ChannelSelect", e.Node, e.Input, e.Got, e.Node, e.Want)
}

// CannotSetInputError is returned by SetInput(name, float32) when the
// addressed slot is not occupied by a Constant.
type CannotSetInputError struct {
	Node  string
	Input string
}

func (e *CannotSetInputError) Error() string {
	return fmt.Sprintf("signalflow: node %q input %q is not a constant, can't set a scalar value", e.Node, e.Input)
}

// BufferShapeMismatchError is returned when loading into a buffer whose
// channel count or sample rate differs from the source.
type BufferShapeMismatchError struct {
	Reason string
}

func (e *BufferShapeMismatchError) Error() string {
	return fmt.Sprintf("signalflow: buffer shape mismatch: %s", e.Reason)
}

// BufferTooSmallError is returned when Process is called with more
// frames than the node's allocated output buffer can hold.
type BufferTooSmallError struct {
	Node      string
	Requested int
	Allocated int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("signalflow: node %q: buffer too small (%d frames requested, %d allocated); increase the block size", e.Node, e.Requested, e.Allocated)
}

// SpecIntegrityError is returned when a PatchSpec references a missing
// id, or has zero or multiple roots.
type SpecIntegrityError struct {
	Reason string
}

func (e *SpecIntegrityError) Error() string {
	return fmt.Sprintf("signalflow: spec integrity: %s", e.Reason)
}
