// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package signalflow implements a pull-driven, block-based audio node
// graph: a device callback pulls a fixed-width output root once per
// block, which recursively evaluates every node it depends on exactly
// once, regardless of fan-out.
//
// A Node is a unit generator: it declares named inputs, infers its own
// channel count from what's connected, and fills its output buffer
// from already-processed inputs. Nodes are looked up by name through a
// process-wide NodeRegistry, populated by subpackages (signalflow/ops,
// signalflow/gen) registering themselves at init time.
//
// A PatchSpec is a serialisable template of a node graph; a Patch is
// its live instantiation, with named template inputs a host can rebind
// per voice. An AudioGraph owns the output root and the set of
// attached Patches and bare Nodes, and exposes the pull/start/stop
// surface a device backend drives.
package signalflow
