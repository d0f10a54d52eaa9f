// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package ops provides the operator and channel-glue nodes Go's lack
// of operator overloading pushes out of Node itself: arithmetic
// (Add, Subtract, Multiply, Divide, Sum), range remapping (Scale,
// LinExp), and channel-count glue (ChannelArray, ChannelMixer,
// ChannelSelect). Every node kind here self-registers with
// signalflow.RegisterNode at init time.
package ops
