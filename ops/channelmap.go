// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

// channelMap is an output-channel -> input-channel index table, the Go
// generalisation of the teacher's channel-index-mapping struct: each
// entry names which source channel feeds a given destination channel,
// with -1 meaning "silence this output channel".
type channelMap []int

// identityChannelMap returns the 0,1,2,...,n-1 mapping.
func identityChannelMap(n int) channelMap {
	m := make(channelMap, n)
	for i := range m {
		m[i] = i
	}
	return m
}
