// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import (
	"math"

	"github.com/signalflow-go/signalflow"
)

func init() {
	signalflow.RegisterNode("abs", func() signalflow.Node {
		return newUnaryFunc("abs", func(a signalflow.Sample) signalflow.Sample { return signalflow.Sample(math.Abs(float64(a))) })
	})
	signalflow.RegisterNode("negate", func() signalflow.Node {
		return newUnaryFunc("negate", func(a signalflow.Sample) signalflow.Sample { return -a })
	})
}

func unary(kind string, fn func(a signalflow.Sample) signalflow.Sample, a interface{}) signalflow.Node {
	n := newUnaryFunc(kind, fn)
	if err := n.SetInput("input", asNode(a)); err != nil {
		panic(err)
	}
	return n
}

// Abs returns |a|, sample by sample.
func Abs(a interface{}) signalflow.Node {
	return unary("abs", func(x signalflow.Sample) signalflow.Sample { return signalflow.Sample(math.Abs(float64(x))) }, a)
}

// Negate returns -a, sample by sample.
func Negate(a interface{}) signalflow.Node {
	return unary("negate", func(x signalflow.Sample) signalflow.Sample { return -x }, a)
}
