// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ops

import "github.com/signalflow-go/signalflow"

func init() {
	signalflow.RegisterNode("add", func() signalflow.Node { return newBinaryFunc("add", func(a, b signalflow.Sample) signalflow.Sample { return a + b }) })
	signalflow.RegisterNode("subtract", func() signalflow.Node {
		return newBinaryFunc("subtract", func(a, b signalflow.Sample) signalflow.Sample { return a - b })
	})
	signalflow.RegisterNode("multiply", func() signalflow.Node {
		return newBinaryFunc("multiply", func(a, b signalflow.Sample) signalflow.Sample { return a * b })
	})
	signalflow.RegisterNode("divide", func() signalflow.Node {
		return newBinaryFunc("divide", func(a, b signalflow.Sample) signalflow.Sample {
			if b == 0 {
				return 0
			}
			return a / b
		})
	})
}

func binary(kind string, fn func(a, b signalflow.Sample) signalflow.Sample, a, b interface{}) signalflow.Node {
	n := newBinaryFunc(kind, fn)
	na, nb := asNode(a), asNode(b)
	if err := n.SetInput("input0", na); err != nil {
		panic(err)
	}
	if err := n.SetInput("input1", nb); err != nil {
		panic(err)
	}
	return n
}

// Add returns a+b, promoting numeric literal operands to Constants.
func Add(a, b interface{}) signalflow.Node {
	return binary("add", func(x, y signalflow.Sample) signalflow.Sample { return x + y }, a, b)
}

// Subtract returns a-b.
func Subtract(a, b interface{}) signalflow.Node {
	return binary("subtract", func(x, y signalflow.Sample) signalflow.Sample { return x - y }, a, b)
}

// Multiply returns a*b.
func Multiply(a, b interface{}) signalflow.Node {
	return binary("multiply", func(x, y signalflow.Sample) signalflow.Sample { return x * y }, a, b)
}

// Divide returns a/b, reading 0 wherever b is 0 rather than producing Inf/NaN.
func Divide(a, b interface{}) signalflow.Node {
	return binary("divide", func(x, y signalflow.Sample) signalflow.Sample {
		if y == 0 {
			return 0
		}
		return x / y
	}, a, b)
}
