package inference

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Activation is an element-wise layer activation.
type Activation func(float64) float64

var activations = map[string]Activation{
	"linear":  func(x float64) float64 { return x },
	"relu":    func(x float64) float64 { return math.Max(0, x) },
	"relu6":   func(x float64) float64 { return math.Min(math.Max(0, x), 6) },
	"sigmoid": func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
	"tanh":    math.Tanh,
	"elu": func(x float64) float64 {
		if x > 0 {
			return x
		}
		return math.Exp(x) - 1
	},
	"softplus": func(x float64) float64 { return math.Log1p(math.Exp(x)) },
	"softsign": func(x float64) float64 { return x / (1 + math.Abs(x)) },
	"swish":    func(x float64) float64 { return x / (1 + math.Exp(-x)) },
}

func init() {
	activations["silu"] = activations["swish"]
}

// LookupActivation resolves a Keras activation name. An empty name is linear.
func LookupActivation(name string) (Activation, error) {
	if name == "" {
		name = "linear"
	}
	fn, ok := activations[name]
	if !ok {
		return nil, fmt.Errorf("unsupported activation %q", name)
	}
	return fn, nil
}

// Layer is one step of a feed-forward network. A layer without a kernel only
// applies its activation.
type Layer struct {
	Name       string
	Kernel     *mat.Dense // inputs x units
	Bias       *mat.VecDense
	Activation Activation
	Units      int
}

// Network is an immutable stack of dense layers. It is safe for concurrent use.
type Network struct {
	inputDim int
	layers   []Layer
	scratch  sync.Pool
}

// NewNetwork validates the layer shapes and builds a network that maps
// inputDim features to a single output.
func NewNetwork(inputDim int, layers []Layer) (*Network, error) {
	if inputDim <= 0 {
		return nil, fmt.Errorf("invalid input dimension %d", inputDim)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("network has no layers")
	}

	width := inputDim
	sizes := []int{inputDim}
	for i := range layers {
		l := &layers[i]
		if l.Activation == nil {
			return nil, fmt.Errorf("layer %s has no activation", l.Name)
		}
		if l.Kernel == nil {
			l.Units = width
			continue
		}
		rows, cols := l.Kernel.Dims()
		if rows != width {
			return nil, fmt.Errorf("layer %s expects %d inputs, previous layer produces %d", l.Name, rows, width)
		}
		if l.Bias != nil && l.Bias.Len() != cols {
			return nil, fmt.Errorf("layer %s bias has %d entries, want %d", l.Name, l.Bias.Len(), cols)
		}
		l.Units = cols
		width = cols
		sizes = append(sizes, cols)
	}
	if width != 1 {
		return nil, fmt.Errorf("network produces %d outputs, want 1", width)
	}

	n := &Network{inputDim: inputDim, layers: layers}
	n.scratch.New = func() interface{} {
		bufs := make([][]float64, len(sizes))
		for i, size := range sizes {
			bufs[i] = make([]float64, size)
		}
		return &bufs
	}
	return n, nil
}

func (n *Network) InputDim() int {
	return n.inputDim
}

// Predict runs one forward pass. Intermediate buffers come from a pool and go
// back to it before Predict returns.
func (n *Network) Predict(features []float64) (float64, error) {
	if len(features) != n.inputDim {
		return 0, fmt.Errorf("expected %d features, got %d", n.inputDim, len(features))
	}

	bufs := n.scratch.Get().(*[][]float64)
	defer n.scratch.Put(bufs)

	copy((*bufs)[0], features)
	x := mat.NewVecDense(n.inputDim, (*bufs)[0])
	next := 1
	for i := range n.layers {
		l := &n.layers[i]
		if l.Kernel != nil {
			y := mat.NewVecDense(l.Units, (*bufs)[next])
			next++
			y.MulVec(l.Kernel.T(), x)
			if l.Bias != nil {
				y.AddVec(y, l.Bias)
			}
			x = y
		}
		for j := 0; j < x.Len(); j++ {
			x.SetVec(j, l.Activation(x.AtVec(j)))
		}
	}

	out := x.AtVec(0)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, fmt.Errorf("model produced a non-finite output")
	}
	return out, nil
}
