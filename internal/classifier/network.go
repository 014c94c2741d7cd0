// Package classifier provides the numeric classifier implementation used
// for both hand-shape and fingertip-motion classification: a small
// feed-forward network whose weights are trained offline and loaded from
// a JSON export.
package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// layer is one dense layer: output = weights * input + biases.
type layer struct {
	weights *mat.Dense
	biases  *mat.VecDense
}

// Network is a feed-forward classifier. Hidden layers use ReLU; the output
// layer is linear and the predicted class is the argmax over its units.
type Network struct {
	layers []layer
	inSize int
}

// layerSpec is the JSON form of one layer. Weights are row-major:
// weights[i][j] connects input j to output unit i.
type layerSpec struct {
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

type networkSpec struct {
	Layers []layerSpec `json:"layers"`
}

// Load reads a network from a JSON weights file.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}

	var spec networkSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse weights file %s: %w", path, err)
	}

	return New(spec.Layers)
}

// New builds a Network from layer specs, validating that layer shapes chain.
func New(specs []layerSpec) (*Network, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("network has no layers")
	}

	n := &Network{}
	prevOut := -1

	for li, spec := range specs {
		rows := len(spec.Weights)
		if rows == 0 {
			return nil, fmt.Errorf("layer %d has no weight rows", li)
		}
		cols := len(spec.Weights[0])
		if cols == 0 {
			return nil, fmt.Errorf("layer %d has empty weight rows", li)
		}
		if len(spec.Biases) != rows {
			return nil, fmt.Errorf("layer %d has %d biases for %d units", li, len(spec.Biases), rows)
		}
		if prevOut != -1 && cols != prevOut {
			return nil, fmt.Errorf("layer %d expects %d inputs but layer %d produces %d", li, cols, li-1, prevOut)
		}

		flat := make([]float64, 0, rows*cols)
		for ri, row := range spec.Weights {
			if len(row) != cols {
				return nil, fmt.Errorf("layer %d row %d has %d weights, want %d", li, ri, len(row), cols)
			}
			flat = append(flat, row...)
		}

		n.layers = append(n.layers, layer{
			weights: mat.NewDense(rows, cols, flat),
			biases:  mat.NewVecDense(rows, append([]float64(nil), spec.Biases...)),
		})
		if li == 0 {
			n.inSize = cols
		}
		prevOut = rows
	}

	return n, nil
}

// InputSize returns the expected feature vector length.
func (n *Network) InputSize() int { return n.inSize }

// OutputSize returns the number of classes.
func (n *Network) OutputSize() int {
	last := n.layers[len(n.layers)-1]
	r, _ := last.weights.Dims()
	return r
}

// Predict runs a forward pass and returns the argmax class index.
// An input of the wrong length yields -1, which callers map to the
// unknown-label sentinel.
func (n *Network) Predict(input []float64) int {
	if len(input) != n.inSize {
		return -1
	}

	x := mat.NewVecDense(len(input), append([]float64(nil), input...))

	for li, l := range n.layers {
		rows, _ := l.weights.Dims()
		y := mat.NewVecDense(rows, nil)
		y.MulVec(l.weights, x)
		y.AddVec(y, l.biases)

		// ReLU on hidden layers only; the output stays linear for argmax.
		if li < len(n.layers)-1 {
			for i := 0; i < rows; i++ {
				if y.AtVec(i) < 0 {
					y.SetVec(i, 0)
				}
			}
		}
		x = y
	}

	best := 0
	for i := 1; i < x.Len(); i++ {
		if x.AtVec(i) > x.AtVec(best) {
			best = i
		}
	}
	return best
}
