/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package training

import (
	"math/rand"
)

// Input is one scaled predictor input.
type Input struct {
	MetaFeature []float64
	LA          float64
	Components  []int
}

// Network regresses performance from a meta-feature vector, an la and the
// embedded configuration components.
type Network struct {
	metaFeatureWidth int
	embeddings       []*embedding
	hidden           *dense
	output           *dense
}

// trace keeps the activations of one forward pass for backpropagation.
type trace struct {
	x    []float64
	pre  []float64
	h    []float64
	pred float64
}

// NewNetwork returns a randomly initialized network with one embedding table
// per component slot.
func NewNetwork(metaFeatureWidth int, cardinalities []int, cfg Config, rng *rand.Rand) *Network {
	n := &Network{metaFeatureWidth: metaFeatureWidth}

	width := metaFeatureWidth + 1
	for _, card := range cardinalities {
		e := newEmbedding(card, embeddingDim(card, cfg.MaxEmbedding), rng)
		n.embeddings = append(n.embeddings, e)
		width += e.dim
	}

	n.hidden = newDense(width, cfg.HiddenSize, rng)
	n.output = newDense(cfg.HiddenSize, 1, rng)
	return n
}

// Forward returns the hidden representation and the predicted performance.
func (n *Network) Forward(in Input) ([]float64, float64) {
	t := n.forward(in)
	return t.h, t.pred
}

func (n *Network) forward(in Input) *trace {
	x := make([]float64, 0, n.hidden.in)
	x = append(x, in.MetaFeature...)
	x = append(x, in.LA)
	for k, e := range n.embeddings {
		x = append(x, e.lookup(in.Components[k])...)
	}

	pre := n.hidden.forward(x)
	h := relu(pre)
	return &trace{x: x, pre: pre, h: h, pred: n.output.forward(h)[0]}
}

// backward accumulates gradients for the prediction gradient dpred and
// returns the gradient of the meta-feature input.
func (n *Network) backward(in Input, t *trace, dpred float64) []float64 {
	dh := n.output.backward(t.h, []float64{dpred})
	dx := n.hidden.backward(t.x, reluGrad(t.pre, dh))

	offset := n.metaFeatureWidth + 1
	for k, e := range n.embeddings {
		e.backward(in.Components[k], dx[offset:offset+e.dim])
		offset += e.dim
	}

	return dx[:n.metaFeatureWidth]
}

func (n *Network) params() []*param {
	var params []*param
	for _, e := range n.embeddings {
		params = append(params, e.table)
	}
	params = append(params, n.hidden.params()...)
	return append(params, n.output.params()...)
}
