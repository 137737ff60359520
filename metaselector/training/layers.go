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
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// param is a trainable tensor with its gradient and Adam moments.
type param struct {
	w []float64
	g []float64
	m []float64
	v []float64
}

func newParam(n int) *param {
	return &param{
		w: make([]float64, n),
		g: make([]float64, n),
		m: make([]float64, n),
		v: make([]float64, n),
	}
}

func (p *param) zeroGrad() {
	for i := range p.g {
		p.g[i] = 0
	}
}

// adam implements the Adam optimizer.
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	step  int
}

func newAdam(lr float64) *adam {
	return &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8}
}

func (a *adam) update(params []*param) {
	a.step++
	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))
	for _, p := range params {
		for i, g := range p.g {
			p.m[i] = a.beta1*p.m[i] + (1-a.beta1)*g
			p.v[i] = a.beta2*p.v[i] + (1-a.beta2)*g*g
			p.w[i] -= a.lr * (p.m[i] / c1) / (math.Sqrt(p.v[i]/c2) + a.eps)
		}
		p.zeroGrad()
	}
}

// dense is a fully connected layer y = Wx + b with W stored row-major.
type dense struct {
	in, out int
	weight  *param
	bias    *param
}

// newDense initializes weights uniformly in ±1/sqrt(in).
func newDense(in, out int, rng *rand.Rand) *dense {
	d := &dense{in: in, out: out, weight: newParam(in * out), bias: newParam(out)}
	bound := 1 / math.Sqrt(float64(in))
	for i := range d.weight.w {
		d.weight.w[i] = (2*rng.Float64() - 1) * bound
	}
	for i := range d.bias.w {
		d.bias.w[i] = (2*rng.Float64() - 1) * bound
	}

	return d
}

func (d *dense) row(j int) []float64 {
	return d.weight.w[j*d.in : (j+1)*d.in]
}

func (d *dense) forward(x []float64) []float64 {
	y := make([]float64, d.out)
	for j := range y {
		y[j] = floats.Dot(d.row(j), x) + d.bias.w[j]
	}

	return y
}

// backward accumulates gradients for input x and output gradient dy and
// returns the gradient of x.
func (d *dense) backward(x, dy []float64) []float64 {
	dx := make([]float64, d.in)
	for j, g := range dy {
		if g == 0 {
			continue
		}
		floats.AddScaled(d.weight.g[j*d.in:(j+1)*d.in], g, x)
		floats.AddScaled(dx, g, d.row(j))
		d.bias.g[j] += g
	}

	return dx
}

func (d *dense) params() []*param {
	return []*param{d.weight, d.bias}
}

// embedding maps a categorical code to a learned vector.
type embedding struct {
	size, dim int
	table     *param
}

// newEmbedding initializes vectors from the standard normal distribution.
func newEmbedding(size, dim int, rng *rand.Rand) *embedding {
	e := &embedding{size: size, dim: dim, table: newParam(size * dim)}
	for i := range e.table.w {
		e.table.w[i] = rng.NormFloat64()
	}

	return e
}

func (e *embedding) lookup(code int) []float64 {
	return e.table.w[code*e.dim : (code+1)*e.dim]
}

func (e *embedding) backward(code int, dy []float64) {
	floats.Add(e.table.g[code*e.dim:(code+1)*e.dim], dy)
}

// embeddingDim is the embedding width of a slot with n values.
func embeddingDim(n, max int) int {
	dim := int(math.Round(1.6 * math.Pow(float64(n), 0.56)))
	if dim > max {
		dim = max
	}
	if dim < 2 {
		dim = 2
	}

	return dim
}

func relu(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			out[i] = v
		}
	}

	return out
}

// reluGrad masks dy where the pre-activation was not positive.
func reluGrad(pre, dy []float64) []float64 {
	out := make([]float64, len(dy))
	for i, v := range pre {
		if v > 0 {
			out[i] = dy[i]
		}
	}

	return out
}
