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
	"errors"
	"fmt"
	"math"
)

// Eval is the regression quality of a fitted predictor.
type Eval struct {
	// MAE mean absolute error.
	MAE float64

	// MSE mean square error.
	MSE float64

	// RMSE root mean square error.
	RMSE float64

	// R² coefficient of determination.
	R2 float64
}

// Evaluate compares predictions against labels.
func Evaluate(out, label []float64) (*Eval, error) {
	if len(out) != len(label) {
		return nil, fmt.Errorf("%d predictions for %d labels", len(out), len(label))
	}

	if len(out) == 0 {
		return nil, errors.New("nothing to evaluate")
	}

	var maeSum, mseSum, mean, tssSum float64
	for i := range out {
		maeSum += math.Abs(label[i] - out[i])
		mseSum += math.Pow(label[i]-out[i], 2)
		mean += label[i]
	}
	mean = mean / float64(len(out))
	for i := range out {
		tssSum += math.Pow(label[i]-mean, 2)
	}

	e := &Eval{
		MAE:  maeSum / float64(len(out)),
		MSE:  mseSum / float64(len(out)),
		RMSE: math.Sqrt(mseSum / float64(len(out))),
		R2:   1 - mseSum/tssSum,
	}

	// A constant target has no explained variance.
	if tssSum == 0 {
		e.R2 = 0
	}

	if err := e.Check(); err != nil {
		return nil, err
	}

	return e, nil
}

// Check fails when any measure is NaN.
func (e *Eval) Check() error {
	if math.IsNaN(e.MAE) || math.IsNaN(e.MSE) || math.IsNaN(e.RMSE) || math.IsNaN(e.R2) {
		return errors.New("model NAN")
	}

	return nil
}
