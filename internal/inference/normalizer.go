package inference

import (
	"fmt"

	"score_predictor_backend/internal/model"
)

// Calibration is the data shipped alongside a trained model: the feature
// statistics used to standardize its training set and the offset applied to
// its raw output. None of it can be derived from this repository.
type Calibration struct {
	Means       [model.FeatureCount]float64
	Stds        [model.FeatureCount]float64
	ScoreOffset float64
}

// DefaultCalibration matches the bundled tfjs_model snapshot.
var DefaultCalibration = Calibration{
	Means: [model.FeatureCount]float64{
		20.48375, 3.557875, 2.485, 1.82075, 84.256375, 6.464875, 3.06875, 5.4625,
		0.55625, 0.215, 0.7475, 1.01, 0.75125, 0.3225,
	},
	Stds: [model.FeatureCount]float64{
		2.30102932, 1.48399393, 1.16715466, 1.09169338, 9.40908255, 1.2252464,
		2.01283965, 2.84931461, 0.5782179, 0.41082235, 0.74916203, 0.94069124,
		0.7066636, 0.46743315,
	},
	ScoreOffset: -35,
}

// Normalize standardizes raw with the calibration statistics.
func (c *Calibration) Normalize(raw []float64) []float64 {
	return Normalize(raw, c.Means[:], c.Stds[:])
}

// AdjustScore shifts a raw model output onto the exam score scale.
func (c *Calibration) AdjustScore(raw float64) float64 {
	return raw + c.ScoreOffset
}

// Normalize returns (raw[i]-means[i])/stds[i] for every feature. The three
// slices must have the same length.
func Normalize(raw, means, stds []float64) []float64 {
	if len(raw) != len(means) || len(raw) != len(stds) {
		panic(fmt.Sprintf("inference: normalize length mismatch: raw=%d means=%d stds=%d", len(raw), len(means), len(stds)))
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = (v - means[i]) / stds[i]
	}
	return out
}
