package loadcurve

import (
	"math"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

// Reconcile scales an hourly weight vector into a demand curve whose peak and
// off-peak energy match the requested split of the daily consumption.
//
// Each partition is scaled on its own, so relative shape inside a partition is
// preserved and the curve may step at the window edges. A partition whose
// weights sum to zero gets zero demand. Weights are taken relative to the
// largest one so extreme magnitudes neither overflow nor underflow the sums.
func Reconcile(monthlyKWh, peakSharePercent float64, weights []float64, window PeakWindow) (Curve, error) {
	if math.IsNaN(monthlyKWh) || math.IsInf(monthlyKWh, 0) || monthlyKWh <= 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "monthly consumption must be positive", ErrInvalidInput)
	}
	if math.IsNaN(peakSharePercent) || peakSharePercent < 0 || peakSharePercent > 100 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "peak share must be between 0 and 100 percent", ErrInvalidInput)
	}
	if err := validateWeights(weights); err != nil {
		return nil, err
	}
	if err := window.validate(); err != nil {
		return nil, err
	}

	daily := monthlyKWh / DaysPerMonth
	share := peakSharePercent / 100
	targetPeak := daily * share
	targetOffPeak := daily * (1 - share)

	relative := relativeWeights(weights)
	peak, offPeak := partition(relative, window)
	scalePeak := scaleFor(targetPeak, floats.Sum(peak))
	scaleOffPeak := scaleFor(targetOffPeak, floats.Sum(offPeak))

	curve := make(Curve, HoursPerDay)
	for h, w := range relative {
		scale := scaleOffPeak
		if window.Contains(h) {
			scale = scalePeak
		}
		demand := w * scale
		if math.IsInf(demand, 0) || math.IsNaN(demand) {
			return nil, apperrors.Wrap(apperrors.CodeInvalidArchetype, "weights span too wide a range to scale", ErrInvalidArchetype)
		}
		curve[h] = HourlyPoint{Hour: h, DemandKW: demand}
	}
	return curve, nil
}

// relativeWeights divides every weight by the largest one. The input is not modified.
func relativeWeights(weights []float64) []float64 {
	out := make([]float64, len(weights))
	maxW := floats.Max(weights)
	if maxW == 0 {
		return out
	}
	for h, w := range weights {
		out[h] = w / maxW
	}
	return out
}

func partition(weights []float64, window PeakWindow) (peak, offPeak []float64) {
	peak = make([]float64, 0, window.Len())
	offPeak = make([]float64, 0, HoursPerDay-window.Len())
	for h, w := range weights {
		if window.Contains(h) {
			peak = append(peak, w)
		} else {
			offPeak = append(offPeak, w)
		}
	}
	return peak, offPeak
}

func scaleFor(target, weightSum float64) float64 {
	if weightSum == 0 {
		return 0
	}
	return target / weightSum
}
