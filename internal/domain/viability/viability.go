// Package viability computes discounted cash flow indicators for a storage project.
package viability

import (
	"math"

	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

const (
	irrLow        = -0.99
	irrHigh       = 10.0
	irrTolerance  = 1e-10
	irrIterations = 200
)

// Input describes the project: I0 at t=0 and FC_1..FC_N at the end of each year.
type Input struct {
	Investment   float64   `json:"investment"`
	CashFlows    []float64 `json:"cashFlows"`
	DiscountRate float64   `json:"discountRate"`
}

// Result holds the indicators. Nil pointers mean the indicator does not exist
// for the given flows (no sign change, never paid back).
type Result struct {
	NPV                    float64  `json:"npv"`
	IRR                    *float64 `json:"irr,omitempty"`
	SimplePaybackYears     *int     `json:"simplePaybackYears,omitempty"`
	DiscountedPaybackYears *int     `json:"discountedPaybackYears,omitempty"`
	Years                  int      `json:"years"`
}

// Evaluate computes NPV at the discount rate, IRR and both paybacks.
func Evaluate(in Input) (Result, error) {
	if math.IsNaN(in.Investment) || in.Investment <= 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "investment must be positive", nil)
	}
	if len(in.CashFlows) == 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "at least one cash flow is required", nil)
	}
	if math.IsNaN(in.DiscountRate) || in.DiscountRate <= -1 {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "discount rate must be greater than -100%", nil)
	}
	for _, fc := range in.CashFlows {
		if math.IsNaN(fc) || math.IsInf(fc, 0) {
			return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "cash flows must be finite", nil)
		}
	}

	npv := NPV(in.Investment, in.CashFlows, in.DiscountRate)
	if math.IsNaN(npv) || math.IsInf(npv, 0) {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "discount rate and horizon overflow the present value", nil)
	}
	res := Result{
		NPV:   npv,
		Years: len(in.CashFlows),
	}
	if irr, ok := IRR(in.Investment, in.CashFlows); ok {
		res.IRR = &irr
	}
	if years, ok := payback(in.Investment, in.CashFlows, 0); ok {
		res.SimplePaybackYears = &years
	}
	if years, ok := payback(in.Investment, in.CashFlows, in.DiscountRate); ok {
		res.DiscountedPaybackYears = &years
	}
	return res, nil
}

// NPV is sum(FC_t / (1+rate)^t) - I0 for t = 1..N.
func NPV(investment float64, flows []float64, rate float64) float64 {
	total := -investment
	for t, fc := range flows {
		total += fc / math.Pow(1+rate, float64(t+1))
	}
	return total
}

// IRR finds the rate that zeroes NPV by bisection on [-99%, 1000%].
func IRR(investment float64, flows []float64) (float64, bool) {
	lo, hi := irrLow, irrHigh
	fLo, fHi := NPV(investment, flows, lo), NPV(investment, flows, hi)
	if fLo == 0 {
		return lo, true
	}
	if fHi == 0 {
		return hi, true
	}
	if math.Signbit(fLo) == math.Signbit(fHi) {
		return 0, false
	}
	for i := 0; i < irrIterations; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(investment, flows, mid)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, true
		}
		if math.Signbit(fMid) == math.Signbit(fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

// payback returns the first year T where the cumulative, optionally discounted,
// flow including -I0 at t=0 turns non-negative.
func payback(investment float64, flows []float64, rate float64) (int, bool) {
	cumulative := -investment
	for t, fc := range flows {
		cumulative += fc / math.Pow(1+rate, float64(t+1))
		if cumulative >= 0 {
			return t + 1, true
		}
	}
	return 0, false
}

// UniformCashFlows repeats amount for the given number of years.
func UniformCashFlows(amount float64, years int) []float64 {
	if years <= 0 {
		return nil
	}
	flows := make([]float64, years)
	for i := range flows {
		flows[i] = amount
	}
	return flows
}
