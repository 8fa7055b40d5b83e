package loadcurve

import "errors"

// HoursPerDay is the length of every weight vector and curve.
const HoursPerDay = 24

// DaysPerMonth converts a monthly consumption into the daily energy the curve carries.
const DaysPerMonth = 30

var (
	// ErrInvalidInput marks non-positive consumption or an out of range peak share.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidArchetype marks a weight vector that is not 24 non-negative values.
	ErrInvalidArchetype = errors.New("invalid archetype")
)

// HourlyPoint is the demand held constant for one hour of the synthetic day.
type HourlyPoint struct {
	Hour     int     `json:"hour"`
	DemandKW float64 `json:"demandKw"`
}

// Curve is the reconciled 24 point day, ascending by hour.
type Curve []HourlyPoint

// Values returns the demand column in hour order.
func (c Curve) Values() []float64 {
	out := make([]float64, len(c))
	for i, p := range c {
		out[i] = p.DemandKW
	}
	return out
}

// Summary condenses a curve into the figures tariff and viability work consume.
type Summary struct {
	PeakDemandKW       float64 `json:"peakDemandKw"`
	PeakHour           int     `json:"peakHour"`
	EnergyPeakKWh      float64 `json:"energyPeakKwh"`
	EnergyOffPeakKWh   float64 `json:"energyOffPeakKwh"`
	DailyEnergyKWh     float64 `json:"dailyEnergyKwh"`
	PeakWindowDemandKW float64 `json:"peakWindowDemandKw"`
	PeakWindowHour     int     `json:"peakWindowHour"`
	OffPeakDemandKW    float64 `json:"offPeakDemandKw"`
	LoadFactor         float64 `json:"loadFactor"`
}

// Request is the payload accepted by the load curve service.
// Weights, when present, replace the named profile.
type Request struct {
	MonthlyConsumptionKWh float64   `json:"monthlyConsumptionKwh"`
	PeakSharePercent      float64   `json:"peakSharePercent"`
	Profile               string    `json:"profile"`
	Weights               []float64 `json:"weights,omitempty"`
}

// Response is serialized back to API consumers.
type Response struct {
	Profile               string  `json:"profile"`
	MonthlyConsumptionKWh float64 `json:"monthlyConsumptionKwh"`
	DailyConsumptionKWh   float64 `json:"dailyConsumptionKwh"`
	PeakSharePercent      float64 `json:"peakSharePercent"`
	PeakHours             []int   `json:"peakHours"`
	Curve                 Curve   `json:"curve"`
	Summary               Summary `json:"summary"`
}

// ProfileInfo describes a built-in archetype.
type ProfileInfo struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Weights []float64 `json:"weights"`
}

// Config wires runtime knobs for the load curve service.
type Config struct {
	PeakWindow               PeakWindow
	MinMonthlyConsumptionKWh float64
}
