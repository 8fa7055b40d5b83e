package scenario

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/regional"
	"github.com/marcus-medeiros/analise-bess/internal/domain/tariff"
	"github.com/marcus-medeiros/analise-bess/internal/domain/viability"
)

// Scenario is a saved set of customer inputs.
type Scenario struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	State                 string    `json:"state"`
	MonthlyConsumptionKWh float64   `json:"monthlyConsumptionKwh"`
	PeakSharePercent      float64   `json:"peakSharePercent"`
	Profile               string    `json:"profile"`
	CreatedAt             time.Time `json:"createdAt"`
}

// CreateRequest is the payload accepted when saving a scenario.
type CreateRequest struct {
	Name                  string  `json:"name"`
	State                 string  `json:"state" binding:"required"`
	MonthlyConsumptionKWh float64 `json:"monthlyConsumptionKwh" binding:"required"`
	PeakSharePercent      float64 `json:"peakSharePercent"`
	Profile               string  `json:"profile"`
}

// EvaluateRequest analyzes inputs without saving them.
type EvaluateRequest struct {
	CreateRequest
	Weights    []float64        `json:"weights,omitempty"`
	Investment *InvestmentInput `json:"investment,omitempty"`
}

// InvestmentInput is the caller's view of a BESS project. Absent fields take
// the configured defaults; an explicit zero is kept.
type InvestmentInput struct {
	CapexBRL            *float64 `json:"capexBrl,omitempty"`
	AnnualOMBRL         *float64 `json:"annualOmBrl,omitempty"`
	LifetimeYears       *int     `json:"lifetimeYears,omitempty"`
	DiscountRate        *float64 `json:"discountRate,omitempty"`
	RoundTripEfficiency *float64 `json:"roundTripEfficiency,omitempty"`
}

// Investment describes a resolved BESS project evaluated against the curve.
type Investment struct {
	CapexBRL            float64 `json:"capexBrl"`
	AnnualOMBRL         float64 `json:"annualOmBrl"`
	LifetimeYears       int     `json:"lifetimeYears"`
	DiscountRate        float64 `json:"discountRate"`
	RoundTripEfficiency float64 `json:"roundTripEfficiency"`
}

// Analysis is the complete result served to the dashboard.
type Analysis struct {
	Scenario *Scenario          `json:"scenario,omitempty"`
	Region   regional.State     `json:"region"`
	Load     loadcurve.Response `json:"load"`
	Cost     tariff.Breakdown   `json:"cost"`
	Storage  *StorageResult     `json:"storage,omitempty"`
}

// StorageResult compares the baseline bill with the bill after moving peak
// energy to off-peak through the battery.
type StorageResult struct {
	ShiftedEnergyKWhDay float64          `json:"shiftedEnergyKwhDay"`
	ShiftedCost         tariff.Breakdown `json:"shiftedCost"`
	MonthlySavings      float64          `json:"monthlySavings"`
	AnnualCashFlow      float64          `json:"annualCashFlow"`
	Viability           viability.Result `json:"viability"`
}

// StateCount is the number of scenarios created for a state.
type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

// Config holds runtime knobs for the scenario service.
type Config struct {
	Tariff        tariff.Schedule
	Investment    Investment
	TopStates     int
	ListLimit     int
	MaxNameLength int
}
