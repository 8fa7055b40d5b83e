package tariff

import (
	"fmt"
	"math"
	"strings"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

// Modality is the Grupo A hourly-seasonal tariff option.
type Modality string

const (
	// ModalityGreen bills a single contracted demand and time-of-use energy.
	ModalityGreen Modality = "green"
	// ModalityBlue bills peak and off-peak demand separately.
	ModalityBlue Modality = "blue"
)

// Schedule holds the distributor rates before taxes. Energy rates are TE+TUSD in
// R$/kWh, demand rates are R$/kW per month.
type Schedule struct {
	Modality          Modality `json:"modality"`
	PeakEnergyRate    float64  `json:"peakEnergyRate"`
	OffPeakEnergyRate float64  `json:"offPeakEnergyRate"`
	DemandRate        float64  `json:"demandRate,omitempty"`
	PeakDemandRate    float64  `json:"peakDemandRate,omitempty"`
	OffPeakDemandRate float64  `json:"offPeakDemandRate,omitempty"`
}

// Validate checks the schedule is internally consistent.
func (s Schedule) Validate() error {
	switch s.Modality {
	case ModalityGreen, ModalityBlue:
	default:
		return fmt.Errorf("unknown tariff modality %q", s.Modality)
	}
	for name, v := range map[string]float64{
		"peakEnergyRate":    s.PeakEnergyRate,
		"offPeakEnergyRate": s.OffPeakEnergyRate,
		"demandRate":        s.DemandRate,
		"peakDemandRate":    s.PeakDemandRate,
		"offPeakDemandRate": s.OffPeakDemandRate,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}
	return nil
}

// ParseModality accepts the English and Portuguese names.
func ParseModality(v string) (Modality, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "green", "verde":
		return ModalityGreen, nil
	case "blue", "azul":
		return ModalityBlue, nil
	default:
		return "", fmt.Errorf("unknown tariff modality %q", v)
	}
}

// Breakdown is the monthly bill split by component, in R$.
type Breakdown struct {
	Modality          Modality `json:"modality"`
	EnergyPeakCost    float64  `json:"energyPeakCost"`
	EnergyOffPeakCost float64  `json:"energyOffPeakCost"`
	DemandCost        float64  `json:"demandCost"`
	NetTotal          float64  `json:"netTotal"`
	TaxRate           float64  `json:"taxRate"`
	Taxes             float64  `json:"taxes"`
	GrossTotal        float64  `json:"grossTotal"`
}

// Decompose prices one month of the summarized curve. Taxes are applied "por
// dentro": they are part of their own base, so gross = net / (1 - rate).
func Decompose(summary loadcurve.Summary, schedule Schedule, taxRate float64) (Breakdown, error) {
	if err := schedule.Validate(); err != nil {
		return Breakdown{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid tariff schedule", err)
	}
	if math.IsNaN(taxRate) || taxRate < 0 || taxRate >= 1 {
		return Breakdown{}, apperrors.Wrap(apperrors.CodeInvalidInput, "tax rate must be within [0, 1)", nil)
	}

	b := Breakdown{
		Modality:          schedule.Modality,
		EnergyPeakCost:    summary.EnergyPeakKWh * loadcurve.DaysPerMonth * schedule.PeakEnergyRate,
		EnergyOffPeakCost: summary.EnergyOffPeakKWh * loadcurve.DaysPerMonth * schedule.OffPeakEnergyRate,
		TaxRate:           taxRate,
	}
	switch schedule.Modality {
	case ModalityGreen:
		b.DemandCost = summary.PeakDemandKW * schedule.DemandRate
	case ModalityBlue:
		b.DemandCost = summary.PeakWindowDemandKW*schedule.PeakDemandRate + summary.OffPeakDemandKW*schedule.OffPeakDemandRate
	}
	b.NetTotal = b.EnergyPeakCost + b.EnergyOffPeakCost + b.DemandCost
	b.GrossTotal = b.NetTotal / (1 - taxRate)
	b.Taxes = b.GrossTotal - b.NetTotal
	return b, nil
}
