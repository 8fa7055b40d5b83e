package loadcurve

import "gonum.org/v1/gonum/floats"

// Summarize reduces a curve to its peak figures and per-period energy.
// Ties on the maximum resolve to the earliest hour. PeakWindowHour is -1 when
// no curve hour falls inside the window.
func Summarize(curve Curve, window PeakWindow) Summary {
	if len(curve) == 0 {
		return Summary{PeakWindowHour: -1}
	}
	values := curve.Values()
	idx := floats.MaxIdx(values)

	s := Summary{
		PeakDemandKW:   values[idx],
		PeakHour:       curve[idx].Hour,
		DailyEnergyKWh: floats.Sum(values),
	}
	s.PeakWindowHour = -1
	for _, p := range curve {
		// Each point holds for one hour, so kW equals kWh.
		if window.Contains(p.Hour) {
			s.EnergyPeakKWh += p.DemandKW
			if s.PeakWindowHour < 0 || p.DemandKW > s.PeakWindowDemandKW {
				s.PeakWindowDemandKW = p.DemandKW
				s.PeakWindowHour = p.Hour
			}
			continue
		}
		s.EnergyOffPeakKWh += p.DemandKW
		if p.DemandKW > s.OffPeakDemandKW {
			s.OffPeakDemandKW = p.DemandKW
		}
	}
	if s.PeakDemandKW > 0 {
		s.LoadFactor = (s.DailyEnergyKWh / float64(len(curve))) / s.PeakDemandKW
	}
	return s
}
