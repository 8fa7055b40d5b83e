package loadcurve

import (
	"fmt"

	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

// PeakWindow is the set of hours billed at the peak ("ponta") rate.
// The zero value is empty and rejected by Reconcile.
type PeakWindow struct {
	hours [HoursPerDay]bool
	count int
}

// DefaultPeakWindow returns the 18h-20h window used by the northeastern distributors.
func DefaultPeakWindow() PeakWindow {
	w, _ := NewPeakWindow(18, 19, 20)
	return w
}

// NewPeakWindow builds a window from hour indices. Duplicates collapse.
func NewPeakWindow(hours ...int) (PeakWindow, error) {
	var w PeakWindow
	for _, h := range hours {
		if h < 0 || h >= HoursPerDay {
			return PeakWindow{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("peak hour %d outside 0-23", h), ErrInvalidInput)
		}
		if !w.hours[h] {
			w.hours[h] = true
			w.count++
		}
	}
	if err := w.validate(); err != nil {
		return PeakWindow{}, err
	}
	return w, nil
}

// Contains reports whether hour h is billed as peak.
func (w PeakWindow) Contains(h int) bool {
	if h < 0 || h >= HoursPerDay {
		return false
	}
	return w.hours[h]
}

// Hours lists the peak hours ascending.
func (w PeakWindow) Hours() []int {
	out := make([]int, 0, w.count)
	for h, peak := range w.hours {
		if peak {
			out = append(out, h)
		}
	}
	return out
}

// Len is the number of peak hours.
func (w PeakWindow) Len() int { return w.count }

func (w PeakWindow) validate() error {
	if w.count == 0 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "peak window must contain at least one hour", ErrInvalidInput)
	}
	if w.count == HoursPerDay {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "peak window cannot cover the whole day", ErrInvalidInput)
	}
	return nil
}
