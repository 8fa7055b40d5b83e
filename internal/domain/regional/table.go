package regional

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

// State carries the static regional inputs of one federative unit.
type State struct {
	Code                string  `json:"code" yaml:"code"`
	Name                string  `json:"name" yaml:"name"`
	Latitude            float64 `json:"latitude" yaml:"latitude"`
	Longitude           float64 `json:"longitude" yaml:"longitude"`
	ICMS                float64 `json:"icms" yaml:"icms"`
	PISCOFINS           float64 `json:"pisCofins" yaml:"pisCofins"`
	IrradiationKWhM2Day float64 `json:"irradiationKwhM2Day" yaml:"irradiationKwhM2Day"`
}

// TotalTax is the combined ICMS and PIS/COFINS rate applied to the bill.
func (s State) TotalTax() float64 {
	return s.ICMS + s.PISCOFINS
}

// Table is an immutable lookup of states by UF code or name.
type Table struct {
	byKey  map[string]State
	sorted []State
}

// NewTable indexes the given states. Codes must be unique and rates within [0,1).
func NewTable(states ...State) (*Table, error) {
	t := &Table{byKey: make(map[string]State, len(states)*2)}
	for _, s := range states {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		if code == "" || strings.TrimSpace(s.Name) == "" {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "state requires code and name", nil)
		}
		if _, exists := t.byKey[normalizeKey(code)]; exists {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("duplicate state code %q", code), nil)
		}
		if s.ICMS < 0 || s.PISCOFINS < 0 || s.TotalTax() >= 1 {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("state %s: tax rates must be non-negative and sum below 1", code), nil)
		}
		s.Code = code
		t.byKey[normalizeKey(code)] = s
		t.byKey[normalizeKey(s.Name)] = s
		t.sorted = append(t.sorted, s)
	}
	sort.Slice(t.sorted, func(i, j int) bool { return t.sorted[i].Name < t.sorted[j].Name })
	return t, nil
}

// Lookup finds a state by code ("BA") or name ("Bahia"), ignoring case.
func (t *Table) Lookup(key string) (State, bool) {
	s, ok := t.byKey[normalizeKey(key)]
	return s, ok
}

// States returns the table ordered by name.
func (t *Table) States() []State {
	out := make([]State, len(t.sorted))
	copy(out, t.sorted)
	return out
}

// Len is the number of states.
func (t *Table) Len() int { return len(t.sorted) }

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// NortheastStates returns the nine northeastern states with 2025 modal ICMS,
// average PIS/COFINS and capital city GHI.
func NortheastStates() []State {
	return []State{
		{Code: "AL", Name: "Alagoas", Latitude: -9.66625, Longitude: -35.7351, ICMS: 0.19, PISCOFINS: 0.0925, IrradiationKWhM2Day: 5.45},
		{Code: "BA", Name: "Bahia", Latitude: -12.9704, Longitude: -38.5124, ICMS: 0.205, PISCOFINS: 0.0925, IrradiationKWhM2Day: 5.80},
		{Code: "CE", Name: "Ceará", Latitude: -3.71722, Longitude: -38.5434, ICMS: 0.20, PISCOFINS: 0.0925, IrradiationKWhM2Day: 5.90},
		{Code: "MA", Name: "Maranhão", Latitude: -2.53073, Longitude: -44.3068, ICMS: 0.23, PISCOFINS: 0.0925, IrradiationKWhM2Day: 5.20},
		{Code: "PB", Name: "Paraíba", Latitude: -7.11532, Longitude: -34.861, ICMS: 0.20, PISCOFINS: 0.0925, IrradiationKWhM2Day: 5.90},
		{Code: "PE", Name: "Pernambuco", Latitude: -8.05428, Longitude: -34.8813, ICMS: 0.205, PISCOFINS: 0.0925, IrradiationKWhM2Day: 5.70},
		{Code: "PI", Name: "Piauí", Latitude: -5.08921, Longitude: -42.8016, ICMS: 0.225, PISCOFINS: 0.0925, IrradiationKWhM2Day: 5.85},
		{Code: "RN", Name: "Rio Grande do Norte", Latitude: -5.79448, Longitude: -35.211, ICMS: 0.20, PISCOFINS: 0.0925, IrradiationKWhM2Day: 6.10},
		{Code: "SE", Name: "Sergipe", Latitude: -10.9472, Longitude: -37.0731, ICMS: 0.19, PISCOFINS: 0.0925, IrradiationKWhM2Day: 5.40},
	}
}

// DefaultTable indexes NortheastStates.
func DefaultTable() *Table {
	t, err := NewTable(NortheastStates()...)
	if err != nil {
		panic(err)
	}
	return t
}
