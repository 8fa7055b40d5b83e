package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/viability"
)

func TestCurveCommandJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"curve", "--consumption", "15000", "--peak-share", "15", "--json"})
	require.NoError(t, cmd.Execute())

	var resp loadcurve.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, loadcurve.ProfileResidential, resp.Profile)
	require.InDelta(t, 26.41, resp.Curve[18].DemandKW, 0.01)
}

func TestCurveCommandTable(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"curve", "-c", "9000", "-p", "commercial", "--peak-hours", "17,18,19"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Load curve (commercial)")
	require.Contains(t, out.String(), "peak")
}

func TestCurveCommandRejectsBadInput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"curve", "--consumption", "50"})
	require.Error(t, cmd.Execute())

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"curve", "--consumption", "5000", "--peak-hours", "25"})
	require.Error(t, cmd.Execute())
}

func TestRegionsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"regions"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Pernambuco")
	require.Contains(t, out.String(), "Sergipe")
}

func TestViabilityCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"viability", "-i", "1000", "--annual", "300", "--years", "5", "--json"})
	require.NoError(t, cmd.Execute())

	var result viability.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.InDelta(t, 137.24, result.NPV, 0.01)
	require.NotNil(t, result.SimplePaybackYears)
	require.Equal(t, 4, *result.SimplePaybackYears)

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"viability", "-i", "1000", "--cash-flow", "600", "--cash-flow", "600", "--rate", "0"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "2 years")
}

func TestViabilityCommandNeedsFlows(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"viability", "-i", "1000"})
	require.Error(t, cmd.Execute())
}
