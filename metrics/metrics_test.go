package metrics

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thevenin/reduce"
	"thevenin/types"
)

func TestObserve(t *testing.T) {
	c := NewCollector()
	c.Observe(&reduce.Result{Passes: 4}, nil)
	c.Observe(&reduce.Result{Passes: 2}, nil)
	c.Observe(nil, fmt.Errorf("pass 1: %w", types.ErrUnsupportedTopology))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Analyses.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Analyses.WithLabelValues("unsupported_topology")))

	count, err := testutil.GatherAndCount(c.Registry(), "circuit_reduction_passes")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expected := `
# HELP circuit_analyses_total Total number of circuit analyses by result
# TYPE circuit_analyses_total counter
circuit_analyses_total{result="ok"} 2
circuit_analyses_total{result="unsupported_topology"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "circuit_analyses_total"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "ok", Label(nil))
	assert.Equal(t, "no_resistance", Label(types.ErrNoResistance))
	assert.Equal(t, "empty", Label(types.ErrEmptyCircuit))
	assert.Equal(t, "source_placement", Label(fmt.Errorf("x: %w", types.ErrSourcePlacement)))
	assert.Equal(t, "error", Label(errors.New("boom")))
}
