package output_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mycelium/graph"
	"github.com/viant/mycelium/output"
)

func TestMarshal_PhaseTimingsInSecondsNotMs(t *testing.T) {
	result := graph.AnalysisResult{
		Version: "0.1.0",
		Metadata: graph.Metadata{
			PhaseTimings: []graph.PhaseTiming{{Phase: "structure", Ms: 1500}},
		},
	}
	data, err := output.Marshal(result)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	metadata := doc["metadata"].(map[string]interface{})
	timings := metadata["phase_timings"].(map[string]interface{})
	assert.Equal(t, 1.5, timings["structure"])
}

func TestMarshal_RoundsConfidenceToThreeDecimals(t *testing.T) {
	result := graph.AnalysisResult{
		Calls: []graph.CallEdge{{FromSymbol: "sym_0001", ToSymbol: "sym_0002", Confidence: 0.123456, Tier: "same-file"}},
	}
	data, err := output.Marshal(result)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	calls := doc["calls"].([]interface{})
	require.Len(t, calls, 1)
	call := calls[0].(map[string]interface{})
	assert.Equal(t, 0.123, call["confidence"])
}

func TestMarshal_EmptyResultProducesValidDocument(t *testing.T) {
	data, err := output.Marshal(graph.AnalysisResult{})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"version", "metadata", "stats", "structure", "symbols", "imports", "calls", "communities", "processes"} {
		_, ok := doc[key]
		assert.True(t, ok, "missing top-level key %q", key)
	}
}
