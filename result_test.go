package pipe80_test

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sw-comp-history/pipe80"
)

func TestRunScript_Counts(t *testing.T) {
	result, err := pipe80.RunScript(`PIPE CONSOLE
| FILTER 18,10 = "SALES"
| CONSOLE
?`, employees, pipe80.ModeBatch)
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, result.RunID)
	require.Equal(t, 3, result.InputCount)
	require.Equal(t, 2, result.OutputCount)
}

func TestRunScript_Counts_LiteralSource(t *testing.T) {
	// A LITERAL source synthesizes exactly one record; supplied input text
	// is not consumed.
	result, err := pipe80.RunScript(`PIPE LITERAL "HELLO"
| DUPLICATE 2
| CONSOLE
?`, employees, pipe80.ModeBatch)
	require.NoError(t, err)

	require.Equal(t, 1, result.InputCount)
	require.Equal(t, 2, result.OutputCount)
	require.Equal(t, "HELLO\nHELLO", result.Output)
}

func TestRunScript_Counts_HoleSource(t *testing.T) {
	result, err := pipe80.RunScript(`PIPE HOLE
| COUNT
| CONSOLE
?`, employees, pipe80.ModeRecord)
	require.NoError(t, err)

	require.Equal(t, 0, result.InputCount)
	require.Equal(t, 1, result.OutputCount)
	require.Equal(t, "COUNT=0", result.Output)
}

func TestResult_JSONRoundTrip(t *testing.T) {
	original := &pipe80.Result{
		RunID:       uuid.New(),
		Output:      "SMITH   00050000\nDOE     00060000",
		InputCount:  3,
		OutputCount: 2,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	require.Contains(t, string(data), `"input_records":3`)

	var decoded pipe80.Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, original, &decoded)
}

func TestResult_UnmarshalRejectsBadRunID(t *testing.T) {
	var decoded pipe80.Result
	err := json.Unmarshal([]byte(`{"run_id":"not-a-uuid","output":"","input_records":0,"output_records":0}`), &decoded)
	require.Error(t, err)
}

func TestResult_LogValue(t *testing.T) {
	result := &pipe80.Result{RunID: uuid.New(), InputCount: 5, OutputCount: 2}

	var _ slog.LogValuer = result
	value := result.LogValue()
	require.Equal(t, slog.KindGroup, value.Kind())

	attrs := map[string]slog.Value{}
	for _, a := range value.Group() {
		attrs[a.Key] = a.Value
	}
	require.Equal(t, result.RunID.String(), attrs["run_id"].String())
	require.Equal(t, int64(5), attrs["input_records"].Int64())
	require.Equal(t, int64(2), attrs["output_records"].Int64())
}
