package pipe80_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sw-comp-history/pipe80"
)

type blockEvent struct {
	kind  string
	index int
	count int
}

type recordingObserver struct {
	events []blockEvent
}

func (o *recordingObserver) BlockStart(index int, block pipe80.Pipeline, inputCount int) {
	o.events = append(o.events, blockEvent{kind: "start", index: index, count: inputCount})
}

func (o *recordingObserver) BlockDone(index int, block pipe80.Pipeline, outputCount int) {
	o.events = append(o.events, blockEvent{kind: "done", index: index, count: outputCount})
}

func TestRunScript_ObserverSeesEveryBlock(t *testing.T) {
	obs := &recordingObserver{}

	result, err := pipe80.RunScript(`PIPE CONSOLE
| FILTER 18,10 = "SALES"
| CONSOLE
?
PIPE CONSOLE
| COUNT
| CONSOLE
?`, employees, pipe80.ModeBatch, pipe80.WithObserver(obs))
	require.NoError(t, err)
	require.Equal(t, "COUNT=2", result.Output)

	require.Equal(t, []blockEvent{
		{kind: "start", index: 0, count: 3},
		{kind: "done", index: 0, count: 2},
		{kind: "start", index: 1, count: 2},
		{kind: "done", index: 1, count: 1},
	}, obs.events)
}

// startOnlyObserver implements only the start capability.
type startOnlyObserver struct {
	starts int
}

func (o *startOnlyObserver) BlockStart(index int, block pipe80.Pipeline, inputCount int) {
	o.starts++
}

func TestRunScript_PartialObserver(t *testing.T) {
	obs := &startOnlyObserver{}

	_, err := pipe80.RunScript("PIPE CONSOLE\n| UPPER\n| CONSOLE\n?", "abc", pipe80.ModeRecord, pipe80.WithObserver(obs))
	require.NoError(t, err)
	require.Equal(t, 1, obs.starts)
}

func TestRunScript_NoObserver(t *testing.T) {
	_, err := pipe80.RunScript("PIPE CONSOLE\n| UPPER\n| CONSOLE\n?", "abc", pipe80.ModeBatch)
	require.NoError(t, err)
}
