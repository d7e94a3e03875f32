package pipe80

import (
	"strings"

	"github.com/google/uuid"
)

// Mode selects the execution strategy for a pipeline run. Both strategies
// honor the same stage semantics and produce byte-identical output; they
// differ only in scheduling.
type Mode int

const (
	// ModeBatch composes the stages as one lazy pull-based pass over the
	// whole input sequence.
	ModeBatch Mode = iota
	// ModeRecord pushes one record at a time through the full stage chain,
	// with an explicit flush phase after the input ends.
	ModeRecord
)

// String returns the mode name used by drivers ("batch" or "record").
func (m Mode) String() string {
	if m == ModeRecord {
		return "record"
	}
	return "batch"
}

// Run executes the pipeline against the supplied input records with the
// chosen strategy.
func (p Pipeline) Run(input []Record, mode Mode) ([]Record, error) {
	if mode == ModeRecord {
		return p.RecordAtATime(input)
	}
	return p.Batch(input)
}

// ParseRecords converts line-oriented input text into records, one per
// non-empty line, each padded to the fixed width.
func ParseRecords(text string) []Record {
	var records []Record
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		records = append(records, FromText(line))
	}
	return records
}

// FormatRecords renders records as line-oriented output text with trailing
// padding removed, one record per line.
func FormatRecords(records []Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Text()
	}
	return strings.Join(lines, "\n")
}

// RunScript parses pipeline text and executes every block in order. Blocks
// run sequentially, each to completion before the next begins; a block's
// output becomes the input available to the next block's CONSOLE source,
// so chained specifications compose like chained pipes.
//
// The returned Result reports the record counts of the run: input is what
// the first block's source produced, output is what the final block
// emitted.
func RunScript(pipelineText, inputText string, mode Mode, opts ...RunOption) (*Result, error) {
	cfg := resolveRunConfig(opts)

	blocks, err := Parse(pipelineText)
	if err != nil {
		return nil, err
	}

	records := ParseRecords(inputText)
	inputCount := len(blocks[0].sourceRecords(records))

	for i, block := range blocks {
		if starter, ok := cfg.observer.(BlockStarter); ok {
			starter.BlockStart(i, block, len(block.sourceRecords(records)))
		}

		records, err = block.Run(records, mode)
		if err != nil {
			return nil, err
		}

		if stopper, ok := cfg.observer.(BlockStopper); ok {
			stopper.BlockDone(i, block, len(records))
		}
	}

	return &Result{
		RunID:       uuid.New(),
		Output:      FormatRecords(records),
		InputCount:  inputCount,
		OutputCount: len(records),
	}, nil
}
