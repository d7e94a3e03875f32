package pipe80

import (
	"fmt"

	"github.com/google/uuid"
)

// StageTrace captures one stage's activity during a traced batch run:
// how many records went in, how many came out, and the records themselves.
type StageTrace struct {
	Stage       string
	InputCount  int
	OutputCount int
	Inputs      []Record
	Outputs     []Record
}

// Trace is the stage-by-stage view of one traced batch run, used by
// drivers that visualize or step through pipeline execution. Index 0 is
// the source stage.
type Trace struct {
	RunID  uuid.UUID
	Stages []StageTrace
}

// TraceBatch executes the pipeline eagerly, stage by stage, capturing each
// stage's input and output records. Output is identical to Batch; the
// eager per-stage scheduling only exists so the full intermediate streams
// can be observed.
func (p Pipeline) TraceBatch(input []Record) ([]Record, *Trace, error) {
	if len(p.Stages) < 2 {
		return nil, nil, fmt.Errorf("pipeline must have at least 2 stages")
	}

	trace := &Trace{RunID: uuid.New()}

	current := p.sourceRecords(input)
	trace.Stages = append(trace.Stages, StageTrace{
		Stage:       p.Stages[0].Name(),
		OutputCount: len(current),
		Outputs:     current,
	})

	for _, cmd := range p.Stages[1:] {
		st := newStage(cmd)
		inputs := current

		outs, err := applyStage(st, current)
		if err != nil {
			return nil, nil, err
		}
		current = outs

		trace.Stages = append(trace.Stages, StageTrace{
			Stage:       st.Name(),
			InputCount:  len(inputs),
			OutputCount: len(current),
			Inputs:      inputs,
			Outputs:     current,
		})
	}

	return current, trace, nil
}

// applyStage drains records through a single stage instance, honoring its
// Done signal, and appends its flush output.
func applyStage(st stage, records []Record) ([]Record, error) {
	var out []Record
	for _, r := range records {
		if st.Done() {
			break
		}
		outs, err := st.Process(r)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", st.Name(), err)
		}
		out = append(out, outs...)
	}

	flushed, err := st.Flush()
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", st.Name(), err)
	}
	return append(out, flushed...), nil
}

// RecordTrace is one input record's journey through a record-at-a-time
// run. PipePoints[0] holds the record as admitted; PipePoints[i] holds
// whatever survived after stage i.
type RecordTrace struct {
	PipePoints [][]Record
}

// FlushTrace is the journey of one stage's flush output through the stages
// after it.
type FlushTrace struct {
	StageIndex int
	PipePoints [][]Record
}

// RatTrace is the full record-at-a-time execution trace: stage names, one
// RecordTrace per admitted input record, and one FlushTrace per stage that
// emitted on flush.
type RatTrace struct {
	RunID      uuid.UUID
	StageNames []string
	Records    []RecordTrace
	Flushes    []FlushTrace
}

// TraceRecordAtATime executes the pipeline record-at-a-time while
// capturing each record's pipe points. Output is identical to
// RecordAtATime.
func (p Pipeline) TraceRecordAtATime(input []Record) ([]Record, *RatTrace, error) {
	if len(p.Stages) < 2 {
		return nil, nil, fmt.Errorf("pipeline must have at least 2 stages")
	}

	stages := make([]stage, 0, len(p.Stages)-1)
	trace := &RatTrace{RunID: uuid.New()}
	for _, cmd := range p.Stages[1:] {
		st := newStage(cmd)
		stages = append(stages, st)
		trace.StageNames = append(trace.StageNames, st.Name())
	}

	var output []Record

	for _, rec := range p.sourceRecords(input) {
		if stopRequested(stages) {
			break
		}

		points := [][]Record{{rec}}
		current := []Record{rec}
		for _, st := range stages {
			var next []Record
			for _, r := range current {
				outs, err := st.Process(r)
				if err != nil {
					return nil, nil, fmt.Errorf("stage %s: %w", st.Name(), err)
				}
				next = append(next, outs...)
			}
			points = append(points, next)
			current = next
		}

		output = append(output, current...)
		trace.Records = append(trace.Records, RecordTrace{PipePoints: points})
	}

	for i, st := range stages {
		flushed, err := st.Flush()
		if err != nil {
			return nil, nil, fmt.Errorf("stage %s: %w", st.Name(), err)
		}
		if len(flushed) == 0 {
			continue
		}

		points := [][]Record{flushed}
		current := flushed
		for _, down := range stages[i+1:] {
			var next []Record
			for _, r := range current {
				outs, err := down.Process(r)
				if err != nil {
					return nil, nil, fmt.Errorf("stage %s: %w", down.Name(), err)
				}
				next = append(next, outs...)
			}
			points = append(points, next)
			current = next
		}

		output = append(output, current...)
		trace.Flushes = append(trace.Flushes, FlushTrace{StageIndex: i, PipePoints: points})
	}

	return output, trace, nil
}
