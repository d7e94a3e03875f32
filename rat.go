package pipe80

import "fmt"

// RecordAtATime executes the pipeline by pushing each input record through
// the entire stage chain before admitting the next, modeling true
// streaming mainframe pipe behavior. After the input is exhausted, a flush
// phase runs over the stages in order, with each stage's flush output
// propagated through the stages after it; this is where COUNT emits its
// summary and LITERAL appends its record.
//
// Early-terminating stages signal through Done: once any stage in the
// chain reports done, nothing it withheld can ever reach the sink, so the
// stop request propagates backward and no further input is admitted.
//
// For every valid pipeline and input this produces byte-identical output
// to Batch.
func (p Pipeline) RecordAtATime(input []Record) ([]Record, error) {
	if len(p.Stages) < 2 {
		return nil, fmt.Errorf("pipeline must have at least 2 stages")
	}

	stages := make([]stage, 0, len(p.Stages)-1)
	for _, cmd := range p.Stages[1:] {
		stages = append(stages, newStage(cmd))
	}

	var output []Record

	for _, rec := range p.sourceRecords(input) {
		if stopRequested(stages) {
			break
		}
		outs, err := pushThrough(stages, 0, rec)
		if err != nil {
			return nil, err
		}
		output = append(output, outs...)
	}

	// Flush phase: each stage gets to emit buffered output, which still has
	// to travel through the rest of the chain.
	for i, st := range stages {
		flushed, err := st.Flush()
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", st.Name(), err)
		}
		for _, rec := range flushed {
			outs, err := pushThrough(stages, i+1, rec)
			if err != nil {
				return nil, err
			}
			output = append(output, outs...)
		}
	}

	return output, nil
}

// sourceRecords materializes the records the source stage produces.
func (p Pipeline) sourceRecords(input []Record) []Record {
	switch src := p.Stages[0]; src.Kind {
	case KindLiteral:
		return []Record{FromText(src.Text)}
	case KindHole:
		return nil
	default: // CONSOLE
		return input
	}
}

// pushThrough pushes one record through stages[from:], fanning out through
// each stage in turn.
func pushThrough(stages []stage, from int, rec Record) ([]Record, error) {
	current := []Record{rec}
	for _, st := range stages[from:] {
		var next []Record
		for _, r := range current {
			outs, err := st.Process(r)
			if err != nil {
				return nil, fmt.Errorf("stage %s: %w", st.Name(), err)
			}
			next = append(next, outs...)
		}
		current = next
	}
	return current, nil
}

// stopRequested reports whether any stage has requested early termination.
// A done stage emits nothing ever again, so every later record's path to
// the sink is blocked and the source can stop supplying input.
func stopRequested(stages []stage) bool {
	for _, st := range stages {
		if st.Done() {
			return true
		}
	}
	return false
}
