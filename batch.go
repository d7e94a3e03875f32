package pipe80

import (
	"fmt"
	"iter"
	"slices"
)

// Batch executes the pipeline against the supplied input records using the
// batch strategy and materializes the output. Input records are only
// consulted when the source stage is CONSOLE.
func (p Pipeline) Batch(input []Record) ([]Record, error) {
	var out []Record
	for r, err := range p.BatchSeq(slices.Values(input)) {
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// BatchSeq composes the pipeline as nested lazy transformations over the
// input sequence: one pull-based pass, with each stage pulling from the one
// before it. Stream-consuming stages (COUNT) drain their upstream before
// emitting; truncating stages (TAKE) stop pulling as soon as their limit is
// reached, so only as many input records are consumed as downstream demand
// requires.
func (p Pipeline) BatchSeq(input iter.Seq[Record]) iter.Seq2[Record, error] {
	if len(p.Stages) < 2 {
		return func(yield func(Record, error) bool) {
			yield(Record{}, fmt.Errorf("pipeline must have at least 2 stages"))
		}
	}

	seq := p.sourceSeq(input)
	for _, cmd := range p.Stages[1:] {
		seq = stageSeq(newStage(cmd), seq)
	}
	return seq
}

// sourceSeq yields the records the source stage produces: the supplied
// input for CONSOLE, one synthesized record for LITERAL, nothing for HOLE.
func (p Pipeline) sourceSeq(input iter.Seq[Record]) iter.Seq2[Record, error] {
	src := p.Stages[0]
	return func(yield func(Record, error) bool) {
		switch src.Kind {
		case KindLiteral:
			yield(FromText(src.Text), nil)
		case KindHole:
		default: // CONSOLE
			for r := range input {
				if !yield(r, nil) {
					return
				}
			}
		}
	}
}

// stageSeq wraps one stage instance around its upstream sequence. The
// stage's Done signal short-circuits the upstream pull, and its Flush
// output is appended once the upstream is exhausted.
func stageSeq(st stage, upstream iter.Seq2[Record, error]) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if !st.Done() {
			for r, err := range upstream {
				if err != nil {
					yield(Record{}, err)
					return
				}

				outs, err := st.Process(r)
				if err != nil {
					yield(Record{}, fmt.Errorf("stage %s: %w", st.Name(), err))
					return
				}
				for _, out := range outs {
					if !yield(out, nil) {
						return
					}
				}

				if st.Done() {
					break
				}
			}
		}

		outs, err := st.Flush()
		if err != nil {
			yield(Record{}, fmt.Errorf("stage %s: %w", st.Name(), err))
			return
		}
		for _, out := range outs {
			if !yield(out, nil) {
				return
			}
		}
	}
}
