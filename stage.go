package pipe80

import (
	"fmt"
	"strings"
)

// stage is one running instance of a pipeline stage. Both executors drive
// the same stage implementations and differ only in scheduling: the batch
// executor pulls lazily through nested sequences, the record-at-a-time
// executor pushes each record through the whole chain.
//
// Process consumes one input record and returns zero or more output
// records. Flush runs after all input is exhausted and returns anything the
// stage withheld (COUNT's summary, LITERAL's appended record). Done is the
// stop-requested signal: once a stage reports done it will never emit
// again, from Process or Flush, and executors stop supplying records.
type stage interface {
	Name() string
	Process(r Record) ([]Record, error)
	Flush() ([]Record, error)
	Done() bool
}

// noFlush is embedded by stages that buffer nothing.
type noFlush struct{}

func (noFlush) Flush() ([]Record, error) { return nil, nil }

// neverDone is embedded by stages that never request early termination.
type neverDone struct{}

func (neverDone) Done() bool { return false }

// newStage builds a fresh stage instance for one pipeline run. Stage state
// (TAKE's counter, COUNT's total) belongs to a single run and is never
// shared across runs.
func newStage(cmd Command) stage {
	switch cmd.Kind {
	case KindConsole:
		return &consoleStage{}
	case KindFilterEq:
		return &filterStage{pos: cmd.Pos, length: cmd.Len, value: cmd.Value}
	case KindFilterNe:
		return &filterStage{pos: cmd.Pos, length: cmd.Len, value: cmd.Value, negate: true}
	case KindSelect:
		return &selectStage{fields: cmd.Fields}
	case KindTake:
		return &takeStage{n: cmd.N}
	case KindSkip:
		return &skipStage{n: cmd.N}
	case KindLocate:
		return &locateStage{pattern: cmd.Pattern, pos: cmd.Pos, length: cmd.Len, hasField: cmd.HasField}
	case KindNlocate:
		return &locateStage{pattern: cmd.Pattern, pos: cmd.Pos, length: cmd.Len, hasField: cmd.HasField, negate: true}
	case KindCount:
		return &countStage{}
	case KindChange:
		return &changeStage{old: cmd.Old, repl: cmd.New}
	case KindLiteral:
		return &literalStage{text: cmd.Text}
	case KindUpper:
		return &mapStage{name: "UPPER", fn: strings.ToUpper}
	case KindLower:
		return &mapStage{name: "LOWER", fn: strings.ToLower}
	case KindReverse:
		return &reverseStage{}
	case KindDuplicate:
		return &duplicateStage{n: cmd.N}
	case KindHole:
		return &holeStage{}
	default:
		panic(fmt.Sprintf("pipe80: no stage for kind %d", cmd.Kind))
	}
}

// consoleStage passes records through unchanged. As the first stage it
// marks where the supplied input enters; as the last it marks the sink.
type consoleStage struct {
	noFlush
	neverDone
}

func (*consoleStage) Name() string { return "CONSOLE" }

func (*consoleStage) Process(r Record) ([]Record, error) {
	return []Record{r}, nil
}

// filterStage keeps records whose field equals the value, or the
// complement when negated.
type filterStage struct {
	noFlush
	neverDone
	pos    int
	length int
	value  string
	negate bool
}

func (*filterStage) Name() string { return "FILTER" }

func (s *filterStage) Process(r Record) ([]Record, error) {
	eq, err := r.FieldEq(s.pos, s.length, s.value)
	if err != nil {
		return nil, err
	}
	if eq != s.negate {
		return []Record{r}, nil
	}
	return nil, nil
}

// selectStage builds a blank record and copies each src,len field to its
// destination in list order, so overlapping destinations resolve to the
// later triple.
type selectStage struct {
	noFlush
	neverDone
	fields []FieldSpec
}

func (*selectStage) Name() string { return "SELECT" }

func (s *selectStage) Process(r Record) ([]Record, error) {
	out := FromText("")
	for _, f := range s.fields {
		val, err := r.Field(f.Src, f.Len)
		if err != nil {
			return nil, err
		}
		out, err = out.WithField(f.Dest, f.Len, val)
		if err != nil {
			return nil, err
		}
	}
	return []Record{out}, nil
}

// takeStage emits the first n records, then requests termination.
type takeStage struct {
	noFlush
	n    int
	seen int
}

func (*takeStage) Name() string { return "TAKE" }

func (s *takeStage) Process(r Record) ([]Record, error) {
	if s.seen >= s.n {
		return nil, nil
	}
	s.seen++
	return []Record{r}, nil
}

func (s *takeStage) Done() bool { return s.seen >= s.n }

// skipStage drops the first n records and passes the rest.
type skipStage struct {
	noFlush
	neverDone
	n    int
	seen int
}

func (*skipStage) Name() string { return "SKIP" }

func (s *skipStage) Process(r Record) ([]Record, error) {
	if s.seen < s.n {
		s.seen++
		return nil, nil
	}
	return []Record{r}, nil
}

// locateStage keeps records containing the pattern, restricted to a field
// window when one was given; negated it keeps the non-matches.
type locateStage struct {
	noFlush
	neverDone
	pattern  string
	pos      int
	length   int
	hasField bool
	negate   bool
}

func (s *locateStage) Name() string {
	if s.negate {
		return "NLOCATE"
	}
	return "LOCATE"
}

func (s *locateStage) Process(r Record) ([]Record, error) {
	var matches bool
	if s.hasField {
		var err error
		matches, err = r.FieldContains(s.pos, s.length, s.pattern)
		if err != nil {
			return nil, err
		}
	} else {
		matches = r.Contains(s.pattern)
	}
	if matches != s.negate {
		return []Record{r}, nil
	}
	return nil, nil
}

// countStage consumes the whole stream and emits one COUNT=n summary on
// flush.
type countStage struct {
	neverDone
	count int
}

func (*countStage) Name() string { return "COUNT" }

func (s *countStage) Process(Record) ([]Record, error) {
	s.count++
	return nil, nil
}

func (s *countStage) Flush() ([]Record, error) {
	return []Record{FromText(fmt.Sprintf("COUNT=%d", s.count))}, nil
}

// changeStage replaces every occurrence of old with the replacement across
// the full record text, padding included; the result is re-padded or
// truncated back to the fixed width.
type changeStage struct {
	noFlush
	neverDone
	old  string
	repl string
}

func (*changeStage) Name() string { return "CHANGE" }

func (s *changeStage) Process(r Record) ([]Record, error) {
	return []Record{FromText(strings.ReplaceAll(r.String(), s.old, s.repl))}, nil
}

// literalStage passes input through and appends its synthesized record once
// the stream ends. With no input at all, the flush still emits it.
type literalStage struct {
	neverDone
	text    string
	emitted bool
}

func (*literalStage) Name() string { return "LITERAL" }

func (s *literalStage) Process(r Record) ([]Record, error) {
	return []Record{r}, nil
}

func (s *literalStage) Flush() ([]Record, error) {
	if s.emitted {
		return nil, nil
	}
	s.emitted = true
	return []Record{FromText(s.text)}, nil
}

// mapStage applies a whole-record text transform (UPPER, LOWER).
type mapStage struct {
	noFlush
	neverDone
	name string
	fn   func(string) string
}

func (s *mapStage) Name() string { return s.name }

func (s *mapStage) Process(r Record) ([]Record, error) {
	return []Record{FromText(s.fn(r.String()))}, nil
}

// reverseStage reverses the record's characters. Trailing padding is
// trimmed first so the content does not end up right-aligned.
type reverseStage struct {
	noFlush
	neverDone
}

func (*reverseStage) Name() string { return "REVERSE" }

func (*reverseStage) Process(r Record) ([]Record, error) {
	runes := []rune(r.Text())
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return []Record{FromText(string(runes))}, nil
}

// duplicateStage emits n consecutive copies of each record.
type duplicateStage struct {
	noFlush
	neverDone
	n int
}

func (*duplicateStage) Name() string { return "DUPLICATE" }

func (s *duplicateStage) Process(r Record) ([]Record, error) {
	out := make([]Record, s.n)
	for i := range out {
		out[i] = r
	}
	return out, nil
}

// holeStage discards everything.
type holeStage struct {
	noFlush
	neverDone
}

func (*holeStage) Name() string { return "HOLE" }

func (*holeStage) Process(Record) ([]Record, error) {
	return nil, nil
}
