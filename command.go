package pipe80

// Kind identifies a pipeline stage verb. The verb set is closed: adding a
// verb means adding a Kind, a parser arm, and a stage implementation, and
// the exhaustive switches in stage.go catch a missing case at build time.
type Kind int

const (
	// KindConsole reads supplied input when first, passes records through
	// in the middle, and marks the sink when last.
	KindConsole Kind = iota
	// KindFilterEq keeps records whose field equals the value.
	KindFilterEq
	// KindFilterNe keeps records whose field does not equal the value.
	KindFilterNe
	// KindSelect builds a blank record and copies fields into it.
	KindSelect
	// KindTake emits at most the first n records.
	KindTake
	// KindSkip drops the first n records.
	KindSkip
	// KindLocate keeps records containing a pattern.
	KindLocate
	// KindNlocate keeps records not containing a pattern.
	KindNlocate
	// KindCount consumes the stream and emits one COUNT=n summary record.
	KindCount
	// KindChange replaces every occurrence of one string with another.
	KindChange
	// KindLiteral appends one synthesized record to the stream.
	KindLiteral
	// KindUpper uppercases each record.
	KindUpper
	// KindLower lowercases each record.
	KindLower
	// KindReverse reverses the characters of each record.
	KindReverse
	// KindDuplicate emits n consecutive copies of each record.
	KindDuplicate
	// KindHole discards everything, like /dev/null.
	KindHole
)

// FieldSpec is one src,len,dest triple of a SELECT stage. Triples are
// applied in list order; later destinations may overwrite earlier ones.
type FieldSpec struct {
	Src  int
	Len  int
	Dest int
}

// Command is a parsed stage descriptor: a tagged variant over Kind, with
// the fields relevant to that kind populated. All positions, lengths, and
// counts are validated by the parser, so executors never receive a
// structurally invalid descriptor.
type Command struct {
	Kind Kind

	// FILTER, and the optional field restriction of LOCATE/NLOCATE.
	Pos      int
	Len      int
	HasField bool

	// FILTER comparison value.
	Value string

	// SELECT layout.
	Fields []FieldSpec

	// TAKE, SKIP, DUPLICATE.
	N int

	// LOCATE / NLOCATE.
	Pattern string

	// CHANGE.
	Old string
	New string

	// LITERAL.
	Text string
}

// Name returns the verb name for error messages and traces.
func (c Command) Name() string {
	switch c.Kind {
	case KindConsole:
		return "CONSOLE"
	case KindFilterEq, KindFilterNe:
		return "FILTER"
	case KindSelect:
		return "SELECT"
	case KindTake:
		return "TAKE"
	case KindSkip:
		return "SKIP"
	case KindLocate:
		return "LOCATE"
	case KindNlocate:
		return "NLOCATE"
	case KindCount:
		return "COUNT"
	case KindChange:
		return "CHANGE"
	case KindLiteral:
		return "LITERAL"
	case KindUpper:
		return "UPPER"
	case KindLower:
		return "LOWER"
	case KindReverse:
		return "REVERSE"
	case KindDuplicate:
		return "DUPLICATE"
	case KindHole:
		return "HOLE"
	default:
		return "UNKNOWN"
	}
}

// canBeFirst reports whether the stage can open a pipeline block. Sources
// generate or read records without upstream input: CONSOLE reads the
// supplied input, LITERAL synthesizes one record, HOLE yields an empty
// stream.
func (c Command) canBeFirst() bool {
	switch c.Kind {
	case KindConsole, KindLiteral, KindHole:
		return true
	default:
		return false
	}
}

// Pipeline is one parsed pipeline block: an ordered stage sequence whose
// first element is a source and whose last element is the sink position.
// The parser guarantees at least two stages.
type Pipeline struct {
	Stages []Command
}
