// Package pipe80 is an interpreter for a mainframe-style record pipeline
// DSL over fixed-width 80-byte records.
//
// A pipeline specification names a source, a sequence of transformation
// stages, and a sink, in the style of CMS Pipelines:
//
//	PIPE CONSOLE
//	| FILTER 18,10 = "SALES"
//	| SELECT 0,8,0; 28,8,8
//	| CONSOLE
//	?
//
// Records are immutable fixed-width lines (see [Record] and [Width]):
// shorter input is right-padded with spaces, longer input is truncated.
// Column position is the addressing scheme, so stages take (position,
// length) field windows rather than delimiters.
//
// # Parsing and execution
//
// [Parse] converts DSL text into one [Pipeline] per `?`-separated block,
// validating every stage argument up front: a malformed line fails the
// whole parse with a [ParseError] naming the line, and field ranges are
// checked against the record width so execution never sees an invalid
// descriptor.
//
// A parsed pipeline runs under one of two interchangeable strategies:
//
//   - [Pipeline.Batch] composes the stages as nested lazy sequences and
//     makes one pull-based pass over the input.
//   - [Pipeline.RecordAtATime] pushes each record through the whole chain
//     before admitting the next, then runs a flush phase for stages that
//     buffer (COUNT's summary, LITERAL's appended record).
//
// The two strategies share the per-stage semantics and differ only in
// scheduling; for every valid pipeline and input they produce
// byte-identical output. [RunScript] is the text-in, text-out entry point
// drivers use, executing chained blocks sequentially.
//
// # Quick start
//
//	blocks, err := pipe80.Parse(`PIPE CONSOLE
//	| LOCATE "SALES"
//	| COUNT
//	| CONSOLE
//	?`)
//	if err != nil {
//	    return err
//	}
//
//	out, err := blocks[0].Run(pipe80.ParseRecords(input), pipe80.ModeBatch)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pipe80.FormatRecords(out))
//
// The core is single-threaded and silent: it never logs, prints, or reads
// the environment, and all failures come back as error values
// ([ParseError], [FieldRangeError], or wrapped execution errors) for the
// driver to present.
package pipe80
