package pipe80

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports malformed pipeline text. Any malformed line fails the
// whole parse; partial pipelines are never returned for execution.
type ParseError struct {
	// Line is the 1-based line number of the offending line, or 0 when the
	// error is about the specification as a whole.
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts pipeline DSL text into one Pipeline per block.
//
// A block opens with `PIPE <source-stage>`, continues with `| <stage>`
// lines, and is terminated by a `?` marker, by the next `PIPE` line, or by
// end of input. Lines whose first non-blank character is `#` are comments;
// a `#` anywhere else is data. Blank lines are ignored. Verbs are
// case-insensitive; delimited string arguments follow the CMS convention
// where the first non-blank character is the delimiter (`"..."`, `/.../`,
// `....` are all valid).
//
// Every field position and length is validated against Width here, so a
// parsed Pipeline never fails range checks at execution time.
func Parse(text string) ([]Pipeline, error) {
	var blocks []Pipeline
	var current []Command
	blockLine := 0

	closeBlock := func() error {
		if len(current) == 0 {
			return nil
		}
		if len(current) < 2 {
			current = nil
			return &ParseError{Line: blockLine, Msg: "pipeline must have at least 2 stages"}
		}
		if first := current[0]; !first.canBeFirst() {
			current = nil
			return &ParseError{
				Line: blockLine,
				Msg:  fmt.Sprintf("%s cannot be the first stage (try CONSOLE, LITERAL, or HOLE)", first.Name()),
			}
		}
		blocks = append(blocks, Pipeline{Stages: current})
		current = nil
		return nil
	}

	for i, raw := range strings.Split(text, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// A fresh PIPE declaration terminates the previous block.
		upper := strings.ToUpper(line)
		if upper == "PIPE" {
			if err := closeBlock(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(upper, "PIPE ") {
			if err := closeBlock(); err != nil {
				return nil, err
			}
			line = strings.TrimSpace(line[5:])
		}

		// Continuation marker and legacy trailing pipe delimiter.
		if rest, ok := strings.CutPrefix(line, "|"); ok {
			line = strings.TrimSpace(rest)
		}
		line = strings.TrimSpace(strings.TrimRight(line, "|"))

		// Explicit end-of-block marker, standalone or trailing.
		endBlock := false
		if strings.HasSuffix(line, "?") {
			endBlock = true
			line = strings.TrimSpace(strings.TrimRight(line, "?"))
		}

		if line != "" {
			if len(current) == 0 {
				blockLine = lineNum
			}
			cmd, err := parseCommand(line)
			if err != nil {
				return nil, &ParseError{Line: lineNum, Msg: err.Error(), Err: err}
			}
			current = append(current, cmd)
		}

		if endBlock {
			if err := closeBlock(); err != nil {
				return nil, err
			}
		}
	}

	if err := closeBlock(); err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, &ParseError{Msg: "pipeline is empty"}
	}
	return blocks, nil
}

// parseCommand parses one stage line of the form `VERB arg1 arg2 ...`.
func parseCommand(line string) (Command, error) {
	verb := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		verb, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch strings.ToUpper(verb) {
	case "CONSOLE":
		return Command{Kind: KindConsole}, nil
	case "FILTER":
		return parseFilter(rest)
	case "SELECT":
		return parseSelect(rest)
	case "TAKE":
		n, err := parseCount("TAKE", rest, 0)
		return Command{Kind: KindTake, N: n}, err
	case "SKIP":
		n, err := parseCount("SKIP", rest, 0)
		return Command{Kind: KindSkip, N: n}, err
	case "LOCATE":
		return parseLocate("LOCATE", KindLocate, rest)
	case "NLOCATE":
		return parseLocate("NLOCATE", KindNlocate, rest)
	case "COUNT":
		return Command{Kind: KindCount}, nil
	case "CHANGE":
		return parseChange(rest)
	case "LITERAL":
		return parseLiteral(rest)
	case "UPPER":
		return Command{Kind: KindUpper}, nil
	case "LOWER":
		return Command{Kind: KindLower}, nil
	case "REVERSE":
		return Command{Kind: KindReverse}, nil
	case "DUPLICATE":
		n, err := parseCount("DUPLICATE", rest, 1)
		return Command{Kind: KindDuplicate, N: n}, err
	case "HOLE":
		return Command{Kind: KindHole}, nil
	default:
		return Command{}, fmt.Errorf("unknown command: %s", verb)
	}
}

// parseFilter parses `pos,len = "value"` or `pos,len != "value"`.
func parseFilter(rest string) (Command, error) {
	kind := KindFilterEq
	var fieldPart, valuePart string
	if idx := strings.Index(rest, "!="); idx >= 0 {
		kind = KindFilterNe
		fieldPart, valuePart = rest[:idx], rest[idx+2:]
	} else if idx := strings.Index(rest, "="); idx >= 0 {
		fieldPart, valuePart = rest[:idx], rest[idx+1:]
	} else {
		return Command{}, errors.New("FILTER requires = or != operator")
	}

	pos, length, err := parseFieldPair("FILTER", strings.TrimSpace(fieldPart))
	if err != nil {
		return Command{}, err
	}

	value, _, err := parseDelimitedString(strings.TrimSpace(valuePart))
	if err != nil {
		return Command{}, err
	}

	return Command{Kind: kind, Pos: pos, Len: length, HasField: true, Value: value}, nil
}

// parseSelect parses one or more `src,len,dest` triples separated by `;`.
func parseSelect(rest string) (Command, error) {
	var fields []FieldSpec

	for _, spec := range strings.Split(rest, ";") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		parts := strings.Split(spec, ",")
		if len(parts) != 3 {
			return Command{}, fmt.Errorf("SELECT field '%s' requires src_pos,len,dest_pos", spec)
		}

		src, err := parseNonNegative(parts[0])
		if err != nil {
			return Command{}, fmt.Errorf("invalid source position in '%s'", spec)
		}
		length, err := parseNonNegative(parts[1])
		if err != nil {
			return Command{}, fmt.Errorf("invalid length in '%s'", spec)
		}
		dest, err := parseNonNegative(parts[2])
		if err != nil {
			return Command{}, fmt.Errorf("invalid destination position in '%s'", spec)
		}

		if err := checkField(src, length); err != nil {
			return Command{}, err
		}
		if err := checkField(dest, length); err != nil {
			return Command{}, err
		}

		fields = append(fields, FieldSpec{Src: src, Len: length, Dest: dest})
	}

	if len(fields) == 0 {
		return Command{}, errors.New("SELECT requires at least one field specification")
	}
	return Command{Kind: KindSelect, Fields: fields}, nil
}

// parseLocate parses `["pos,len"] "pattern"` for LOCATE and NLOCATE. A
// leading digit introduces the optional field restriction.
func parseLocate(name string, kind Kind, rest string) (Command, error) {
	if rest == "" {
		return Command{}, fmt.Errorf("%s requires a pattern", name)
	}

	if rest[0] >= '0' && rest[0] <= '9' {
		idx := strings.IndexFunc(rest, func(r rune) bool {
			return (r < '0' || r > '9') && r != ','
		})
		if idx < 0 {
			return Command{}, fmt.Errorf("%s requires a pattern", name)
		}

		pos, length, err := parseFieldPair(name, rest[:idx])
		if err != nil {
			return Command{}, err
		}

		pattern, _, err := parseDelimitedString(strings.TrimLeft(rest[idx:], " \t"))
		if err != nil {
			return Command{}, err
		}

		return Command{Kind: kind, Pos: pos, Len: length, HasField: true, Pattern: pattern}, nil
	}

	pattern, _, err := parseDelimitedString(rest)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: kind, Pattern: pattern}, nil
}

// parseChange parses two delimited strings: the text to find and its
// replacement.
func parseChange(rest string) (Command, error) {
	if rest == "" {
		return Command{}, errors.New("CHANGE requires two delimited strings")
	}

	old, after, err := parseDelimitedString(rest)
	if err != nil {
		return Command{}, err
	}
	repl, _, err := parseDelimitedString(after)
	if err != nil {
		return Command{}, err
	}

	return Command{Kind: KindChange, Old: old, New: repl}, nil
}

// parseLiteral parses the delimited record text of a LITERAL stage.
func parseLiteral(rest string) (Command, error) {
	if rest == "" {
		return Command{}, errors.New("LITERAL requires text")
	}
	text, _, err := parseDelimitedString(rest)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: KindLiteral, Text: text}, nil
}

// parseCount parses the single numeric argument of TAKE, SKIP, and
// DUPLICATE, enforcing the verb's minimum.
func parseCount(name, rest string, minimum int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, fmt.Errorf("%s requires a number", name)
	}
	if n < minimum {
		if minimum > 0 {
			return 0, fmt.Errorf("%s count must be at least %d", name, minimum)
		}
		return 0, fmt.Errorf("%s requires a non-negative number", name)
	}
	return n, nil
}

// parseFieldPair parses a `pos,len` pair and validates it against Width.
func parseFieldPair(name, s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%s field spec requires pos,len", name)
	}

	pos, err := parseNonNegative(parts[0])
	if err != nil {
		return 0, 0, errors.New("invalid position number")
	}
	length, err := parseNonNegative(parts[1])
	if err != nil {
		return 0, 0, errors.New("invalid length number")
	}

	if err := checkField(pos, length); err != nil {
		return 0, 0, err
	}
	return pos, length, nil
}

func parseNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}

// checkField rejects zero-length fields and ranges past the record width.
func checkField(pos, length int) error {
	if length < 1 {
		return errors.New("field length must be at least 1")
	}
	if pos+length > Width {
		return &FieldRangeError{Pos: pos, Len: length}
	}
	return nil
}

// parseDelimitedString extracts a delimited string using the CMS
// convention: the first non-blank character is the delimiter and the
// string runs to its next occurrence. Returns the extracted string and the
// remaining input.
func parseDelimitedString(s string) (string, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", errors.New("expected delimited string")
	}

	delim := s[0]
	rest := s[1:]
	end := strings.IndexByte(rest, delim)
	if end < 0 {
		return "", "", fmt.Errorf("unclosed delimiter %q", string(delim))
	}
	return rest[:end], rest[end+1:], nil
}
