package yamlutil

import (
	"fmt"
	"regexp"
	"strconv"
)

// ParseError reports malformed YAML input. Line and Column are 1-based and
// zero when the parser did not supply them.
type ParseError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	default:
		return e.Msg
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// HasPosition reports whether the parser supplied a location.
func (e *ParseError) HasPosition() bool {
	return e.Line > 0
}

// yamlErrPattern matches the "yaml: line N: [column M: ]msg" form produced
// by the yaml.v3 scanner and parser.
var yamlErrPattern = regexp.MustCompile(`^yaml: line (\d+):\s*(?:column (\d+):\s*)?(.*)$`)

// newParseError converts a decoder error into a *ParseError, recovering the
// position from the error text when present.
func newParseError(err error) *ParseError {
	msg := err.Error()

	m := yamlErrPattern.FindStringSubmatch(msg)
	if m == nil {
		return &ParseError{Msg: trimYAMLPrefix(msg), Err: err}
	}

	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])

	return &ParseError{Line: line, Column: col, Msg: m[3], Err: err}
}

func trimYAMLPrefix(msg string) string {
	const prefix = "yaml: "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}

	return msg
}
