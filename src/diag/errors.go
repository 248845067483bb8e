// Package diag is a unified errors package for lexing, parsing, and checking so
// that failures can be formatted in a unified way and handled in a unified way.
package diag

import "fmt"

type (
	// ErrorKind is an enum to describe where the error originates from.
	ErrorKind int
	// Error captures all errors raised while processing source text. It distinguishes
	// between lexer, parser, and checker errors and will format them accordingly.
	// This is so that errors can be handled in a uniform way by callers and the CLI.
	Error struct {
		Line     int64
		Column   int64
		Kind     ErrorKind
		Err      error
		Filename string
	}
)

const (
	// CheckErr is a finding reported by the checker against well-formed source.
	CheckErr ErrorKind = iota
	// ParserErr is an error that originates from the parser.
	ParserErr
	// LexerErr is an error that originates from the lexer.
	LexerErr
)

func (err *Error) Error() string {
	switch err.Kind {
	case CheckErr:
		return fmt.Sprintf("%v:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	case ParserErr:
		return fmt.Sprintf("Parse Error: %s:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	case LexerErr:
		return fmt.Sprintf("Lex Error: %v", err.Err.Error())
	default:
		return err.Err.Error()
	}
}
