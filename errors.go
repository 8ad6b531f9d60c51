package vespere

import "github.com/coraxlabs/vespere/internal/syntax"

// ErrorKind classifies why Compile rejected a pattern. Execute never
// returns an error: unrecognized conditions there are simply "no match".
type ErrorKind = syntax.ErrorKind

const (
	InternalError          = syntax.InternalError
	InvalidCharClass       = syntax.InvalidCharClass
	InvalidEscape          = syntax.InvalidEscape
	InvalidNamedCapture    = syntax.InvalidNamedCapture
	InvalidRepeatOp        = syntax.InvalidRepeatOp
	InvalidRepeatSize      = syntax.InvalidRepeatSize
	MissingBracket         = syntax.MissingBracket
	MissingParenthesis     = syntax.MissingParenthesis
	MissingRepeatArgument  = syntax.MissingRepeatArgument
	TrailingBackslash      = syntax.TrailingBackslash
	UnexpectedParenthesis  = syntax.UnexpectedParenthesis
)

// CompileError is returned by Compile when a pattern is rejected. Kind
// classifies the failure; Fragment is the unconsumed suffix of the
// pattern at the point of failure, for diagnostics.
type CompileError = syntax.Error
