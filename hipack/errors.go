package hipack

import "fmt"

// ErrorCode identifies the kind of a SyntaxError.
type ErrorCode uint8

const (
	// Encoding direction.
	CodeInvalidKey           ErrorCode = iota // non-string or non-bare dict key
	CodeUnrepresentableValue                  // absent value; the format has no null

	// Decoding direction.
	CodeUnexpectedToken
	CodeUnterminatedString
	CodeInvalidEscape
	CodeInvalidNumber
	CodeMaxDepth
)

// String returns a human-readable description of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeInvalidKey:
		return "invalid key"
	case CodeUnrepresentableValue:
		return "value cannot be represented"
	case CodeUnexpectedToken:
		return "unexpected token"
	case CodeUnterminatedString:
		return "unterminated string"
	case CodeInvalidEscape:
		return "invalid escape sequence"
	case CodeInvalidNumber:
		return "invalid number"
	case CodeMaxDepth:
		return "maximum nesting depth exceeded"
	default:
		return "unknown error"
	}
}

// SyntaxError reports a semantic encoding failure or a decoding failure.
//
// The position fields are populated by the decoder, which points into the
// input text. Encoding-direction errors carry zero positions: the encoder
// has no input text to point into.
type SyntaxError struct {
	Code   ErrorCode
	Detail string // optional decoder context, e.g. the offending token

	Offset int
	Line   int // 1-based; zero when no position is available
	Column int // 1-based; zero when no position is available
}

func (e *SyntaxError) Error() string {
	msg := e.Code.String()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Line > 0 {
		return fmt.Sprintf("hipack: %s at line %d column %d", msg, e.Line, e.Column)
	}
	return "hipack: " + msg
}

// syntaxErr builds a position-less (encoding direction) SyntaxError.
func syntaxErr(code ErrorCode) *SyntaxError {
	return &SyntaxError{Code: code}
}
