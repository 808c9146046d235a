package hipack

import (
	"strconv"
	"strings"
)

// tokenType represents the type of a lexer token.
type tokenType uint8

const (
	tokenEOF tokenType = iota

	tokenString // "quoted string", escapes already decoded
	tokenWord   // bare run of non-structural bytes: keys, numbers, keywords

	tokenLBrace   // {
	tokenRBrace   // }
	tokenLBracket // [
	tokenRBracket // ]
	tokenColon    // :
	tokenComma    // ,
)

// String returns the token type name.
func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenString:
		return "STRING"
	case tokenWord:
		return "WORD"
	case tokenLBrace:
		return "{"
	case tokenRBrace:
		return "}"
	case tokenLBracket:
		return "["
	case tokenRBracket:
		return "]"
	case tokenColon:
		return ":"
	case tokenComma:
		return ","
	default:
		return "UNKNOWN"
	}
}

// position is a location in the input text.
type position struct {
	offset int
	line   int // 1-based
	column int // 1-based
}

type token struct {
	typ   tokenType
	value string
	pos   position
}

// lexer tokenizes HiPack text.
type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, col: 1}
}

// tokenize returns all tokens from the input, ending with EOF.
func (l *lexer) tokenize() ([]token, error) {
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.typ == tokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipWhitespace()

	startPos := l.currentPos()
	if l.pos >= len(l.input) {
		return token{typ: tokenEOF, pos: startPos}, nil
	}

	ch := l.peek()
	switch ch {
	case '{':
		l.advance()
		return token{typ: tokenLBrace, value: "{", pos: startPos}, nil
	case '}':
		l.advance()
		return token{typ: tokenRBrace, value: "}", pos: startPos}, nil
	case '[':
		l.advance()
		return token{typ: tokenLBracket, value: "[", pos: startPos}, nil
	case ']':
		l.advance()
		return token{typ: tokenRBracket, value: "]", pos: startPos}, nil
	case ':':
		l.advance()
		return token{typ: tokenColon, value: ":", pos: startPos}, nil
	case ',':
		l.advance()
		return token{typ: tokenComma, value: ",", pos: startPos}, nil
	case '"':
		return l.scanString()
	}

	if isWordByte(ch) {
		return l.scanWord(), nil
	}

	l.advance()
	return token{}, &SyntaxError{
		Code:   CodeUnexpectedToken,
		Detail: quoteByte(ch),
		Offset: startPos.offset,
		Line:   startPos.line,
		Column: startPos.column,
	}
}

// scanString scans a quoted string, decoding escapes. Named escapes cover
// tab, newline, carriage return, quote and backslash; \XX decodes two
// hex digits into a raw byte.
func (l *lexer) scanString() (token, error) {
	startPos := l.currentPos()
	l.advance() // consume opening "

	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return token{}, &SyntaxError{
				Code:   CodeUnterminatedString,
				Offset: startPos.offset,
				Line:   startPos.line,
				Column: startPos.column,
			}
		}

		ch := l.peek()
		if ch == '"' {
			l.advance()
			return token{typ: tokenString, value: sb.String(), pos: startPos}, nil
		}

		if ch != '\\' {
			sb.WriteByte(ch)
			l.advance()
			continue
		}

		escPos := l.currentPos()
		l.advance() // consume backslash
		if l.pos >= len(l.input) {
			return token{}, &SyntaxError{
				Code:   CodeUnterminatedString,
				Offset: startPos.offset,
				Line:   startPos.line,
				Column: startPos.column,
			}
		}
		esc := l.peek()
		l.advance()
		switch esc {
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			hi, ok1 := hexValue(esc)
			if !ok1 || l.pos >= len(l.input) {
				return token{}, invalidEscape(escPos, esc)
			}
			lo, ok2 := hexValue(l.peek())
			if !ok2 {
				return token{}, invalidEscape(escPos, esc)
			}
			l.advance()
			sb.WriteByte(hi<<4 | lo)
		}
	}
}

func invalidEscape(pos position, esc byte) *SyntaxError {
	return &SyntaxError{
		Code:   CodeInvalidEscape,
		Detail: quoteByte(esc),
		Offset: pos.offset,
		Line:   pos.line,
		Column: pos.column,
	}
}

// scanWord scans a bare run of word bytes: a key, number or keyword. The
// parser decides which from context.
func (l *lexer) scanWord() token {
	startPos := l.currentPos()
	start := l.pos
	for l.pos < len(l.input) && isWordByte(l.peek()) {
		l.advance()
	}
	return token{typ: tokenWord, value: l.input[start:l.pos], pos: startPos}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *lexer) currentPos() position {
	return position{offset: l.pos, line: l.line, column: l.col}
}

// isWordByte reports whether a byte may appear in a bare token. Everything
// except whitespace, control bytes, quotes and structural punctuation
// qualifies, so multi-byte UTF-8 sequences pass through.
func isWordByte(ch byte) bool {
	switch {
	case ch <= 0x20 || ch == 0x7F:
		return false
	case ch == '"' || ch == ':' || ch == ',':
		return false
	case ch == '[' || ch == ']' || ch == '{' || ch == '}':
		return false
	}
	return true
}

func hexValue(ch byte) (byte, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

func quoteByte(ch byte) string {
	return strconv.QuoteRune(rune(ch))
}

// tokenStream provides a stream interface over tokens.
type tokenStream struct {
	tokens []token
	pos    int
}

func newTokenStream(tokens []token) *tokenStream {
	return &tokenStream{tokens: tokens}
}

// peek returns the current token without advancing.
func (ts *tokenStream) peek() token {
	if ts.pos >= len(ts.tokens) {
		return token{typ: tokenEOF}
	}
	return ts.tokens[ts.pos]
}

// advance moves to the next token and returns the current one.
func (ts *tokenStream) advance() token {
	tok := ts.peek()
	if ts.pos < len(ts.tokens) {
		ts.pos++
	}
	return tok
}

// match returns true and advances if the current token matches.
func (ts *tokenStream) match(typ tokenType) bool {
	if ts.peek().typ == typ {
		ts.advance()
		return true
	}
	return false
}
