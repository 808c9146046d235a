package hipack

import (
	"math"
	"strconv"
)

// maxDepth bounds container nesting while decoding. The decoder faces
// arbitrary input, so unlike the encoder it refuses to recurse without
// limit.
const maxDepth = 512

// Unmarshal parses HiPack text into a value tree. The input must contain
// exactly one value; trailing content is an error. All decode errors are
// *SyntaxError values carrying the input position.
func Unmarshal(data []byte) (*Value, error) {
	tokens, err := newLexer(string(data)).tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{stream: newTokenStream(tokens)}
	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	if tok := p.stream.peek(); tok.typ != tokenEOF {
		return nil, unexpected(tok)
	}
	return v, nil
}

// parser parses HiPack tokens into Values.
type parser struct {
	stream *tokenStream
}

func (p *parser) parseValue(depth int) (*Value, error) {
	tok := p.stream.peek()

	if depth >= maxDepth {
		return nil, &SyntaxError{
			Code:   CodeMaxDepth,
			Offset: tok.pos.offset,
			Line:   tok.pos.line,
			Column: tok.pos.column,
		}
	}

	switch tok.typ {
	case tokenString:
		p.stream.advance()
		return Str(tok.value), nil

	case tokenWord:
		p.stream.advance()
		return classifyWord(tok)

	case tokenLBracket:
		return p.parseList(depth)

	case tokenLBrace:
		return p.parseDict(depth)

	default:
		return nil, unexpected(tok)
	}
}

func (p *parser) parseList(depth int) (*Value, error) {
	p.stream.advance() // consume [

	list := List()
	for {
		tok := p.stream.peek()
		switch tok.typ {
		case tokenRBracket:
			p.stream.advance()
			return list, nil
		case tokenEOF:
			return nil, unexpected(tok)
		}

		elem, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		list.Append(elem)

		// Separator is a comma or any whitespace; whitespace is already
		// gone by now, so a comma here is optional.
		p.stream.match(tokenComma)
	}
}

func (p *parser) parseDict(depth int) (*Value, error) {
	p.stream.advance() // consume {

	dict := Dict()
	for {
		tok := p.stream.peek()
		switch tok.typ {
		case tokenRBrace:
			p.stream.advance()
			return dict, nil
		case tokenEOF:
			return nil, unexpected(tok)
		case tokenWord:
			// bare key
		default:
			return nil, unexpected(tok)
		}
		key := p.stream.advance()

		if sep := p.stream.advance(); sep.typ != tokenColon {
			return nil, unexpected(sep)
		}

		val, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		dict.Set(key.value, val)

		p.stream.match(tokenComma)
	}
}

// classifyWord resolves a bare token in value position: a keyword, a
// non-finite float spelling, or a number. Anything else is an error; bare
// strings exist only in key position.
func classifyWord(tok token) (*Value, error) {
	switch tok.value {
	case "True":
		return Bool(true), nil
	case "False":
		return Bool(false), nil
	case "NaN":
		return Float(math.NaN()), nil
	case "inf":
		return Float(math.Inf(1)), nil
	case "-inf":
		return Float(math.Inf(-1)), nil
	}

	ch := tok.value[0]
	if ch != '-' && (ch < '0' || ch > '9') {
		return nil, unexpected(tok)
	}

	if i, err := strconv.ParseInt(tok.value, 10, 64); err == nil {
		return Int(i), nil
	}
	// Positive values above the int64 range still fit the unsigned kind.
	if u, err := strconv.ParseUint(tok.value, 10, 64); err == nil {
		return Uint(u), nil
	}
	if f, err := strconv.ParseFloat(tok.value, 64); err == nil {
		return Float(f), nil
	}

	return nil, &SyntaxError{
		Code:   CodeInvalidNumber,
		Detail: strconv.Quote(tok.value),
		Offset: tok.pos.offset,
		Line:   tok.pos.line,
		Column: tok.pos.column,
	}
}

func unexpected(tok token) *SyntaxError {
	detail := tok.typ.String()
	if tok.typ == tokenWord {
		detail = strconv.Quote(tok.value)
	}
	return &SyntaxError{
		Code:   CodeUnexpectedToken,
		Detail: detail,
		Offset: tok.pos.offset,
		Line:   tok.pos.line,
		Column: tok.pos.column,
	}
}
