package hipack

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Marshaler is implemented by types that can describe themselves to an
// Encoder. Implementations call the Encoder's scalar and container methods
// to emit their content incrementally; the engine drives punctuation and
// separator placement.
type Marshaler interface {
	MarshalHiPack(enc *Encoder) error
}

// formatter decides structural punctuation only: how containers open and
// close and how items and keys are separated. It has no scalar knowledge.
type formatter interface {
	beginContainer(w io.Writer, ch byte) error
	endContainer(w io.Writer, ch byte) error
	keySeparator(w io.Writer) error
	itemSeparator(w io.Writer, first bool) error
}

type compactFormatter struct{}

func (compactFormatter) beginContainer(w io.Writer, ch byte) error {
	return writeByte(w, ch)
}

func (compactFormatter) endContainer(w io.Writer, ch byte) error {
	return writeByte(w, ch)
}

func (compactFormatter) keySeparator(w io.Writer) error {
	return writeByte(w, ':')
}

func (compactFormatter) itemSeparator(w io.Writer, first bool) error {
	if first {
		return nil
	}
	return writeByte(w, ',')
}

type prettyFormatter struct {
	indent int
}

func (f *prettyFormatter) beginContainer(w io.Writer, ch byte) error {
	f.indent++
	if err := writeByte(w, ch); err != nil {
		return err
	}
	if err := writeByte(w, '\n'); err != nil {
		return err
	}
	return writeIndent(w, f.indent)
}

func (f *prettyFormatter) endContainer(w io.Writer, ch byte) error {
	f.indent--
	if err := writeByte(w, '\n'); err != nil {
		return err
	}
	if err := writeIndent(w, f.indent); err != nil {
		return err
	}
	return writeByte(w, ch)
}

func (f *prettyFormatter) keySeparator(w io.Writer) error {
	_, err := io.WriteString(w, ": ")
	return err
}

func (f *prettyFormatter) itemSeparator(w io.Writer, first bool) error {
	if first {
		return nil
	}
	if err := writeByte(w, '\n'); err != nil {
		return err
	}
	return writeIndent(w, f.indent)
}

func writeByte(w io.Writer, ch byte) error {
	_, err := w.Write([]byte{ch})
	return err
}

func writeIndent(w io.Writer, indent int) error {
	for i := 0; i < indent; i++ {
		if _, err := io.WriteString(w, "  "); err != nil {
			return err
		}
	}
	return nil
}

// frame tracks per-container state while a container is open.
type frame struct {
	dict    bool
	first   bool // no item written yet; suppresses the leading separator
	keyNext bool // dict only: a key is expected next
	pending byte // opening delimiter deferred for the empty fast path
}

// Encoder writes HiPack text to an io.Writer in a single pass. An Encoder
// encodes one value graph; construct a fresh one per document. It holds no
// shared state, so independent Encoders may run on independent goroutines.
type Encoder struct {
	w       io.Writer
	format  formatter
	stack   []frame
	scratch []byte
}

// NewEncoder creates an Encoder producing compact output.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, format: compactFormatter{}}
}

// NewPrettyEncoder creates an Encoder producing indented output.
func NewPrettyEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, format: &prettyFormatter{}}
}

// Marshal encodes a value graph to compact HiPack text.
func Marshal(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).EncodeValue(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalPretty encodes a value graph to indented HiPack text.
func MarshalPretty(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewPrettyEncoder(&buf).EncodeValue(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode lets m describe itself to the encoder.
func (e *Encoder) Encode(m Marshaler) error {
	if m == nil {
		return syntaxErr(CodeUnrepresentableValue)
	}
	return m.MarshalHiPack(e)
}

// EncodeValue walks a value tree and encodes it. Depth is bounded only by
// the graph the caller built; the encoder does not impose a nesting limit.
func (e *Encoder) EncodeValue(v *Value) error {
	if v.IsAbsent() {
		return syntaxErr(CodeUnrepresentableValue)
	}

	switch v.typ {
	case TypeBool:
		return e.EncodeBool(v.boolVal)
	case TypeInt:
		return e.EncodeInt(v.intVal)
	case TypeUint:
		return e.EncodeUint(v.uintVal)
	case TypeFloat:
		return e.EncodeFloat(v.floatVal)
	case TypeString:
		return e.EncodeString(v.strVal)
	case TypeList:
		if err := e.BeginList(len(v.listVal)); err != nil {
			return err
		}
		for _, elem := range v.listVal {
			if err := e.EncodeValue(elem); err != nil {
				return err
			}
		}
		return e.EndList()
	case TypeDict:
		if err := e.BeginDict(len(v.dictVal)); err != nil {
			return err
		}
		for _, entry := range v.dictVal {
			if err := e.EncodeKey(entry.Key); err != nil {
				return err
			}
			if err := e.EncodeValue(entry.Value); err != nil {
				return err
			}
		}
		return e.EndDict()
	default:
		return fmt.Errorf("hipack: cannot encode %s value", v.typ)
	}
}

// ============================================================
// Scalars
// ============================================================

// EncodeBool writes True or False.
func (e *Encoder) EncodeBool(v bool) error {
	if err := e.beforeValue(); err != nil {
		return err
	}
	s := "False"
	if v {
		s = "True"
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

// EncodeInt writes a signed integer in decimal.
func (e *Encoder) EncodeInt(v int64) error {
	if err := e.beforeValue(); err != nil {
		return err
	}
	e.scratch = strconv.AppendInt(e.scratch[:0], v, 10)
	if _, err := e.w.Write(e.scratch); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

// EncodeUint writes an unsigned integer in decimal.
func (e *Encoder) EncodeUint(v uint64) error {
	if err := e.beforeValue(); err != nil {
		return err
	}
	e.scratch = strconv.AppendUint(e.scratch[:0], v, 10)
	if _, err := e.w.Write(e.scratch); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

// EncodeFloat writes a float. Finite values use the shortest decimal text
// that round-trips, with a forced trailing ".0" when the text has no dot so
// floats stay distinguishable from integers. NaN and infinities render as
// NaN, inf and -inf with no decimal suffix.
func (e *Encoder) EncodeFloat(v float64) error {
	if err := e.beforeValue(); err != nil {
		return err
	}
	e.scratch = appendFloat(e.scratch[:0], v)
	if _, err := e.w.Write(e.scratch); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

// EncodeString writes a double-quoted, escaped string. String encoding
// never fails semantically; only sink errors can abort it.
func (e *Encoder) EncodeString(v string) error {
	if err := e.beforeValue(); err != nil {
		return err
	}
	e.scratch = appendQuoted(e.scratch[:0], v)
	if _, err := e.w.Write(e.scratch); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

func appendFloat(dst []byte, v float64) []byte {
	if math.IsNaN(v) {
		return append(dst, "NaN"...)
	}
	if math.IsInf(v, 1) {
		return append(dst, "inf"...)
	}
	if math.IsInf(v, -1) {
		return append(dst, "-inf"...)
	}

	// Shortest representation that round-trips, with a mandatory decimal
	// point so floats never read back as integers.
	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', -1, 64)
	if !bytes.ContainsRune(dst[start:], '.') {
		dst = append(dst, ".0"...)
	}
	return dst
}

const hexDigits = "0123456789ABCDEF"

func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '\t':
			dst = append(dst, '\\', 't')
		case ch == '\n':
			dst = append(dst, '\\', 'n')
		case ch == '\r':
			dst = append(dst, '\\', 'r')
		case ch == '"':
			dst = append(dst, '\\', '"')
		case ch == '\\':
			dst = append(dst, '\\', '\\')
		case ch < 0x20:
			dst = append(dst, '\\', hexDigits[ch>>4], hexDigits[ch&0xF])
		default:
			dst = append(dst, ch)
		}
	}
	return append(dst, '"')
}

// ============================================================
// Containers
// ============================================================

// BeginList opens a list. A reported length of exactly zero arms the empty
// fast path: EndList emits "[]" with no interior punctuation. Pass a
// negative length when the element count is unknown; the list then opens
// immediately and separators are tracked incrementally.
func (e *Encoder) BeginList(length int) error {
	return e.beginContainer('[', length == 0)
}

// EndList closes the innermost open list.
func (e *Encoder) EndList() error {
	return e.endContainer(']', false)
}

// BeginDict opens a dict. Length semantics match BeginList.
func (e *Encoder) BeginDict(length int) error {
	return e.beginContainer('{', length == 0)
}

// EndDict closes the innermost open dict. It is an error to close a dict
// between a key and its value.
func (e *Encoder) EndDict() error {
	return e.endContainer('}', true)
}

// EncodeKey writes a dict key as a bare token. The key must be a valid bare
// token: non-empty, with no whitespace, control bytes, quotes or structural
// characters. Anything else fails with CodeInvalidKey before any byte of
// the entry is written.
func (e *Encoder) EncodeKey(key string) error {
	if len(e.stack) == 0 {
		return fmt.Errorf("hipack: EncodeKey outside a dict")
	}
	top := &e.stack[len(e.stack)-1]
	if !top.dict {
		return fmt.Errorf("hipack: EncodeKey inside a list")
	}
	if !top.keyNext {
		return fmt.Errorf("hipack: EncodeKey after a key; value expected")
	}
	if !validBareKey(key) {
		return syntaxErr(CodeInvalidKey)
	}

	if err := e.openPending(top); err != nil {
		return err
	}
	if err := e.format.itemSeparator(e.w, top.first); err != nil {
		return err
	}
	if _, err := io.WriteString(e.w, key); err != nil {
		return err
	}
	if err := e.format.keySeparator(e.w); err != nil {
		return err
	}
	top.keyNext = false
	return nil
}

// validBareKey reports whether s can be written verbatim as an unquoted key
// and read back by the parser. Quotes, structural punctuation, whitespace
// and control bytes would change the meaning of the surrounding text, so
// they are rejected rather than escaped.
func validBareKey(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch <= 0x20 || ch == 0x7F:
			return false
		case ch == '"' || ch == ':' || ch == ',':
			return false
		case ch == '[' || ch == ']' || ch == '{' || ch == '}':
			return false
		}
	}
	return true
}

func (e *Encoder) beginContainer(open byte, empty bool) error {
	if err := e.beforeValue(); err != nil {
		return err
	}
	fr := frame{dict: open == '{', first: true}
	fr.keyNext = fr.dict
	if empty {
		fr.pending = open
	} else if err := e.format.beginContainer(e.w, open); err != nil {
		return err
	}
	e.stack = append(e.stack, fr)
	return nil
}

func (e *Encoder) endContainer(closing byte, dict bool) error {
	if len(e.stack) == 0 {
		return fmt.Errorf("hipack: container close without open")
	}
	top := e.stack[len(e.stack)-1]
	if top.dict != dict {
		return fmt.Errorf("hipack: mismatched container close")
	}
	if dict && !top.keyNext {
		return fmt.Errorf("hipack: dict closed between key and value")
	}
	e.stack = e.stack[:len(e.stack)-1]

	if top.pending != 0 {
		// Empty fast path: open and close together, no interior.
		if _, err := e.w.Write([]byte{top.pending, closing}); err != nil {
			return err
		}
	} else if err := e.format.endContainer(e.w, closing); err != nil {
		return err
	}
	e.afterValue()
	return nil
}

// openPending flushes a deferred opening delimiter. The empty fast path is
// abandoned as soon as content actually arrives.
func (e *Encoder) openPending(top *frame) error {
	if top.pending == 0 {
		return nil
	}
	if err := e.format.beginContainer(e.w, top.pending); err != nil {
		return err
	}
	top.pending = 0
	return nil
}

// beforeValue emits the separator a value owes its container. In a dict
// the separator was already written with the key, and a value arriving in
// key position is exactly a non-string key: the restricted key path rejects
// it unconditionally.
func (e *Encoder) beforeValue() error {
	if len(e.stack) == 0 {
		return nil
	}
	top := &e.stack[len(e.stack)-1]
	if top.dict {
		if top.keyNext {
			return syntaxErr(CodeInvalidKey)
		}
		return nil
	}
	if err := e.openPending(top); err != nil {
		return err
	}
	return e.format.itemSeparator(e.w, top.first)
}

// afterValue marks the enclosing container as no longer empty and, in a
// dict, hands the turn back to the key position.
func (e *Encoder) afterValue() {
	if len(e.stack) == 0 {
		return
	}
	top := &e.stack[len(e.stack)-1]
	top.first = false
	if top.dict {
		top.keyNext = true
	}
}
