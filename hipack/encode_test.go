package hipack

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================
// Rendering Tests
// ============================================================

func TestMarshal_Scalars(t *testing.T) {
	tests := []struct {
		name    string
		value   *Value
		compact string
		pretty  string
	}{
		{"bool_true", Bool(true), "True", "True"},
		{"bool_false", Bool(false), "False", "False"},
		{"integer_zero", Int(0), "0", "0"},
		{"integer_negative", Int(-34), "-34", "-34"},
		{"uint_max", Uint(math.MaxUint64), "18446744073709551615", "18446744073709551615"},
		{"float_zero", Float(0.0), "0.0", "0.0"},
		{"float_suffix", Float(1), "1.0", "1.0"},
		{"float_positive", Float(4.5), "4.5", "4.5"},
		{"float_negative", Float(-3.2), "-3.2", "-3.2"},
		{"float_nan", Float(math.NaN()), "NaN", "NaN"},
		{"float_infinite", Float(math.Inf(1)), "inf", "inf"},
		{"float_neg_infinite", Float(math.Inf(-1)), "-inf", "-inf"},
		{"string_empty", Str(""), `""`, `""`},
		{"string_non_empty", Str("foo bar"), `"foo bar"`, `"foo bar"`},
		{"string_unicode", Str("☺"), `"☺"`, `"☺"`},
		{"string_escapes", Str("\n\r\t\\\""), `"\n\r\t\\\""`, `"\n\r\t\\\""`},
		{"string_hexcode", Str("\x00"), `"\00"`, `"\00"`},
		{"string_hexcode_high", Str("\x1f"), `"\1F"`, `"\1F"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Marshal(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.compact, string(enc))

			enc, err = MarshalPretty(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.pretty, string(enc))
		})
	}
}

func TestMarshal_Containers(t *testing.T) {
	tests := []struct {
		name    string
		value   *Value
		compact string
		pretty  string
	}{
		{"list_empty", List(), "[]", "[]"},
		{"list_one", List(Bool(true)), "[True]", "[\n  True\n]"},
		{"list_two", List(Bool(true), Bool(false)),
			"[True,False]", "[\n  True\n  False\n]"},
		{"list_nested", List(List(Int(1))),
			"[[1]]", "[\n  [\n    1\n  ]\n]"},
		{"list_nested_empty", List(List()),
			"[[]]", "[\n  []\n]"},
		{"dict_empty", Dict(), "{}", "{}"},
		{"dict_one", Dict(Field("item", Bool(true))),
			"{item:True}", "{\n  item: True\n}"},
		{"dict_one_string", Dict(Field("k", Str("v"))),
			`{k:"v"}`, "{\n  k: \"v\"\n}"},
		{"dict_two", Dict(Field("~t", Bool(true)), Field("~f", Bool(false))),
			"{~t:True,~f:False}", "{\n  ~t: True\n  ~f: False\n}"},
		{"dict_nested", Dict(Field("inner", Dict(Field("a", Int(1))))),
			"{inner:{a:1}}", "{\n  inner: {\n    a: 1\n  }\n}"},
		{"dict_empty_value", Dict(Field("items", List())),
			"{items:[]}", "{\n  items: []\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Marshal(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.compact, string(enc))

			enc, err = MarshalPretty(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.pretty, string(enc))
		})
	}
}

func TestMarshal_DictInsertionOrder(t *testing.T) {
	v := Dict(
		Field("pi", Float(3.14)),
		Field("phi", Float(1.67)),
	)
	enc, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, "{pi:3.14,phi:1.67}", string(enc))
}

func TestMarshal_FiniteFloatsHaveOneDot(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 0.5, 1e21, -2.5e-10, 3.14, math.MaxFloat64} {
		enc, err := Marshal(Float(f))
		require.NoError(t, err)
		require.Equal(t, 1, bytes.Count(enc, []byte(".")), "encoding of %v", f)

		back, err := Unmarshal(enc)
		require.NoError(t, err)
		got, err := back.AsFloat()
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
}

// ============================================================
// Error Tests
// ============================================================

func TestMarshal_AbsentIsUnrepresentable(t *testing.T) {
	for _, v := range []*Value{
		nil,
		Absent(),
		List(Int(1), Absent()),
		Dict(Field("ok", Bool(true)), Field("gone", Absent())),
	} {
		_, err := Marshal(v)
		var serr *SyntaxError
		require.ErrorAs(t, err, &serr)
		require.Equal(t, CodeUnrepresentableValue, serr.Code)
		require.Zero(t, serr.Line)
	}
}

func TestMarshal_InvalidBareKeys(t *testing.T) {
	bad := []string{"", "with space", "tab\there", "new\nline", "a:b", "a,b", `a"b`, "a[b", "a]b", "a{b", "a}b", "\x01ctl"}
	for _, key := range bad {
		_, err := Marshal(Dict(Field(key, Int(1))))
		var serr *SyntaxError
		require.ErrorAs(t, err, &serr, "key %q", key)
		require.Equal(t, CodeInvalidKey, serr.Code, "key %q", key)
	}

	good := []string{"k", "~t", "snake_case", "dash-ed", "dot.ted", "π", "0numeric"}
	for _, key := range good {
		_, err := Marshal(Dict(Field(key, Int(1))))
		require.NoError(t, err, "key %q", key)
	}
}

func TestMarshal_InvalidKeyWritesNothingForEntry(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	v := Dict(
		Field("a", Int(1)),
		Field("bad key", Int(2)),
	)
	err := enc.EncodeValue(v)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, CodeInvalidKey, serr.Code)
	require.Equal(t, "{a:1", buf.String())
}

type failingWriter struct {
	limit int
	err   error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		return 0, w.err
	}
	w.limit -= len(p)
	return len(p), nil
}

func TestEncode_SinkErrorPropagated(t *testing.T) {
	sinkErr := errors.New("pipe closed")
	w := &failingWriter{limit: 3, err: sinkErr}

	err := NewEncoder(w).EncodeValue(List(Int(1), Int(2), Int(3)))
	require.ErrorIs(t, err, sinkErr)
}

// ============================================================
// Streaming Encoder Tests
// ============================================================

func TestEncoder_StreamingProtocol(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.BeginDict(2))
	require.NoError(t, enc.EncodeKey("id"))
	require.NoError(t, enc.EncodeUint(7))
	require.NoError(t, enc.EncodeKey("tags"))
	require.NoError(t, enc.BeginList(-1))
	require.NoError(t, enc.EncodeString("a"))
	require.NoError(t, enc.EncodeString("b"))
	require.NoError(t, enc.EndList())
	require.NoError(t, enc.EndDict())

	require.Equal(t, `{id:7,tags:["a","b"]}`, buf.String())
}

func TestEncoder_ValueInKeyPosition(t *testing.T) {
	cases := []struct {
		name string
		emit func(enc *Encoder) error
	}{
		{"bool", func(enc *Encoder) error { return enc.EncodeBool(true) }},
		{"int", func(enc *Encoder) error { return enc.EncodeInt(1) }},
		{"uint", func(enc *Encoder) error { return enc.EncodeUint(1) }},
		{"float", func(enc *Encoder) error { return enc.EncodeFloat(1.5) }},
		{"list", func(enc *Encoder) error { return enc.BeginList(0) }},
		{"dict", func(enc *Encoder) error { return enc.BeginDict(0) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewEncoder(&buf)
			require.NoError(t, enc.BeginDict(-1))

			err := tc.emit(enc)
			var serr *SyntaxError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, CodeInvalidKey, serr.Code)
		})
	}
}

func TestEncoder_EmptyFastPath(t *testing.T) {
	var buf bytes.Buffer
	enc := NewPrettyEncoder(&buf)
	require.NoError(t, enc.BeginList(0))
	require.NoError(t, enc.EndList())
	require.Equal(t, "[]", buf.String())

	buf.Reset()
	enc = NewPrettyEncoder(&buf)
	require.NoError(t, enc.BeginDict(0))
	require.NoError(t, enc.EndDict())
	require.Equal(t, "{}", buf.String())
}

func TestEncoder_UnknownLengthSkipsFastPath(t *testing.T) {
	var buf bytes.Buffer
	enc := NewPrettyEncoder(&buf)
	require.NoError(t, enc.BeginList(-1))
	require.NoError(t, enc.EndList())
	require.Equal(t, "[\n  \n]", buf.String())
}

func TestEncoder_FastPathAbandonedOnContent(t *testing.T) {
	// A container that reported zero length but produces items anyway
	// falls back to normal incremental emission.
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.BeginList(0))
	require.NoError(t, enc.EncodeInt(1))
	require.NoError(t, enc.EndList())
	require.Equal(t, "[1]", buf.String())
}

func TestEncoder_Misuse(t *testing.T) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf)
	require.Error(t, enc.EndList())

	enc = NewEncoder(&buf)
	require.NoError(t, enc.BeginList(-1))
	require.Error(t, enc.EndDict())

	enc = NewEncoder(&buf)
	require.NoError(t, enc.BeginDict(-1))
	require.NoError(t, enc.EncodeKey("k"))
	require.Error(t, enc.EndDict())

	enc = NewEncoder(&buf)
	require.Error(t, enc.EncodeKey("k"))
}

// ============================================================
// Marshaler Tests
// ============================================================

type span struct {
	name     string
	start    int64
	children []span
}

func (s span) MarshalHiPack(enc *Encoder) error {
	if err := enc.BeginDict(-1); err != nil {
		return err
	}
	if err := enc.EncodeKey("name"); err != nil {
		return err
	}
	if err := enc.EncodeString(s.name); err != nil {
		return err
	}
	if err := enc.EncodeKey("start"); err != nil {
		return err
	}
	if err := enc.EncodeInt(s.start); err != nil {
		return err
	}
	if err := enc.EncodeKey("children"); err != nil {
		return err
	}
	if err := enc.BeginList(len(s.children)); err != nil {
		return err
	}
	for _, c := range s.children {
		if err := c.MarshalHiPack(enc); err != nil {
			return err
		}
	}
	if err := enc.EndList(); err != nil {
		return err
	}
	return enc.EndDict()
}

func TestEncoder_Marshaler(t *testing.T) {
	s := span{
		name:  "root",
		start: 10,
		children: []span{
			{name: "child", start: 12},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(s))
	require.Equal(t,
		`{name:"root",start:10,children:[{name:"child",start:12,children:[]}]}`,
		buf.String())
}
