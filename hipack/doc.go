// Package hipack implements encoding and decoding of the HiPack textual
// serialization format.
//
// HiPack is a relaxed JSON-like format with two renderings of the same
// document: a compact single-line form and an indented human-readable form.
//
// # Data Model
//
// Scalars: bool, int (signed 64-bit), uint (unsigned 64-bit),
// float (64-bit), string
// Containers: list (ordered), dict (ordered, string-keyed)
//
// There is no null. An absent value cannot be encoded and fails with
// CodeUnrepresentableValue.
//
// # Syntax
//
// Dict:     {key:value,key:value} — keys are bare unquoted tokens
// List:     [value,value]
// Bool:     True / False
// Float:    mandatory decimal point (1.0, never 1), or NaN / inf / -inf
// Integer:  plain decimal, optional leading -
// String:   "double-quoted", escapes \t \n \r \" \\ and \XX hex for other
// control bytes
//
// In the pretty rendering a newline plus indentation separates items
// instead of the comma:
//
//	{
//	  name: "hipack"
//	  tags: [
//	    "codec"
//	    "text"
//	  ]
//	  version: 1.0
//	}
//
// # Usage
//
// Build a value tree and marshal it:
//
//	v := hipack.Dict(
//	    hipack.Field("name", hipack.Str("hipack")),
//	    hipack.Field("version", hipack.Float(1.0)),
//	)
//	text, err := hipack.Marshal(v)        // {name:"hipack",version:1.0}
//	text, err = hipack.MarshalPretty(v)
//
// Dict entry order is insertion order, preserved verbatim in the output;
// the encoder never sorts.
//
// Types can instead describe themselves incrementally by implementing
// Marshaler and driving the Encoder's scalar and container methods.
// Encoding is single-pass and streaming: bytes go to the io.Writer as the
// value graph is walked, and nothing is buffered or rolled back on error.
//
// Parse text back with Unmarshal:
//
//	v, err := hipack.Unmarshal(text)
//
// Decode errors are *SyntaxError values carrying the input line and column.
package hipack
