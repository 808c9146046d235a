package hipack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value. The conversion walks the JSON token
// stream rather than unmarshalling into Go maps, so object key order
// survives the trip: what comes in is the insertion order that goes out.
//
// The two data models do not overlap exactly. JSON null has no HiPack
// representation and is rejected on the way in; NaN and infinities have no
// JSON representation and are rejected on the way out. Absent values map
// to JSON null.

// FromJSON converts JSON bytes to a Value, preserving object key order.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := fromJSONToken(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("hipack: trailing data after JSON value")
	}
	return v, nil
}

func fromJSONToken(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("hipack: JSON parse error: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			list := List()
			for dec.More() {
				elem, err := fromJSONToken(dec)
				if err != nil {
					return nil, err
				}
				list.Append(elem)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return nil, fmt.Errorf("hipack: JSON parse error: %w", err)
			}
			return list, nil

		case '{':
			dict := Dict()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("hipack: JSON parse error: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("hipack: unexpected JSON object key %v", keyTok)
				}
				val, err := fromJSONToken(dec)
				if err != nil {
					return nil, fmt.Errorf("hipack: object[%q]: %w", key, err)
				}
				dict.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // closing }
				return nil, fmt.Errorf("hipack: JSON parse error: %w", err)
			}
			return dict, nil

		default:
			return nil, fmt.Errorf("hipack: unexpected JSON delimiter %v", t)
		}

	case bool:
		return Bool(t), nil

	case string:
		return Str(t), nil

	case json.Number:
		return fromJSONNumber(t)

	case nil:
		return nil, fmt.Errorf("hipack: JSON null has no HiPack representation")

	default:
		return nil, fmt.Errorf("hipack: unsupported JSON token %T", tok)
	}
}

func fromJSONNumber(n json.Number) (*Value, error) {
	s := n.String()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Uint(u), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("hipack: invalid JSON number %q: %w", s, err)
	}
	return Float(f), nil
}

// ToJSON converts a Value to JSON bytes, preserving dict entry order.
// Absent becomes JSON null; NaN and infinities are an error.
func ToJSON(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	if v.IsAbsent() {
		buf.WriteString("null")
		return nil
	}

	switch v.typ {
	case TypeBool:
		if v.boolVal {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil

	case TypeInt:
		buf.WriteString(strconv.FormatInt(v.intVal, 10))
		return nil

	case TypeUint:
		buf.WriteString(strconv.FormatUint(v.uintVal, 10))
		return nil

	case TypeFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			return fmt.Errorf("hipack: NaN/infinity not allowed in JSON")
		}
		buf.WriteString(strconv.FormatFloat(v.floatVal, 'g', -1, 64))
		return nil

	case TypeString:
		return writeJSONString(buf, v.strVal)

	case TypeList:
		buf.WriteByte('[')
		for i, elem := range v.listVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case TypeDict:
		buf.WriteByte('{')
		for i, entry := range v.dictVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, entry.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, entry.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	default:
		return fmt.Errorf("hipack: unsupported value type %s", v.typ)
	}
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
