package hipack

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_Accessors(t *testing.T) {
	b, err := Bool(true).AsBool()
	require.NoError(t, err)
	require.True(t, b)

	_, err = Bool(true).AsInt()
	require.Error(t, err)

	d := Dict(Field("a", Int(1)), Field("b", Int(2)))
	require.Equal(t, 2, d.Len())
	require.True(t, Int(2).Equal(d.Get("b")))
	require.Nil(t, d.Get("missing"))

	l := List(Str("x"))
	elem, err := l.Index(0)
	require.NoError(t, err)
	require.True(t, Str("x").Equal(elem))
	_, err = l.Index(1)
	require.Error(t, err)
}

func TestValue_SetAndAppend(t *testing.T) {
	d := Dict(Field("a", Int(1)))
	d.Set("b", Int(2))
	d.Set("a", Int(3)) // replaces in place, order unchanged

	enc, err := Marshal(d)
	require.NoError(t, err)
	require.Equal(t, "{a:3,b:2}", string(enc))

	l := List()
	l.Append(Int(1))
	l.Append(Int(2))
	require.Equal(t, 2, l.Len())
}

func TestValue_Equal(t *testing.T) {
	require.True(t, (*Value)(nil).Equal(Absent()))
	require.False(t, Absent().Equal(Int(0)))
	require.False(t, Int(1).Equal(Float(1)))
	require.True(t, Int(7).Equal(Uint(7)))
	require.True(t, Uint(7).Equal(Int(7)))
	require.False(t, Int(-1).Equal(Uint(math.MaxUint64)))
	require.True(t, Float(math.NaN()).Equal(Float(math.NaN())))
	require.False(t, Dict(Field("a", Int(1))).Equal(Dict(Field("b", Int(1)))))
	require.False(t,
		Dict(Field("a", Int(1)), Field("b", Int(2))).Equal(
			Dict(Field("b", Int(2)), Field("a", Int(1)))))
}

func TestSyntaxError_Message(t *testing.T) {
	encodeSide := &SyntaxError{Code: CodeUnrepresentableValue}
	require.Equal(t, "hipack: value cannot be represented", encodeSide.Error())

	decodeSide := &SyntaxError{Code: CodeUnexpectedToken, Detail: `"x"`, Offset: 4, Line: 2, Column: 3}
	require.Equal(t, `hipack: unexpected token: "x" at line 2 column 3`, decodeSide.Error())
}
