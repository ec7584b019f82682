package formatspec

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		typ     ColumnType
		raw     string
		check   func(t *testing.T, v Value)
		wantErr string
	}{
		"string trimmed": {
			typ: TypeString, raw: "  S1 ",
			check: func(t *testing.T, v Value) { assert.Equal(t, "S1", v.Str) },
		},
		"float": {
			typ: TypeFloat, raw: "-33.85",
			check: func(t *testing.T, v Value) { assert.InDelta(t, -33.85, v.Float, 1e-9) },
		},
		"float exponent": {
			typ: TypeFloat, raw: "1.5e2",
			check: func(t *testing.T, v Value) { assert.InDelta(t, 150.0, v.Float, 1e-9) },
		},
		"float comma decimal": {
			typ: TypeFloat, raw: "45,2", wantErr: "not a decimal number",
		},
		"float NaN": {
			typ: TypeFloat, raw: "NaN", wantErr: "not a finite number",
		},
		"float Inf": {
			typ: TypeFloat, raw: "+Inf", wantErr: "not a finite number",
		},
		"integer": {
			typ: TypeInteger, raw: "42",
			check: func(t *testing.T, v Value) { assert.Equal(t, int64(42), v.Int) },
		},
		"integer with fraction": {
			typ: TypeInteger, raw: "4.0", wantErr: "not an integer",
		},
		"date only": {
			typ: TypeTimestamp, raw: "2023-03-01",
			check: func(t *testing.T, v Value) {
				assert.Equal(t, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), v.Time)
			},
		},
		"rfc3339": {
			typ: TypeTimestamp, raw: "2023-03-02T09:30:00+10:00",
			check: func(t *testing.T, v Value) { assert.Equal(t, 23, v.Time.UTC().Hour()) },
		},
		"space separated": {
			typ: TypeTimestamp, raw: "2023-03-02 09:30",
			check: func(t *testing.T, v Value) { assert.Equal(t, 30, v.Time.Minute()) },
		},
		"day first": {
			typ: TypeTimestamp, raw: "02/03/2023", wantErr: "not a date or timestamp",
		},
		"unknown type": {
			typ: ColumnType("bool"), raw: "true", wantErr: "unsupported column type",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v, err := Coerce(tt.typ, tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, v.Type)
			tt.check(t, v)
		})
	}
}

func TestCoerce_Empty(t *testing.T) {
	t.Parallel()

	for _, typ := range []ColumnType{TypeString, TypeFloat, TypeInteger, TypeTimestamp} {
		_, err := Coerce(typ, "   ")
		assert.True(t, errors.Is(err, ErrEmpty), "%s: blank cell must report ErrEmpty", typ)
	}
}

func TestValue_Number(t *testing.T) {
	t.Parallel()

	n, ok := Value{Type: TypeInteger, Int: 7}.Number()
	assert.True(t, ok)
	assert.Equal(t, 7.0, n)

	_, ok = Value{Type: TypeString, Str: "7"}.Number()
	assert.False(t, ok)
}
