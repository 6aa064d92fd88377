package store

import (
	"cmp"
	"math"
	"reflect"
	"strings"
	"time"
)

// IsNull reports whether v carries no value: nil or a floating-point NaN.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	f, ok := toFloat(v)
	return ok && math.IsNaN(f) && isFloatKind(v)
}

// Equal compares two decoded values. Numbers compare by value regardless of
// their Go kind, times by instant, everything else structurally.
func Equal(a, b any) bool {
	if c, ok := Compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// Compare orders two scalar values of the same family (numbers, strings,
// booleans, times). ok is false when the values are not comparable.
func Compare(a, b any) (c int, ok bool) {
	if c, ok := compareIntegers(a, b); ok {
		return c, true
	}
	if fa, aok := toFloat(a); aok {
		fb, bok := toFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		case fa == fb:
			return 0, true
		}
		return 0, false
	}

	switch av := a.(type) {
	case string:
		bv, bok := b.(string)
		if !bok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, bok := b.(bool)
		if !bok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	case time.Time:
		bv, bok := b.(time.Time)
		if !bok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	return 0, false
}

// compareIntegers orders two integer values exactly. ok is false unless both
// are integer kinds; float64 cannot hold integers above 2^53.
func compareIntegers(a, b any) (int, bool) {
	as, au, aok := toInteger(a)
	bs, bu, bok := toInteger(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case as != nil && bs != nil:
		return cmp.Compare(*as, *bs), true
	case au != nil && bu != nil:
		return cmp.Compare(*au, *bu), true
	case as != nil:
		if *as < 0 {
			return -1, true
		}
		return cmp.Compare(uint64(*as), *bu), true
	default:
		if *bs < 0 {
			return 1, true
		}
		return cmp.Compare(*au, uint64(*bs)), true
	}
}

// toInteger returns v as a signed or unsigned 64-bit integer; exactly one of
// the pointers is set when ok.
func toInteger(v any) (signed *int64, unsigned *uint64, ok bool) {
	var s int64
	var u uint64
	switch n := v.(type) {
	case int:
		s = int64(n)
	case int8:
		s = int64(n)
	case int16:
		s = int64(n)
	case int32:
		s = int64(n)
	case int64:
		s = n
	case uint:
		u = uint64(n)
		return nil, &u, true
	case uint8:
		u = uint64(n)
		return nil, &u, true
	case uint16:
		u = uint64(n)
		return nil, &u, true
	case uint32:
		u = uint64(n)
		return nil, &u, true
	case uint64:
		return nil, &n, true
	default:
		return nil, nil, false
	}
	return &s, nil, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isFloatKind(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}
