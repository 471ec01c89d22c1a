package gene

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Discrete alleles of SetGene and MapGene are restricted to these types so that
// they survive a persistent representation round trip.
const (
	tagBool   = "b"
	tagInt    = "i"
	tagDouble = "d"
	tagString = "s"
	tagSep    = "~"
)

func normalizeValue(v any) (any, error) {
	switch x := v.(type) {
	case bool, int, float64, string:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float32:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("%w: unsupported discrete value %T", ErrAlleleType, v)
	}
}

func valueTag(v any) string {
	switch v.(type) {
	case bool:
		return tagBool
	case int:
		return tagInt
	case float64:
		return tagDouble
	default:
		return tagString
	}
}

func encodeValue(v any) string {
	var s string
	switch x := v.(type) {
	case bool:
		s = strconv.FormatBool(x)
	case int:
		s = strconv.Itoa(x)
	case float64:
		s = strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		s = x
	}
	return escape(valueTag(v) + tagSep + s)
}

func decodeValue(token string) (any, error) {
	raw, err := unescape(token)
	if err != nil {
		return nil, err
	}
	tag, s, ok := strings.Cut(raw, tagSep)
	if !ok {
		return nil, fmt.Errorf("%w: untyped value %q", ErrRepresentation, raw)
	}
	switch tag {
	case tagBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRepresentation, err)
		}
		return b, nil
	case tagInt:
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRepresentation, err)
		}
		return i, nil
	case tagDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRepresentation, err)
		}
		return f, nil
	case tagString:
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown value tag %q", ErrRepresentation, tag)
	}
}

func decodeOptionalValue(token string) (any, error) {
	if token == NullRepresentation {
		return nil, nil
	}
	return decodeValue(token)
}

func encodeOptionalValue(v any) string {
	if v == nil {
		return NullRepresentation
	}
	return encodeValue(v)
}

// compareValues orders discrete values: nil first, numbers numerically,
// otherwise by type tag and then natural order.
func compareValues(a, b any) int {
	if c, done := compareNull(a == nil, b == nil); done {
		return c
	}
	fa, aNum := asNumber(a)
	fb, bNum := asNumber(b)
	if aNum && bNum {
		return cmp.Compare(fa, fb)
	}
	ta, tb := valueTag(a), valueTag(b)
	if ta != tb {
		return strings.Compare(ta, tb)
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}

func indexOfValue(values []any, v any) int {
	for i, candidate := range values {
		if valueTag(candidate) == valueTag(v) && compareValues(candidate, v) == 0 {
			return i
		}
	}
	return -1
}
