package message

import (
	"fmt"
	"reflect"
)

type valueKind int

const (
	kindUnsupported valueKind = iota
	kindMessage
	kindError
	kindScalar
)

func classify(v interface{}) valueKind {
	if v == nil {
		return kindUnsupported
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return kindUnsupported
	}
	switch v.(type) {
	case Message:
		return kindMessage
	case error:
		return kindError
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return kindScalar
	}
	return kindUnsupported
}

func coerce(v interface{}) Message {
	switch t := v.(type) {
	case Message:
		return t
	case error:
		return FromError(t)
	case string:
		return FromString(t)
	default:
		return FromString(fmt.Sprint(t))
	}
}

// FromAny turns whatever a caller produced into messages. A Message passes
// through, an error becomes an ErrorMessage and a scalar becomes a
// TextMessage; a single value yields a one-element slice. A slice or array is
// converted element-wise as long as every element is of the same supported
// kind; a byte slice is one text. Nil, empty, mixed or unsupported input
// yields nil.
func FromAny(v interface{}) []Message {
	if k := classify(v); k != kindUnsupported {
		return []Message{coerce(v)}
	}
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	if rv.Len() == 0 {
		return nil
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// raw bytes are text, not a list of numbers
		return []Message{FromString(string(rv.Bytes()))}
	}

	first := classify(rv.Index(0).Interface())
	if first == kindUnsupported {
		return nil
	}
	out := make([]Message, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if classify(item) != first {
			return nil
		}
		out = append(out, coerce(item))
	}
	return out
}
