package isolate

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/blues/jsonata-go"
	"github.com/johnjamespj/corelib/pkg/iterator"
)

// Query evaluates a JSONata expression against the record's fields.
// Nested records and lists are seen as plain objects and arrays, and every
// number as float64. An expression that matches nothing yields nil.
func (r *Record) Query(expr string) (any, error) {
	e, err := jsonata.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}

	data, err := plain(r.Fields, make(map[uintptr]bool))
	if err != nil {
		return nil, err
	}
	res, err := e.Eval(data)
	if errors.Is(err, jsonata.ErrUndefined) {
		return nil, nil
	}
	return res, err
}

// plain converts a message value into the shapes JSONata understands.
// Values reachable through a cycle are replaced by nil.
func plain(v any, visiting map[uintptr]bool) (any, error) {
	switch v := v.(type) {
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case []int32:
		return numbers(v), nil
	case []int64:
		return numbers(v), nil
	case []float64:
		return numbers(v), nil
	case *Record:
		if v == nil {
			return nil, nil
		}
		return plainComposite(v, visiting, func() (any, error) { return plain(v.Fields, visiting) })
	case map[string]any:
		return plainComposite(v, visiting, func() (any, error) {
			out := make(map[string]any, len(v))
			for k, e := range v {
				pe, err := plain(e, visiting)
				if err != nil {
					return nil, err
				}
				out[k] = pe
			}
			return out, nil
		})
	case []any:
		return plainList(v, iterator.NewSliceIterable(v), visiting)
	case SendPort:
		return float64(v.id), nil
	case Function:
		return v.Name, nil
	case iterator.Iterable[any]:
		return plainList(v, v, visiting)
	}
	return v, nil
}

func plainComposite(key any, visiting map[uintptr]bool, convert func() (any, error)) (any, error) {
	rv := reflect.ValueOf(key)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Len() == 0 {
			return convert()
		}
	case reflect.Pointer, reflect.Map:
	default:
		return convert()
	}
	ptr := rv.Pointer()
	if visiting[ptr] {
		return nil, nil
	}
	visiting[ptr] = true
	defer delete(visiting, ptr)
	return convert()
}

// plainList fails if items reports an error while being walked, such as a
// live view whose source changed underneath it.
func plainList(key any, items iterator.Iterable[any], visiting map[uintptr]bool) (any, error) {
	return plainComposite(key, visiting, func() (any, error) {
		out := []any{}
		var convErr error
		err := items.ForEach(func(e any) {
			if convErr != nil {
				return
			}
			pe, err := plain(e, visiting)
			if err != nil {
				convErr = err
				return
			}
			out = append(out, pe)
		})
		if err != nil {
			return nil, err
		}
		if convErr != nil {
			return nil, convErr
		}
		return out, nil
	})
}

func numbers[V int32 | int64 | float64](values []V) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
