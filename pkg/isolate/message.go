package isolate

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/johnjamespj/corelib/pkg/iterator"
	"github.com/johnjamespj/corelib/pkg/sorting"
)

var (
	ErrUnserializable   = fmt.Errorf("value cannot be sent between isolates")
	ErrMalformedMessage = fmt.Errorf("malformed message")
)

// Message tree tags. Every node is a []any whose first element is a tag:
//
//	[null] [bool b] [int i] [double f] [string s] [buffer b]
//	[typed kind [v...]]
//	[array id [node...]] [extendable id [node...]]
//	[fixed id [node...]] [const id [node...]]
//	[map id [key node ...]] [record id type [field node ...]]
//	[sendport port] [function name] [ref id]
//
// Composite nodes carry an id so later occurrences of the same pointer, and
// cycles, are encoded as [ref id].
const (
	tagNull       = "null"
	tagBool       = "bool"
	tagInt        = "int"
	tagDouble     = "double"
	tagString     = "string"
	tagBuffer     = "buffer"
	tagTyped      = "typed"
	tagArray      = "array"
	tagExtendable = "extendable"
	tagFixed      = "fixed"
	tagConst      = "const"
	tagMap        = "map"
	tagRecord     = "record"
	tagSendPort   = "sendport"
	tagFunction   = "function"
	tagRef        = "ref"
)

const (
	typedInt32   = "int32"
	typedInt64   = "int64"
	typedFloat64 = "float64"
)

// Record is a generic object sent field by field.
type Record struct {
	Type   string
	Fields map[string]any
}

// Function refers to a function registered with a Registry by name. Only
// the name crosses isolates; the receiver resolves Fn locally.
type Function struct {
	Name string
	Fn   any
}

type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type serializer struct {
	registry *Registry
	seen     map[identity]int64
	nextID   int64
}

func newSerializer(registry *Registry) *serializer {
	return &serializer{registry: registry, seen: make(map[identity]int64)}
}

func (s *serializer) serialize(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return []any{tagNull}, nil
	case bool:
		return []any{tagBool, v}, nil
	case int:
		return []any{tagInt, int64(v)}, nil
	case int8:
		return []any{tagInt, int64(v)}, nil
	case int16:
		return []any{tagInt, int64(v)}, nil
	case int32:
		return []any{tagInt, int64(v)}, nil
	case int64:
		return []any{tagInt, v}, nil
	case uint8:
		return []any{tagInt, int64(v)}, nil
	case uint16:
		return []any{tagInt, int64(v)}, nil
	case uint32:
		return []any{tagInt, int64(v)}, nil
	case uint:
		return s.unsigned(uint64(v))
	case uint64:
		return s.unsigned(v)
	case float32:
		return []any{tagDouble, float64(v)}, nil
	case float64:
		return []any{tagDouble, v}, nil
	case string:
		return []any{tagString, v}, nil
	case []byte:
		return []any{tagBuffer, append([]byte{}, v...)}, nil
	case []int32:
		return typed(typedInt32, v), nil
	case []int64:
		return typed(typedInt64, v), nil
	case []float64:
		return typed(typedFloat64, v), nil
	case []any:
		var key any
		if len(v) > 0 {
			key = v
		}
		return s.list(tagArray, key, iterator.NewSliceIterable(v))
	case *iterator.GrowableList[any]:
		if v == nil {
			return []any{tagNull}, nil
		}
		return s.list(tagExtendable, v, v)
	case *iterator.FixedLengthList[any]:
		if v == nil {
			return []any{tagNull}, nil
		}
		return s.list(tagFixed, v, v)
	case *iterator.UnmodifiableList[any]:
		if v == nil {
			return []any{tagNull}, nil
		}
		return s.list(tagConst, v, v)
	case map[string]any:
		if v == nil {
			return []any{tagNull}, nil
		}
		return s.mapping(v)
	case *Record:
		if v == nil {
			return []any{tagNull}, nil
		}
		return s.record(v)
	case SendPort:
		return s.sendPort(v)
	case *SendPort:
		if v == nil {
			return []any{tagNull}, nil
		}
		return s.sendPort(*v)
	case Function:
		if !s.registry.hasFunction(v.Name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, v.Name)
		}
		return []any{tagFunction, v.Name}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnserializable, value)
}

func (s *serializer) unsigned(v uint64) (any, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnserializable, v)
	}
	return []any{tagInt, int64(v)}, nil
}

func typed[V int32 | int64 | float64](kind string, values []V) []any {
	elements := make([]any, len(values))
	for i, v := range values {
		elements[i] = v
	}
	return []any{tagTyped, kind, elements}
}

// enter assigns an id to a composite. The second result reports that key
// was already serialized and id refers to it.
func (s *serializer) enter(key any) (int64, bool) {
	id := s.nextID
	if key != nil {
		rv := reflect.ValueOf(key)
		k := identity{typ: rv.Type(), ptr: rv.Pointer()}
		if rv.Kind() == reflect.Slice {
			k.len = rv.Len()
		}
		if prev, ok := s.seen[k]; ok {
			return prev, true
		}
		s.seen[k] = id
	}
	s.nextID++
	return id, false
}

func (s *serializer) list(tag string, key any, items iterator.Iterable[any]) (any, error) {
	id, seen := s.enter(key)
	if seen {
		return []any{tagRef, id}, nil
	}

	nodes, err := s.nodes(items)
	if err != nil {
		return nil, err
	}
	return []any{tag, id, nodes}, nil
}

func (s *serializer) nodes(items iterator.Iterable[any]) ([]any, error) {
	nodes := []any{}
	var failure error
	_, err := items.Every(func(item any) bool {
		node, err := s.serialize(item)
		if err != nil {
			failure = err
			return false
		}
		nodes = append(nodes, node)
		return true
	})
	if failure != nil {
		return nil, failure
	}
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *serializer) mapping(m map[string]any) (any, error) {
	id, seen := s.enter(m)
	if seen {
		return []any{tagRef, id}, nil
	}

	pairs, err := s.fields(m)
	if err != nil {
		return nil, err
	}
	return []any{tagMap, id, pairs}, nil
}

func (s *serializer) record(r *Record) (any, error) {
	id, seen := s.enter(r)
	if seen {
		return []any{tagRef, id}, nil
	}

	pairs, err := s.fields(r.Fields)
	if err != nil {
		return nil, err
	}
	return []any{tagRecord, id, r.Type, pairs}, nil
}

// fields flattens m into [key node key node ...] in key order so equal maps
// encode to equal bytes.
func (s *serializer) fields(m map[string]any) ([]any, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sorting.Sort(keys, strings.Compare)

	pairs := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		node, err := s.serialize(m[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		pairs = append(pairs, k, node)
	}
	return pairs, nil
}

func (s *serializer) sendPort(p SendPort) (any, error) {
	if p.registry == nil {
		return nil, ErrInvalidPort
	}
	if p.registry != s.registry {
		return nil, fmt.Errorf("%w: port %d belongs to another registry", ErrUnserializable, p.id)
	}
	return []any{tagSendPort, p.id}, nil
}

type deserializer struct {
	registry *Registry
	refs     map[int64]any
}

func newDeserializer(registry *Registry) *deserializer {
	return &deserializer{registry: registry, refs: make(map[int64]any)}
}

func (d *deserializer) deserialize(node any) (any, error) {
	parts, ok := node.([]any)
	if !ok || len(parts) == 0 {
		return nil, malformed("node is %T", node)
	}
	tag, ok := parts[0].(string)
	if !ok {
		return nil, malformed("tag is %T", parts[0])
	}

	switch tag {
	case tagNull:
		return nil, nil
	case tagBool:
		v, ok := arg(parts, 1).(bool)
		if !ok {
			return nil, malformed("bool node")
		}
		return v, nil
	case tagInt:
		return toInt64(arg(parts, 1))
	case tagDouble:
		return toFloat64(arg(parts, 1))
	case tagString:
		v, ok := arg(parts, 1).(string)
		if !ok {
			return nil, malformed("string node")
		}
		return v, nil
	case tagBuffer:
		switch v := arg(parts, 1).(type) {
		case []byte:
			return v, nil
		case nil:
			return []byte{}, nil
		}
		return nil, malformed("buffer node")
	case tagTyped:
		return d.typed(parts)
	case tagArray, tagExtendable, tagFixed, tagConst:
		return d.list(tag, parts)
	case tagMap:
		return d.mapping(parts)
	case tagRecord:
		return d.record(parts)
	case tagSendPort:
		id, err := toInt64(arg(parts, 1))
		if err != nil {
			return nil, err
		}
		return d.registry.sendPort(id)
	case tagFunction:
		name, ok := arg(parts, 1).(string)
		if !ok {
			return nil, malformed("function node")
		}
		fn, err := d.registry.functions.Resolve(name)
		if err != nil {
			return nil, err
		}
		return Function{Name: name, Fn: fn}, nil
	case tagRef:
		id, err := toInt64(arg(parts, 1))
		if err != nil {
			return nil, err
		}
		v, ok := d.refs[id]
		if !ok {
			return nil, malformed("dangling ref %d", id)
		}
		return v, nil
	}
	return nil, malformed("unknown tag %q", tag)
}

func (d *deserializer) typed(parts []any) (any, error) {
	kind, _ := arg(parts, 1).(string)
	elements, ok := arg(parts, 2).([]any)
	if !ok && arg(parts, 2) != nil {
		return nil, malformed("typed node")
	}

	switch kind {
	case typedInt32:
		out := make([]int32, len(elements))
		for i, e := range elements {
			v, err := toInt64(e)
			if err != nil {
				return nil, err
			}
			if v < math.MinInt32 || v > math.MaxInt32 {
				return nil, malformed("int32 element %d out of range", v)
			}
			out[i] = int32(v)
		}
		return out, nil
	case typedInt64:
		out := make([]int64, len(elements))
		for i, e := range elements {
			v, err := toInt64(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case typedFloat64:
		out := make([]float64, len(elements))
		for i, e := range elements {
			v, err := toFloat64(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, malformed("unknown typed kind %q", kind)
}

// list registers the container before decoding children so that refs to it
// from inside resolve.
func (d *deserializer) list(tag string, parts []any) (any, error) {
	id, nodes, err := d.composite(parts, 2)
	if err != nil {
		return nil, err
	}

	var set func(i int, v any) error
	switch tag {
	case tagArray:
		out := make([]any, len(nodes))
		d.refs[id] = out
		set = func(i int, v any) error {
			out[i] = v
			return nil
		}
	case tagExtendable:
		out := iterator.NewGrowableList[any](make([]any, len(nodes))...)
		d.refs[id] = out
		set = out.Set
	case tagFixed:
		backing := iterator.NewGrowableList[any](make([]any, len(nodes))...)
		d.refs[id] = iterator.NewFixedLengthList[any](backing)
		set = backing.Set
	case tagConst:
		backing := iterator.NewGrowableList[any](make([]any, len(nodes))...)
		d.refs[id] = iterator.NewUnmodifiableList[any](backing)
		set = backing.Set
	}

	for i, node := range nodes {
		v, err := d.deserialize(node)
		if err != nil {
			return nil, err
		}
		if err := set(i, v); err != nil {
			return nil, err
		}
	}
	return d.refs[id], nil
}

func (d *deserializer) mapping(parts []any) (any, error) {
	id, pairs, err := d.composite(parts, 2)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(pairs)/2)
	d.refs[id] = out
	if err := d.fields(pairs, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *deserializer) record(parts []any) (any, error) {
	id, pairs, err := d.composite(parts, 3)
	if err != nil {
		return nil, err
	}
	typeName, ok := arg(parts, 2).(string)
	if !ok {
		return nil, malformed("record type")
	}

	out := &Record{Type: typeName, Fields: make(map[string]any, len(pairs)/2)}
	d.refs[id] = out
	if err := d.fields(pairs, out.Fields); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *deserializer) fields(pairs []any, into map[string]any) error {
	if len(pairs)%2 != 0 {
		return malformed("odd field list")
	}
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return malformed("field key is %T", pairs[i])
		}
		v, err := d.deserialize(pairs[i+1])
		if err != nil {
			return err
		}
		into[key] = v
	}
	return nil
}

// composite reads the id at parts[1] and the child list at parts[at].
func (d *deserializer) composite(parts []any, at int) (int64, []any, error) {
	id, err := toInt64(arg(parts, 1))
	if err != nil {
		return 0, nil, err
	}
	if _, dup := d.refs[id]; dup {
		return 0, nil, malformed("duplicate id %d", id)
	}
	children := arg(parts, at)
	if children == nil {
		return id, nil, nil
	}
	nodes, ok := children.([]any)
	if !ok {
		return 0, nil, malformed("children are %T", children)
	}
	return id, nodes, nil
}

func arg(parts []any, i int) any {
	if i < len(parts) {
		return parts[i]
	}
	return nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedMessage, fmt.Sprintf(format, args...))
}

// toInt64 accepts every integer width msgpack may decode to.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), nil
		}
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), nil
		}
	}
	return 0, malformed("expected integer, got %T", v)
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	}
	if i, err := toInt64(v); err == nil {
		return float64(i), nil
	}
	return 0, malformed("expected float, got %T", v)
}
