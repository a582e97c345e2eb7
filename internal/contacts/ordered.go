package contacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Ordered is a JSON object that remembers the order its keys were decoded in.
// The backend's object order is the only stable ordering the client sees, so
// rendering and fallback selection iterate through it instead of a Go map.
type Ordered[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// Len reports the number of entries.
func (o Ordered[K, V]) Len() int {
	return len(o.keys)
}

// Keys returns the keys in order.
func (o Ordered[K, V]) Keys() []K {
	return slices.Clone(o.keys)
}

// Get returns the value stored under key.
func (o Ordered[K, V]) Get(key K) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o Ordered[K, V]) Has(key K) bool {
	_, ok := o.values[key]
	return ok
}

// All iterates entries in order.
func (o Ordered[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// Clone returns a copy with its own key slice and map. Values are copied
// shallowly.
func (o Ordered[K, V]) Clone() Ordered[K, V] {
	if o.values == nil {
		return Ordered[K, V]{}
	}
	return Ordered[K, V]{keys: slices.Clone(o.keys), values: maps.Clone(o.values)}
}

// Set stores value under key. New keys go to the end; existing keys keep
// their position.
func (o *Ordered[K, V]) Set(key K, value V) {
	if o.values == nil {
		o.values = make(map[K]V)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// MarshalJSON writes the entries in order. An empty value encodes as {}.
func (o Ordered[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("encode key: %w", err)
		}
		if len(name) == 0 || name[0] != '"' {
			return nil, fmt.Errorf("key %v does not encode as a JSON string", k)
		}
		value, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object (or null) keeping key order. A repeated
// key keeps its first position and its last value.
func (o *Ordered[K, V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = Ordered[K, V]{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	out := Ordered[K, V]{values: make(map[K]V)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		key, err := decodeKey[K](name)
		if err != nil {
			return err
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode %q: %w", name, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// decodeKey runs the key back through encoding/json so string kinds and
// encoding.TextUnmarshaler keys (uuid.UUID) both work.
func decodeKey[K any](name string) (K, error) {
	var key K
	quoted, err := json.Marshal(name)
	if err != nil {
		return key, err
	}
	if err := json.Unmarshal(quoted, &key); err != nil {
		return key, fmt.Errorf("decode key %q: %w", name, err)
	}
	return key, nil
}
