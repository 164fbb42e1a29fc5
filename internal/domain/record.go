package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Record is a JSON object that remembers the order its keys arrived in.
// Exports rely on that order: the CSV header is the first record's keys as
// received from the API.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewRecord builds a Record from alternating key/value pairs. Values are
// marshaled with encoding/json; it panics on an odd argument count or a
// non-string key, so it is meant for literals in code and tests.
func NewRecord(kv ...any) Record {
	if len(kv)%2 != 0 {
		panic("domain.NewRecord: odd number of arguments")
	}
	var r Record
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("domain.NewRecord: key %v is not a string", kv[i]))
		}
		r.Set(key, kv[i+1])
	}
	return r
}

// Keys returns the record's keys in insertion order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len reports the number of keys.
func (r Record) Len() int { return len(r.keys) }

// Raw returns the undecoded JSON value for key.
func (r Record) Raw(key string) (json.RawMessage, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set stores v under key, appending the key if it is new. Values that fail
// to marshal are stored as null.
func (r *Record) Set(key string, v any) {
	raw, ok := v.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(v)
		if err != nil {
			b = []byte("null")
		}
		raw = b
	}
	if r.values == nil {
		r.values = make(map[string]json.RawMessage)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = raw
}

// String returns the value for key when it is a JSON string.
func (r Record) String(key string) (string, bool) {
	raw, ok := r.values[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Number returns the value for key when it is a JSON number or a string
// holding one.
func (r Record) Number(key string) (float64, bool) {
	raw, ok := r.values[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ArrayLen returns the element count when the value for key is a JSON array.
func (r Record) ArrayLen(key string) (int, bool) {
	raw, ok := r.values[key]
	if !ok {
		return 0, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, false
	}
	return len(items), true
}

// MarshalJSON writes the object with keys in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(r.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. A repeated key keeps
// its first position and its last value, matching JavaScript objects.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("record: expected JSON object")
	}

	*r = Record{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("record: expected object key")
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("record: value for %q: %w", key, err)
		}
		r.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
