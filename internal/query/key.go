package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies one cache entry: a resource path plus the canonical form
// of the parameters that produced it. Parameter objects that differ only in
// field order or in null fields produce the same key.
type Key struct {
	path   []string
	params string
}

// KeyOf builds a parameterless key.
func KeyOf(path ...string) Key {
	return Key{path: append([]string(nil), path...)}
}

// With returns a copy of k carrying params in canonical form. Params that
// encode to an empty object collapse to the bare path. It panics when params
// cannot be encoded as JSON.
func (k Key) With(params any) Key {
	canonical, err := canonicalJSON(params)
	if err != nil {
		panic(fmt.Sprintf("query: key %s: params of type %T are not JSON encodable: %v", strings.Join(k.path, "/"), params, err))
	}
	return Key{path: k.path, params: canonical}
}

func (k Key) Path() []string {
	return append([]string(nil), k.path...)
}

func (k Key) String() string {
	p := strings.Join(k.path, "/")
	if k.params == "" {
		return p
	}
	return p + "?" + k.params
}

// HasPrefix reports whether the first path segments of k equal prefix.
func (k Key) HasPrefix(prefix ...string) bool {
	if len(prefix) > len(k.path) {
		return false
	}
	for i, seg := range prefix {
		if k.path[i] != seg {
			return false
		}
	}
	return true
}

// canonicalJSON encodes v with sorted object keys and without null members.
func canonicalJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	generic = dropNulls(generic)

	switch g := generic.(type) {
	case nil:
		return "", nil
	case map[string]any:
		if len(g) == 0 {
			return "", nil
		}
	}

	// encoding/json writes map keys in sorted order
	out, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if child == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = dropNulls(child)
		}
		return t
	default:
		return v
	}
}
