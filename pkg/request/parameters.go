package request

import (
	"fmt"
	"net/url"
)

// Param is a single named request parameter.
type Param struct {
	Key   string
	Value any
}

// Parameters is an ordered mapping of parameter names to values.
// The zero value is an empty set of parameters.
type Parameters []Param

// Params builds Parameters from alternating key/value pairs.
// It panics on an odd number of arguments or a non-string key.
func Params(kv ...any) Parameters {
	if len(kv)%2 != 0 {
		panic("request: Params requires key/value pairs")
	}
	var p Parameters
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("request: parameter key %v is not a string", kv[i]))
		}
		p = p.With(key, kv[i+1])
	}
	return p
}

// Len returns the number of parameters.
func (p Parameters) Len() int { return len(p) }

// Get returns the value stored under key.
func (p Parameters) Get(key string) (any, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return nil, false
}

// With returns a copy of p with key set to value. An existing key keeps its
// position; a new key is appended.
func (p Parameters) With(key string, value any) Parameters {
	out := p.Clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Key: key, Value: value})
}

// Clone returns a copy of p that shares no backing array with it.
func (p Parameters) Clone() Parameters {
	if p == nil {
		return nil
	}
	out := make(Parameters, len(p))
	copy(out, p)
	return out
}

// Keys returns the parameter names in insertion order.
func (p Parameters) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, param := range p {
		keys = append(keys, param.Key)
	}
	return keys
}

// Map returns the parameters as a map, suitable for a JSON request body.
func (p Parameters) Map() map[string]any {
	m := make(map[string]any, len(p))
	for _, param := range p {
		m[param.Key] = param.Value
	}
	return m
}

// Values returns the parameters as url.Values. Slice values expand into
// repeated values; nil values are skipped.
func (p Parameters) Values() url.Values {
	values := make(url.Values, len(p))
	for _, param := range p {
		switch v := param.Value.(type) {
		case nil:
		case string:
			values.Add(param.Key, v)
		case []string:
			for _, s := range v {
				values.Add(param.Key, s)
			}
		case []any:
			for _, item := range v {
				values.Add(param.Key, fmt.Sprint(item))
			}
		default:
			values.Add(param.Key, fmt.Sprint(v))
		}
	}
	return values
}
