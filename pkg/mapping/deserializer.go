package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

var (
	// ErrKeyPathNotFound indicates the key path does not exist in the payload.
	ErrKeyPathNotFound = errors.New("key path not found")

	// ErrKeyPathType indicates a key path segment addresses a non-object value.
	ErrKeyPathType = errors.New("key path does not address an object")

	// ErrInvalidTarget indicates a zero Target was passed to a deserializer.
	ErrInvalidTarget = errors.New("invalid mapping target")
)

// Deserializer turns raw payloads into typed values.
type Deserializer interface {
	// Decode parses a raw response body into its generic form
	// (map[string]any for objects, []any for arrays, scalars otherwise).
	Decode(body []byte) (any, error)

	// Map decodes the value at keyPath ("" for the whole payload) into a
	// fresh instance of target and returns it by value.
	Map(payload map[string]any, target Target, keyPath string) (any, error)
}

// JSONDeserializer is a Deserializer for JSON payloads.
type JSONDeserializer struct {
	api sonic.API
}

// NewJSONDeserializer creates a JSONDeserializer with encoding/json
// compatible behavior.
func NewJSONDeserializer() *JSONDeserializer {
	return &JSONDeserializer{api: sonic.ConfigStd}
}

// Decode implements Deserializer.
func (d *JSONDeserializer) Decode(body []byte) (any, error) {
	var payload any
	if err := d.api.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

// Map implements Deserializer.
func (d *JSONDeserializer) Map(payload map[string]any, target Target, keyPath string) (any, error) {
	if !target.Valid() {
		return nil, ErrInvalidTarget
	}

	node, err := Walk(payload, keyPath)
	if err != nil {
		return nil, err
	}

	data, err := d.api.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", keyPath, err)
	}

	ptr := target.New()
	if err := d.api.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("map %s: %w", target.Name, err)
	}

	return target.Value(ptr), nil
}

// Walk returns the value at a dotted key path such as "paging.next".
// An empty key path returns the payload itself.
func Walk(payload map[string]any, keyPath string) (any, error) {
	if keyPath == "" {
		return payload, nil
	}

	var node any = payload
	for _, segment := range strings.Split(keyPath, ".") {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q at segment %q", ErrKeyPathType, keyPath, segment)
		}
		next, ok := obj[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrKeyPathNotFound, keyPath)
		}
		node = next
	}

	return node, nil
}
