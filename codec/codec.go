// Package codec centralizes the encoding of cache manifests and other small
// JSON documents.
//
// Every built-in codec produces standard JSON, so documents written with one
// codec can be read with any other.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// OrDefault returns c, or Default when c is nil.
func OrDefault(c Codec) Codec {
	if c == nil {
		return Default
	}
	return c
}

// MustMarshal marshals v or panics. It is meant for tests and fixtures.
func MustMarshal(c Codec, v any) []byte {
	c = OrDefault(c)
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
