package apispec

import (
	"bytes"
	"encoding/json"

	"github.com/chazu/yailc/pkg/ir"
	"github.com/pkg/errors"
)

// Payload is the per-call document handed to the runtime's invokeAPI.
type Payload struct {
	ServerURL string          `json:"serverUrl"`
	FuncInfo  json.RawMessage `json:"funcInfo"`
}

// Encode builds the invokeAPI payload for method from a serialized
// descriptor and returns it escaped for use inside a YAIL string literal.
// A method missing from the descriptor is ErrFunctionNotFound.
func Encode(method, descriptor string) (string, error) {
	return EncodeWith(defaultCache, method, descriptor)
}

// EncodeWith is Encode using the given parse cache.
func EncodeWith(c *Cache, method, descriptor string) (string, error) {
	spec, err := c.Parse(descriptor)
	if err != nil {
		return "", err
	}
	fn, err := spec.Lookup(method)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Payload{ServerURL: spec.ServerURL, FuncInfo: fn.Raw}); err != nil {
		return "", errors.Wrap(err, "encoding API payload")
	}
	return ir.EscapeString(string(bytes.TrimRight(buf.Bytes(), "\n"))), nil
}

// Decode reverses Encode.
func Decode(escaped string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(ir.UnescapeString(escaped)), &p); err != nil {
		return nil, errors.Wrap(err, "decoding API payload")
	}
	return &p, nil
}
