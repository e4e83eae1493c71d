// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package codec converts between JSON text and Go values on behalf of the
// protocol engine.
//
// The engine only depends on the Codec interface; the JSON implementation
// in this package is the default wiring.
package codec

import (
	"fmt"

	"github.com/segmentio/encoding/json"
)

// Codec is the text to value capability the engine consumes.
type Codec interface {
	// Decode parses data into v, which must be a pointer.
	Decode(data []byte, v interface{}) error

	// Encode renders v as JSON text.
	Encode(v interface{}) ([]byte, error)

	// Validate checks data for syntactic validity without binding it to
	// a shape.
	Validate(data []byte) error

	// Extract decodes the field addressed by a JSON pointer into v. It
	// fails when data is not valid JSON or the pointer resolves to
	// nothing.
	Extract(data []byte, pointer string, v interface{}) error
}

// JSON is the default Codec, backed by github.com/segmentio/encoding.
type JSON struct{}

// compile time check whether the JSON implements Codec interface.
var _ Codec = JSON{}

// Default is the codec used by servers and clients unless overridden.
var Default Codec = JSON{}

// Decode implements Codec.
func (JSON) Decode(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Encode implements Codec.
func (JSON) Encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// Validate implements Codec.
func (JSON) Validate(data []byte) error {
	if json.Valid(data) {
		return nil
	}
	// reparse to surface position information
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return fmt.Errorf("invalid JSON text")
}
