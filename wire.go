// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package jrpc2

import (
	"fmt"
	"strconv"

	"github.com/segmentio/encoding/json"
)

// Version is the only JSON-RPC version string accepted on the wire.
const Version = "2.0"

// RawMessage is a raw encoded JSON value, decoded against a method's
// declared shape only once the method is known.
type RawMessage = json.RawMessage

// ID is a Request identifier.
//
// Only one of either the Name or Number members will be set, using the
// number form if the Name is the empty string. The null variant of the
// wire identifier is represented by a nil *ID in the envelopes.
type ID struct {
	name   string
	number int64
}

// compile time check whether the ID implements a fmt.Formatter, fmt.Stringer,
// json.Marshaler and json.Unmarshaler interfaces.
var (
	_ fmt.Formatter    = (*ID)(nil)
	_ fmt.Stringer     = (*ID)(nil)
	_ json.Marshaler   = (*ID)(nil)
	_ json.Unmarshaler = (*ID)(nil)
)

// NewNumberID returns a new number request ID.
func NewNumberID(v int64) ID { return ID{number: v} }

// NewStringID returns a new string request ID.
func NewStringID(v string) ID { return ID{name: v} }

// isString reports whether the ID carries the string variant.
func (id ID) isString() bool { return id.name != "" }

// Format writes the ID to the formatter.
//
// If the rune is q the representation is non ambiguous,
// string forms are quoted, number forms are preceded by a #.
func (id ID) Format(f fmt.State, r rune) {
	numF, strF := `%d`, `%s`
	if r == 'q' {
		numF, strF = `#%d`, `%q`
	}

	switch {
	case id.name != "":
		fmt.Fprintf(f, strF, id.name)
	default:
		fmt.Fprintf(f, numF, id.number)
	}
}

// String returns a string representation of the ID.
func (id ID) String() string {
	if id.name != "" {
		return id.name
	}
	return strconv.FormatInt(id.number, 10)
}

// MarshalJSON implements json.Marshaler.
func (id *ID) MarshalJSON() ([]byte, error) {
	if id.name != "" {
		return json.Marshal(id.name)
	}
	return json.Marshal(id.number)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID{}
	if err := json.Unmarshal(data, &id.number); err == nil {
		return nil
	}
	return json.Unmarshal(data, &id.name)
}

// Request is the generic request envelope, sent to a server to represent
// a call or notify operation.
//
// Params is kept raw here; a method's typed envelope decodes them against
// the declared params shape once the method name has been routed.
type Request struct {
	// JSONRPC is always encoded as the string "2.0".
	JSONRPC string `json:"jsonrpc"`
	// Method is a string containing the method name to invoke.
	Method string `json:"method"`
	// Params is either a struct or an array with the parameters of the method.
	Params RawMessage `json:"params,omitempty"`
	// ID of this request, used to tie the Response back to the request.
	// If nil, the Request is a notification and no response is expected.
	ID *ID `json:"id,omitempty"`
}

// IsNotify reports whether the request is a notification.
func (r *Request) IsNotify() bool { return r.ID == nil }

// Response is a reply to a Request.
//
// Exactly one of Result and Error is populated on a well formed response.
// ID is always emitted, as null when no identifier could be recovered from
// the offending request.
type Response struct {
	// JSONRPC is always encoded as the string "2.0".
	JSONRPC string `json:"jsonrpc"`
	// Result is the response value, and is required on success.
	Result RawMessage `json:"result,omitempty"`
	// Error is a structured error response if the call fails.
	Error *Error `json:"error,omitempty"`
	// ID of the Request this is a response to.
	ID *ID `json:"id"`
}

// typedRequest carries a method's concrete params shape.
type typedRequest[P any] struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  P      `json:"params"`
	ID      *ID    `json:"id,omitempty"`
}

// typedResponse carries a method's concrete result shape. Result presence
// is observed through the pointer so that exactly-one-of result/error can
// be enforced after decode.
type typedResponse[R any] struct {
	JSONRPC string `json:"jsonrpc"`
	Result  *R     `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      *ID    `json:"id"`
}
