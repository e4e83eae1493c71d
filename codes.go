// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package jrpc2

// Code is an int64 error code as defined in the JSON-RPC spec.
type Code int64

// list of JSON-RPC error codes.
const (
	// NoError is the sentinel for the absence of an error.
	NoError Code = 0

	// ParseError is the invalid JSON was received by the server.
	// An error occurred on the server while parsing the JSON text.
	ParseError Code = -32700

	// InvalidRequest is the JSON sent is not a valid Request object.
	InvalidRequest Code = -32600

	// MethodNotFound is the method does not exist / is not available.
	MethodNotFound Code = -32601

	// InvalidParams is the invalid method parameter(s).
	InvalidParams Code = -32602

	// InternalError is the internal JSON-RPC error.
	InternalError Code = -32603

	codeServerErrorStart Code = -32099
	codeServerErrorEnd   Code = -32000
)

// IsServerError reports whether c falls in the band the spec reserves for
// implementation defined server errors.
func (c Code) IsServerError() bool {
	return c >= codeServerErrorStart && c <= codeServerErrorEnd
}

// String returns the fixed human readable message for c.
func (c Code) String() string {
	switch {
	case c == NoError:
		return "No error"
	case c == ParseError:
		return "Parse error"
	case c == InvalidRequest:
		return "Invalid request"
	case c == MethodNotFound:
		return "Method not found"
	case c == InvalidParams:
		return "Invalid params"
	case c == InternalError:
		return "Internal error"
	case c.IsServerError():
		return "Server error"
	}
	return "Unknown"
}
