// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package jrpc2

import (
	"fmt"

	"golang.org/x/xerrors"

	"go.jrpc.dev/jrpc2/codec"
)

// Error represents a JSON-RPC error.
type Error struct {
	// Code a number indicating the error type that occurred.
	Code Code `json:"code"`

	// Message a string providing a short description of the error.
	Message string `json:"message"`

	// Data carries additional human readable detail about the error,
	// typically a codec diagnostic. Can be omitted.
	Data *string `json:"data,omitempty"`

	frame xerrors.Frame
}

// compile time check whether the Error implements error, fmt.Formatter and
// xerrors.Formatter interfaces.
var (
	_ error             = (*Error)(nil)
	_ fmt.Formatter     = (*Error)(nil)
	_ xerrors.Formatter = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Format implements fmt.Formatter.
func (e *Error) Format(s fmt.State, c rune) {
	xerrors.FormatError(e, s, c)
}

// FormatError implements xerrors.Formatter.
func (e *Error) FormatError(p xerrors.Printer) (next error) {
	if e.Message == "" {
		p.Printf("code=%d", e.Code)
	} else {
		p.Printf("%s (code=%d)", e.Message, e.Code)
	}
	if e.Data != nil {
		p.Printf(": %s", *e.Data)
	}
	e.frame.Format(p)

	return nil
}

// Is reports whether target carries the same error code as e.
//
// It makes errors.Is(err, ErrMethodNotFound) style conditionals work with
// any error value produced by this package.
func (e *Error) Is(target error) bool {
	err, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == err.Code
}

// NewError builds an Error for the supplied code and message.
//
// An empty message is replaced by the fixed default message for the code.
func NewError(c Code, message string) *Error {
	if message == "" {
		message = c.String()
	}
	return &Error{
		Code:    c,
		Message: message,
		frame:   xerrors.Caller(1),
	}
}

// Errorf builds an Error for the supplied code, format and args.
func Errorf(c Code, format string, args ...interface{}) *Error {
	return &Error{
		Code:    c,
		Message: fmt.Sprintf(format, args...),
		frame:   xerrors.Caller(1),
	}
}

// InvalidError builds an invalid request Error from a codec failure,
// carrying the formatted diagnostic for err against src as error data.
func InvalidError(err error, src []byte) *Error {
	e := NewError(InvalidRequest, "")
	if diag := codec.Diagnose(err, src); diag != "" {
		e.Data = &diag
	}
	return e
}

// VersionError builds an invalid request Error citing the unsupported
// version string seen on the wire.
func VersionError(seen string) *Error {
	return Errorf(InvalidRequest, "Invalid version: %s only supported version is %s", seen, Version)
}

// MethodError builds a method not found Error citing the unresolved
// method name.
func MethodError(name string) *Error {
	return Errorf(MethodNotFound, "Method: '%s' not found", name)
}

// parseErr builds a parse error carrying the codec diagnostic for err as
// error data. src may be nil when no source text applies.
func parseErr(err error, src []byte) *Error {
	e := NewError(ParseError, "")
	if diag := codec.Diagnose(err, src); diag != "" {
		e.Data = &diag
	}
	return e
}

// This file contains the Go forms of the wire specification.
//
// See http://www.jsonrpc.org/specification for details.
//
// list of JSON-RPC errors.
var (
	// ErrParse is used when invalid JSON was received by the server.
	ErrParse = NewError(ParseError, "")

	// ErrInvalidRequest is used when the JSON sent is not a valid Request object.
	ErrInvalidRequest = NewError(InvalidRequest, "")

	// ErrMethodNotFound should be returned by the handler when the method does
	// not exist / is not available.
	ErrMethodNotFound = NewError(MethodNotFound, "")

	// ErrInvalidParams should be returned by the handler when method
	// parameter(s) were invalid.
	ErrInvalidParams = NewError(InvalidParams, "")

	// ErrInternal is used for all generic server side failures.
	ErrInternal = NewError(InternalError, "")
)
