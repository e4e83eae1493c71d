// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"errors"
	"fmt"

	"github.com/segmentio/encoding/json"
)

// contextWindow bounds the amount of source text quoted in a diagnostic.
const contextWindow = 16

// Diagnose renders err as a human readable diagnostic, adding position
// context from src when the underlying error carries a byte offset.
//
// It understands the offset bearing error types of the JSON codec; any
// other error is rendered with Error alone. A nil err yields "".
func Diagnose(err error, src []byte) string {
	if err == nil {
		return ""
	}

	offset := int64(-1)
	var synErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &synErr):
		offset = synErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}

	if offset < 0 || len(src) == 0 {
		return err.Error()
	}
	if offset > int64(len(src)) {
		offset = int64(len(src))
	}

	return fmt.Sprintf("%s at offset %d near %q", err.Error(), offset, window(src, offset))
}

// window returns a short run of src surrounding offset.
func window(src []byte, offset int64) string {
	lo := offset - contextWindow/2
	if lo < 0 {
		lo = 0
	}
	hi := lo + contextWindow
	if hi > int64(len(src)) {
		hi = int64(len(src))
	}
	return string(src[lo:hi])
}
