// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"bytes"
	"fmt"

	"github.com/segmentio/encoding/json"
	"github.com/xeipuuv/gojsonpointer"
)

// Extract implements Codec.
//
// The document is decoded generically with number fidelity preserved, the
// pointer is walked, and the addressed fragment is re-bound to v. It is a
// best effort lookup: any failure along the way is returned to the caller,
// who typically treats the field as absent.
func (c JSON) Extract(data []byte, pointer string, v interface{}) error {
	ptr, err := gojsonpointer.NewJsonPointer(pointer)
	if err != nil {
		return fmt.Errorf("pointer %q: %w", pointer, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	node, _, err := ptr.Get(doc)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", pointer, err)
	}

	frag, err := c.Encode(node)
	if err != nil {
		return err
	}
	return c.Decode(frag, v)
}
