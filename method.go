// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package jrpc2

import (
	"sync"

	"go.jrpc.dev/jrpc2/codec"
)

// Handler is the server side implementation of a single method: a pure
// function from the method's params shape to either a result or a
// protocol Error.
type Handler[P, R any] func(params P) (R, *Error)

// Callback receives the outcome of a client call. Exactly one of result
// and err is meaningful: err == nil means result holds the method's
// declared result shape. The id is the identifier the call was issued
// with.
type Callback[R any] func(result R, err *Error, id ID)

// Method describes one entry of a fixed method vocabulary: a wire name
// and the params and result shapes used to decode it. Descriptors are
// immutable once created.
type Method[P, R any] struct {
	name string
}

// NewMethod declares a method descriptor.
func NewMethod[P, R any](name string) Method[P, R] {
	return Method[P, R]{name: name}
}

// Name returns the wire name of the method.
func (m Method[P, R]) Name() string { return m.name }

// ServerEntry is one method of a server's vocabulary.
//
// The only implementation is *ServerMethod; the unexported method keeps
// the set closed.
type ServerEntry interface {
	// Name returns the wire name of the method.
	Name() string

	dispatch(c codec.Codec, element []byte, id *ID) *Response
}

// ServerMethod pairs a method descriptor with its registered handler.
type ServerMethod[P, R any] struct {
	Method[P, R]

	mu      sync.Mutex // guards handler reassignment against dispatch
	handler Handler[P, R]
}

// compile time check whether the ServerMethod implements ServerEntry interface.
var _ ServerEntry = (*ServerMethod[struct{}, struct{}])(nil)

// NewServerMethod declares a server method. Until a handler is registered
// with Use, every call to the method answers with an internal
// "Not implemented" error.
func NewServerMethod[P, R any](name string) *ServerMethod[P, R] {
	return &ServerMethod[P, R]{Method: NewMethod[P, R](name)}
}

// Use registers, or replaces, the handler for the method.
func (m *ServerMethod[P, R]) Use(h Handler[P, R]) {
	m.mu.Lock()
	m.handler = h
	m.mu.Unlock()
}

// invoke runs the registered handler, converting a missing handler and a
// handler panic into internal errors so that dispatch never fails.
func (m *ServerMethod[P, R]) invoke(params P) (result R, rerr *Error) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()

	if h == nil {
		return result, NewError(InternalError, "Not implemented")
	}

	defer func() {
		if v := recover(); v != nil {
			rerr = Errorf(InternalError, "handler panic: %v", v)
		}
	}()
	return h(params)
}

// dispatch decodes the method's params from the original element text,
// runs the handler and assembles the raw response. A nil return means the
// response is suppressed: a successfully handled notification. Error
// outcomes are never suppressed, notification or not.
func (m *ServerMethod[P, R]) dispatch(c codec.Codec, element []byte, id *ID) *Response {
	var req typedRequest[P]
	if err := c.Decode(element, &req); err != nil {
		return &Response{JSONRPC: Version, Error: InvalidError(err, element), ID: id}
	}

	result, herr := m.invoke(req.Params)
	if herr != nil {
		return &Response{JSONRPC: Version, Error: herr, ID: id}
	}

	raw, err := c.Encode(result)
	if err != nil {
		return &Response{JSONRPC: Version, Error: parseErr(err, nil), ID: id}
	}

	if id == nil {
		// notification: a successful call produces no response
		return nil
	}
	return &Response{JSONRPC: Version, Result: RawMessage(raw), ID: id}
}

// ClientEntry is one method of a client's vocabulary.
//
// The only implementation is *ClientMethod; the unexported methods keep
// the set closed.
type ClientEntry interface {
	// Name returns the wire name of the method.
	Name() string

	bind(c *Client)
	resolve(cdc codec.Codec, data []byte, id ID) (found bool, rerr *Error)
	evict(id ID, err *Error) bool
	pendingLen() int
}

// ClientMethod pairs a method descriptor with its pending-call table.
//
// The table maps issued call ids to the one-shot callbacks awaiting the
// matching responses. Insertion and removal are serialized by the table's
// own mutex, so a method handle is safe for concurrent use.
type ClientMethod[P, R any] struct {
	Method[P, R]

	client *Client // set when the method is bound at NewClient

	mu      sync.Mutex // protects the pending map
	pending map[ID]Callback[R]
}

// compile time check whether the ClientMethod implements ClientEntry interface.
var _ ClientEntry = (*ClientMethod[struct{}, struct{}])(nil)

// NewClientMethod declares a client method with an empty pending table.
func NewClientMethod[P, R any](name string) *ClientMethod[P, R] {
	return &ClientMethod[P, R]{
		Method:  NewMethod[P, R](name),
		pending: make(map[ID]Callback[R]),
	}
}

func (m *ClientMethod[P, R]) bind(c *Client) { m.client = c }

func (m *ClientMethod[P, R]) codec() codec.Codec {
	if m.client != nil {
		return m.client.opts.codec
	}
	return codec.Default
}

// Request builds the wire text for a call to the method.
//
// A nil id marks a notification: the text is returned with accepted ==
// false and no callback is recorded. Otherwise cb is stored in the
// pending table under id and accepted reports whether the insertion
// happened; an id that is already pending leaves the existing entry
// untouched. Ids must be unique across the lifetime of a call.
func (m *ClientMethod[P, R]) Request(id *ID, params P, cb Callback[R]) (text string, accepted bool) {
	if id != nil {
		m.mu.Lock()
		if _, dup := m.pending[*id]; !dup {
			m.pending[*id] = cb
			accepted = true
		}
		m.mu.Unlock()
	}

	req := typedRequest[P]{JSONRPC: Version, Method: m.name, Params: params, ID: id}
	data, err := m.codec().Encode(req)
	if err != nil {
		return writeError, accepted
	}
	return string(data), accepted
}

// Notify builds the wire text for a notification: a call with a null id
// and no expectation of a response.
func (m *ClientMethod[P, R]) Notify(params P) string {
	text, _ := m.Request(nil, params, nil)
	return text
}

// resolve consumes the pending entry for id, if this method holds one,
// and delivers the decoded outcome to its callback. The entry is removed
// even when the typed decode fails, so a callback fires at most once per
// id.
func (m *ClientMethod[P, R]) resolve(cdc codec.Codec, data []byte, id ID) (bool, *Error) {
	m.mu.Lock()
	cb, ok := m.pending[id]
	if ok {
		delete(m.pending, id)
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}

	var resp typedResponse[R]
	if err := cdc.Decode(data, &resp); err != nil {
		return true, parseErr(err, data)
	}

	switch {
	case resp.Result != nil:
		if cb != nil {
			cb(*resp.Result, nil, id)
		}
	case resp.Error != nil:
		var zero R
		if cb != nil {
			cb(zero, resp.Error, id)
		}
	default:
		return true, NewError(ParseError, `Missing key "result" or "error" in response`)
	}
	return true, nil
}

// evict removes the pending entry for id. When err is non nil the stored
// callback is invoked once with it.
func (m *ClientMethod[P, R]) evict(id ID, err *Error) bool {
	m.mu.Lock()
	cb, ok := m.pending[id]
	if ok {
		delete(m.pending, id)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}

	if err != nil && cb != nil {
		var zero R
		cb(zero, err, id)
	}
	return true
}

func (m *ClientMethod[P, R]) pendingLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
