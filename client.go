// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package jrpc2

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Client correlates JSON-RPC calls with the responses that answer them.
//
// Requests are issued through the typed ClientMethod handles that make up
// the client's vocabulary; Resolve routes arriving response text back to
// the pending callback for its id. The vocabulary is fixed at
// construction. All operations are safe for concurrent use.
type Client struct {
	methods []ClientEntry
	opts    options
	seq     *atomic.Int64
}

// NewClient builds a Client over the supplied method set and binds each
// method handle to it.
func NewClient(methods []ClientEntry, opts ...Option) *Client {
	c := &Client{
		methods: methods,
		opts:    defaultOptions(),
		seq:     atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	for _, m := range methods {
		m.bind(c)
	}
	return c
}

// NextID returns the next number ID from the client's sequence. Callers
// that want string ids mint their own; ids must be unique per pending
// call.
func (c *Client) NextID() ID {
	return NewNumberID(c.seq.Add(1))
}

// Resolve routes response text to the callback registered for its id and
// removes the pending entry, guaranteeing at most one callback invocation
// per issued id.
//
// The returned error reports protocol level failures only: text that does
// not decode, a response missing both result and error, or an id no
// method is waiting on. Per call outcomes, success or failure, are
// delivered through the stored callback. An unmatched id leaves all
// pending state untouched.
func (c *Client) Resolve(text string) *Error {
	data := []byte(text)

	var resp Response
	if err := c.opts.codec.Decode(data, &resp); err != nil {
		return parseErr(err, data)
	}

	if resp.ID != nil {
		for _, m := range c.methods {
			found, rerr := m.resolve(c.opts.codec, data, *resp.ID)
			if !found {
				continue
			}
			c.opts.logger.Debug("resolved",
				zap.String("method", m.Name()),
				zap.Stringer("id", resp.ID),
			)
			return rerr
		}
	}

	switch {
	case resp.ID == nil:
		return Errorf(InternalError, "id: null not found")
	case resp.ID.isString():
		return Errorf(InternalError, "id: '%s' not found", resp.ID)
	default:
		return Errorf(InternalError, "id: %s not found", resp.ID)
	}
}

// Evict forcibly removes the pending call with the given id, whichever
// method it was issued on. When err is non nil the stored callback is
// invoked once with it, which lets callers fail calls that will never see
// a response, such as after an external timeout. With a nil err the entry
// is dropped silently. It reports whether an entry was removed.
func (c *Client) Evict(id ID, err *Error) bool {
	for _, m := range c.methods {
		if m.evict(id, err) {
			c.opts.logger.Debug("evicted", zap.Stringer("id", id))
			return true
		}
	}
	return false
}

// Pending returns the number of in flight calls for the named method, or
// 0 if the method is not part of the client's vocabulary.
func (c *Client) Pending(method string) int {
	for _, m := range c.methods {
		if m.Name() == method {
			return m.pendingLen()
		}
	}
	return 0
}
