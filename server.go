// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package jrpc2

import (
	"go.uber.org/zap"
)

// writeError is emitted verbatim when a response representation itself
// cannot be encoded. It is a valid JSON string literal.
const writeError = `"write error"`

// Server dispatches JSON-RPC request text to a fixed set of methods.
//
// The method vocabulary is fixed at construction. Handlers on the
// individual ServerMethod values may still be swapped with Use at any
// time. Handle is a synchronous single pass over the supplied text; it
// never fails and never panics on malformed input, every failure mode
// degrades to an error response.
type Server struct {
	methods []ServerEntry
	opts    options
}

// NewServer builds a Server over the supplied method set.
func NewServer(methods []ServerEntry, opts ...Option) *Server {
	s := &Server{
		methods: methods,
		opts:    defaultOptions(),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Handle processes request text, single or batch, and returns the
// response text.
//
// A lone notification that succeeds produces the empty string. A batch
// produces a JSON array of the non suppressed responses, "[]" when all
// elements were successfully handled notifications.
func (s *Server) Handle(text string) string {
	resps, isBatch := s.handle([]byte(text))

	if isBatch {
		data, err := s.opts.codec.Encode(resps)
		if err != nil {
			return writeError
		}
		return string(data)
	}

	if len(resps) == 0 {
		return ""
	}
	data, err := s.opts.codec.Encode(resps[0])
	if err != nil {
		return writeError
	}
	return string(data)
}

// HandleRaw is Handle with the final encoding step left to the caller:
// it returns the raw response values in input order, with suppressed
// notifications omitted. A single request yields at most one element.
func (s *Server) HandleRaw(text string) []*Response {
	resps, _ := s.handle([]byte(text))
	return resps
}

func (s *Server) handle(data []byte) (resps []*Response, isBatch bool) {
	if err := s.opts.codec.Validate(data); err != nil {
		// batch or single is unknowable here, and no id is recoverable
		s.opts.logger.Debug("request text is not valid JSON", zap.Error(err))
		return []*Response{{JSONRPC: Version, Error: parseErr(err, data)}}, false
	}

	var elements []RawMessage
	if err := s.opts.codec.Decode(data, &elements); err == nil {
		if len(elements) == 0 {
			return []*Response{{JSONRPC: Version, Error: NewError(InvalidRequest, "")}}, false
		}

		resps = make([]*Response, 0, len(elements))
		for _, element := range elements {
			if resp := s.single(element); resp != nil {
				resps = append(resps, resp)
			}
		}
		return resps, true
	}

	if resp := s.single(data); resp != nil {
		return []*Response{resp}, false
	}
	return nil, false
}

// single runs one request through the decode, version check, route,
// invoke pipeline. A nil return means the response was suppressed.
func (s *Server) single(element []byte) *Response {
	var req Request
	if err := s.opts.codec.Decode(element, &req); err != nil {
		// salvage an id so the caller can still correlate the failure
		var id *ID
		if xerr := s.opts.codec.Extract(element, "/id", &id); xerr != nil {
			id = nil
		}
		return &Response{JSONRPC: Version, Error: InvalidError(err, element), ID: id}
	}

	if req.JSONRPC != Version {
		return &Response{JSONRPC: Version, Error: VersionError(req.JSONRPC), ID: req.ID}
	}

	for _, m := range s.methods {
		if m.Name() != req.Method {
			continue
		}

		resp := m.dispatch(s.opts.codec, element, req.ID)
		if resp == nil {
			s.opts.logger.Debug("notification handled",
				zap.String("method", req.Method),
			)
			return nil
		}
		if resp.Error != nil {
			s.opts.logger.Debug("request failed",
				zap.String("method", req.Method),
				zap.Int64("code", int64(resp.Error.Code)),
			)
		}
		return resp
	}

	s.opts.logger.Debug("method not found", zap.String("method", req.Method))
	return &Response{JSONRPC: Version, Error: MethodError(req.Method), ID: req.ID}
}
