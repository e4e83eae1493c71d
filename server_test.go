// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package jrpc2_test

import (
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"go.jrpc.dev/jrpc2"
)

type addParams struct {
	A int `json:"a"`
	B int `json:"b"`
}

type addResult struct {
	Sum int `json:"sum"`
}

// newAddServer builds a server with an "add" method that fails on
// negative terms and a "subtract" method that has no handler registered.
func newAddServer(t *testing.T) (*jrpc2.Server, *jrpc2.ServerMethod[addParams, addResult]) {
	t.Helper()

	add := jrpc2.NewServerMethod[addParams, addResult]("add")
	add.Use(func(p addParams) (addResult, *jrpc2.Error) {
		if p.A < 0 || p.B < 0 {
			return addResult{}, jrpc2.NewError(jrpc2.Code(-32050), "negative term")
		}
		return addResult{Sum: p.A + p.B}, nil
	})
	subtract := jrpc2.NewServerMethod[[]int, int]("subtract")

	srv := jrpc2.NewServer(
		[]jrpc2.ServerEntry{add, subtract},
		jrpc2.WithLogger(zap.NewNop()),
	)
	return srv, add
}

func decodeResponses(t *testing.T, text string) []jrpc2.Response {
	t.Helper()

	var resps []jrpc2.Response
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &resps); err != nil {
			t.Fatal(err)
		}
		return resps
	}
	var resp jrpc2.Response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatal(err)
	}
	return []jrpc2.Response{resp}
}

func TestHandleCall(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`{"jsonrpc":"2.0","method":"add","params":{"a":3,"b":4},"id":1}`)
	checkJSON(t, []byte(got), []byte(`{"jsonrpc":"2.0","result":{"sum":7},"id":1}`))
}

func TestHandleHandlerError(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`{"jsonrpc":"2.0","method":"add","params":{"a":-1,"b":4},"id":2}`)
	checkJSON(t, []byte(got), []byte(`{"jsonrpc":"2.0","error":{"code":-32050,"message":"negative term"},"id":2}`))
}

func TestHandleNotification(t *testing.T) {
	t.Parallel()

	t.Run("success is suppressed", func(t *testing.T) {
		t.Parallel()

		srv, add := newAddServer(t)
		var calls int
		add.Use(func(p addParams) (addResult, *jrpc2.Error) {
			calls++
			return addResult{Sum: p.A + p.B}, nil
		})

		if got := srv.Handle(`{"jsonrpc":"2.0","method":"add","params":{"a":1,"b":1}}`); got != "" {
			t.Errorf("got %q want no response", got)
		}
		// the handler still runs even though nothing is emitted
		if calls != 1 {
			t.Errorf("handler ran %d times, want 1", calls)
		}
	})

	t.Run("error is emitted with null id", func(t *testing.T) {
		t.Parallel()

		srv, _ := newAddServer(t)
		got := srv.Handle(`{"jsonrpc":"2.0","method":"add","params":{"a":-1,"b":1}}`)
		checkJSON(t, []byte(got), []byte(`{"jsonrpc":"2.0","error":{"code":-32050,"message":"negative term"},"id":null}`))
	})
}

func TestHandleEmptyBatch(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`[]`)
	if strings.HasPrefix(got, "[") {
		t.Fatalf("got an array %q, want a single error object", got)
	}
	checkJSON(t, []byte(got), []byte(`{"jsonrpc":"2.0","error":{"code":-32600,"message":"Invalid request"},"id":null}`))
}

func TestHandleBatch(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	// a call, a successful notification (suppressed), an unknown method
	// and a malformed element, in that order
	got := srv.Handle(`[
		{"jsonrpc":"2.0","method":"add","params":{"a":1,"b":2},"id":10},
		{"jsonrpc":"2.0","method":"add","params":{"a":1,"b":2}},
		{"jsonrpc":"2.0","method":"launch","id":11},
		5
	]`)

	resps := decodeResponses(t, got)
	if len(resps) != 3 {
		t.Fatalf("got %d responses, want 3: %s", len(resps), got)
	}

	if resps[0].Error != nil || resps[0].ID == nil || *resps[0].ID != jrpc2.NewNumberID(10) {
		t.Errorf("first response should be the successful call with id 10: %s", got)
	}
	if resps[1].Error == nil || resps[1].Error.Code != jrpc2.MethodNotFound {
		t.Errorf("second response should be method not found: %s", got)
	}
	if resps[1].ID == nil || *resps[1].ID != jrpc2.NewNumberID(11) {
		t.Errorf("second response should keep id 11: %s", got)
	}
	if resps[2].Error == nil || resps[2].Error.Code != jrpc2.InvalidRequest {
		t.Errorf("third response should be invalid request: %s", got)
	}
	if resps[2].ID != nil {
		t.Errorf("third response should have a null id: %s", got)
	}
}

func TestHandleAllNotificationBatch(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`[
		{"jsonrpc":"2.0","method":"add","params":{"a":1,"b":2}},
		{"jsonrpc":"2.0","method":"add","params":{"a":3,"b":4}}
	]`)
	checkJSON(t, []byte(got), []byte(`[]`))
}

func TestHandleParseError(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`{"jsonrpc":"2.0",`)
	resps := decodeResponses(t, got)
	if len(resps) != 1 {
		t.Fatalf("got %d responses, want 1", len(resps))
	}
	if resps[0].Error == nil || resps[0].Error.Code != jrpc2.ParseError {
		t.Fatalf("got %v, want a parse error", resps[0].Error)
	}
	if resps[0].ID != nil {
		t.Error("no id is recoverable from invalid JSON")
	}
	if resps[0].Error.Data == nil {
		t.Error("expected a positioned diagnostic in error data")
	}
}

func TestHandleNonEnvelopeRoot(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	// valid JSON, but neither an array nor a request object
	got := srv.Handle(`"hello"`)
	resps := decodeResponses(t, got)
	if resps[0].Error == nil || resps[0].Error.Code != jrpc2.InvalidRequest {
		t.Fatalf("got %v, want invalid request", resps[0].Error)
	}
	if resps[0].ID != nil {
		t.Error("expected a null id")
	}
}

func TestHandleMethodNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`{"jsonrpc":"2.0","method":"launch","id":4}`)
	resps := decodeResponses(t, got)
	if resps[0].Error == nil || resps[0].Error.Code != jrpc2.MethodNotFound {
		t.Fatalf("got %v, want method not found", resps[0].Error)
	}
	if !strings.Contains(resps[0].Error.Message, "launch") {
		t.Errorf("message %q does not cite the method name", resps[0].Error.Message)
	}
}

func TestHandleVersionMismatch(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"wrong version": `{"jsonrpc":"1.0","method":"add","params":{"a":1,"b":2},"id":5}`,
		"missing tag":   `{"method":"add","params":{"a":1,"b":2},"id":5}`,
	}
	for name, request := range tests {
		request := request
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newAddServer(t)
			resps := decodeResponses(t, srv.Handle(request))
			if resps[0].Error == nil || resps[0].Error.Code != jrpc2.InvalidRequest {
				t.Fatalf("got %v, want invalid request", resps[0].Error)
			}
			if !strings.Contains(resps[0].Error.Message, "only supported version is 2.0") {
				t.Errorf("message %q does not cite the version mismatch", resps[0].Error.Message)
			}
			if resps[0].ID == nil || *resps[0].ID != jrpc2.NewNumberID(5) {
				t.Error("the request id must survive a version mismatch")
			}
		})
	}
}

func TestHandleIDSalvage(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	// the method field is not a string, so the envelope fails to decode;
	// the id is still recovered from the raw text
	got := srv.Handle(`{"jsonrpc":"2.0","method":5,"id":7}`)
	resps := decodeResponses(t, got)
	if resps[0].Error == nil || resps[0].Error.Code != jrpc2.InvalidRequest {
		t.Fatalf("got %v, want invalid request", resps[0].Error)
	}
	if resps[0].ID == nil || *resps[0].ID != jrpc2.NewNumberID(7) {
		t.Errorf("got id %v, want salvaged id 7", resps[0].ID)
	}
}

func TestHandleInvalidParams(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`{"jsonrpc":"2.0","method":"add","params":{"a":"three","b":4},"id":8}`)
	resps := decodeResponses(t, got)
	if resps[0].Error == nil || resps[0].Error.Code != jrpc2.InvalidRequest {
		t.Fatalf("got %v, want invalid request", resps[0].Error)
	}
	if resps[0].ID == nil || *resps[0].ID != jrpc2.NewNumberID(8) {
		t.Error("the request id must survive a params decode failure")
	}
	if resps[0].Error.Data == nil {
		t.Error("expected a diagnostic in error data")
	}
}

func TestHandleNotImplemented(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`{"jsonrpc":"2.0","method":"subtract","params":[42,23],"id":9}`)
	checkJSON(t, []byte(got), []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"Not implemented"},"id":9}`))
}

func TestHandleHandlerPanic(t *testing.T) {
	t.Parallel()

	srv, add := newAddServer(t)
	add.Use(func(addParams) (addResult, *jrpc2.Error) {
		panic("boom")
	})

	resps := decodeResponses(t, srv.Handle(`{"jsonrpc":"2.0","method":"add","params":{},"id":12}`))
	if resps[0].Error == nil || resps[0].Error.Code != jrpc2.InternalError {
		t.Fatalf("got %v, want internal error", resps[0].Error)
	}
	if !strings.Contains(resps[0].Error.Message, "boom") {
		t.Errorf("message %q does not carry the panic value", resps[0].Error.Message)
	}
}

func TestHandleRaw(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	t.Run("single call", func(t *testing.T) {
		t.Parallel()

		resps := srv.HandleRaw(`{"jsonrpc":"2.0","method":"add","params":{"a":3,"b":4},"id":1}`)
		if len(resps) != 1 {
			t.Fatalf("got %d responses, want 1", len(resps))
		}
		checkJSON(t, []byte(resps[0].Result), []byte(`{"sum":7}`))
	})

	t.Run("single notification", func(t *testing.T) {
		t.Parallel()

		if resps := srv.HandleRaw(`{"jsonrpc":"2.0","method":"add","params":{"a":3,"b":4}}`); len(resps) != 0 {
			t.Fatalf("got %d responses, want none", len(resps))
		}
	})

	t.Run("batch", func(t *testing.T) {
		t.Parallel()

		resps := srv.HandleRaw(`[
			{"jsonrpc":"2.0","method":"add","params":{"a":1,"b":1},"id":1},
			{"jsonrpc":"2.0","method":"add","params":{"a":1,"b":1}}
		]`)
		if len(resps) != 1 {
			t.Fatalf("got %d responses, want 1", len(resps))
		}
		if resps[0].ID == nil || *resps[0].ID != jrpc2.NewNumberID(1) {
			t.Error("expected the call response, notification suppressed")
		}
	})
}

func TestHandlerReassignment(t *testing.T) {
	t.Parallel()

	srv, add := newAddServer(t)
	add.Use(func(p addParams) (addResult, *jrpc2.Error) {
		return addResult{Sum: 100}, nil
	})

	got := srv.Handle(`{"jsonrpc":"2.0","method":"add","params":{"a":1,"b":1},"id":1}`)
	checkJSON(t, []byte(got), []byte(`{"jsonrpc":"2.0","result":{"sum":100},"id":1}`))
}

func TestHandleStringID(t *testing.T) {
	t.Parallel()

	srv, _ := newAddServer(t)

	got := srv.Handle(`{"jsonrpc":"2.0","method":"add","params":{"a":2,"b":3},"id":"req-1"}`)
	checkJSON(t, []byte(got), []byte(`{"jsonrpc":"2.0","result":{"sum":5},"id":"req-1"}`))
}
