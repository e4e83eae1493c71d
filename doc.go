// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package jrpc2 implements the message level logic of the JSON-RPC 2.0
// specification.
//
// https://www.jsonrpc.org/specification
//
// The package speaks both sides of the protocol over plain text. A Server
// decodes incoming request text, routes it by method name to a registered
// handler, and produces a conformant response, including batch and
// notification semantics. A Client builds outgoing request text, tracks
// in-flight calls by id in per-method pending tables, and resolves arriving
// response text back to the callback that issued the call.
//
// Transports are deliberately absent. Both ends only ever consume and
// produce strings; wiring those strings to HTTP, stdio or a websocket is
// the caller's concern.
package jrpc2 // import "go.jrpc.dev/jrpc2"
