// SPDX-FileCopyrightText: 2024 The JRPC Authors
// SPDX-License-Identifier: BSD-3-Clause

package jrpc2

import (
	"go.uber.org/zap"

	"go.jrpc.dev/jrpc2/codec"
)

// Option represents a functional option for a Server or a Client.
type Option func(*options)

type options struct {
	codec  codec.Codec
	logger *zap.Logger
}

func defaultOptions() options {
	return options{
		codec:  codec.Default,
		logger: zap.NewNop(),
	}
}

// WithCodec applies a custom codec.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithLogger applies a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
