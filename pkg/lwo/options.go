package lwo

import (
	"go.uber.org/zap"

	"github.com/Faultbox/lwostrut/pkg/encoding"
)

// Option configures a parse.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	strict  bool
	charset encoding.Decoder
}

func defaultOptions() options {
	return options{
		logger:  zap.NewNop(),
		charset: encoding.Default,
	}
}

// WithLogger sets the logger for skip and diagnostic events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStrict makes unconsumed chunk payload bytes a fatal ErrLengthMismatch
// instead of a logged warning.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithCharset sets the decoder for stored strings. UTF-8 is the default.
func WithCharset(d encoding.Decoder) Option {
	return func(o *options) {
		o.charset = d
	}
}
