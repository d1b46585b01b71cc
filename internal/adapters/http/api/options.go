// Package api declares HTTP contracts and route registration helpers.
package api

// defaultMaxUploadBytes caps workbook uploads at 16 MiB.
const defaultMaxUploadBytes = 16 << 20

type options struct {
	maxUploadBytes int64
}

// Option applies a configuration option to the Server.
type Option func(*options)

func newOptions(opts ...Option) options {
	cfg := options{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxUploadBytes sets the upload size cap for POST /api/workbook.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}
