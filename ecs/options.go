package ecs

import "log"

// Option configures a Scene or a Registry.
type Option func(*options)

type options struct {
	logger *log.Logger
}

func buildOptions(opts []Option) options {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger routes non-fatal diagnostics (unregistering a missing
// processor, overwriting or removing scenes) to l. A nil logger keeps the
// default.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
