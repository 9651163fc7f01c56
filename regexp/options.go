package regexp

import "time"

type options struct {
	timeout time.Duration
}

// Option configures compilation for [CompileFlags].
type Option func(*options)

// WithTimeout bounds the wall-clock time of a single search run by regexp2,
// including the rune-safe program of a coregex pattern. coregex itself runs
// in linear time and ignores it. Values <= 0 disable the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
