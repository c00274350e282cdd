package bloom

import "go.uber.org/zap"

type options struct {
	canonical Canonicalizer
	logger    *zap.Logger
	observer  Observer
}

func defaultOptions() options {
	return options{
		canonical: Canonical,
		logger:    zap.NewNop(),
		observer:  NoopObserver{},
	}
}

// Option configures a DynamicFilter.
type Option func(*options)

// WithCanonicalizer replaces Canonical as the value-to-string mapping.
func WithCanonicalizer(c Canonicalizer) Option {
	return func(o *options) {
		if c != nil {
			o.canonical = c
		}
	}
}

// WithLogger sets the logger used for segment allocation events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers an Observer for add, query and growth events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
