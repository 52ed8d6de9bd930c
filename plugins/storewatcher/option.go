package storewatcher

import "github.com/bft-labs/credrot/pkg/credrot"

// WithStoreWatcher returns a credrot Option that enables store watching.
//
// Usage:
//
//	r, err := credrot.New(cfg,
//	    storewatcher.WithStoreWatcher(storewatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithStoreWatcher(cfg Config) credrot.Option {
	return credrot.WithPlugin(New(cfg))
}

// WithDefaultStoreWatcher returns a credrot Option that enables store
// watching with default settings (debounce 250ms).
func WithDefaultStoreWatcher() credrot.Option {
	return WithStoreWatcher(DefaultConfig())
}
