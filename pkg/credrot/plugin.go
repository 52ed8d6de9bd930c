package credrot

import "context"

// Plugin extends the host loop.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string
	// Initialize is called when Run starts. A returned error aborts Run.
	Initialize(ctx context.Context, cfg PluginConfig) error
	// Shutdown is called when Run returns.
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin gets to work with.
type PluginConfig struct {
	StateDir string
	// StorePath is the file holding the session, empty if the store is not
	// file backed.
	StorePath string
	Logger    Logger
	// Wake asks an idle host to check the store. It never blocks.
	Wake func()
}

// BasePlugin provides no-op lifecycle methods for embedding.
type BasePlugin struct {
	PluginName string
}

// Name returns PluginName.
func (p BasePlugin) Name() string { return p.PluginName }

// Initialize does nothing.
func (BasePlugin) Initialize(ctx context.Context, cfg PluginConfig) error { return nil }

// Shutdown does nothing.
func (BasePlugin) Shutdown(ctx context.Context) error { return nil }
