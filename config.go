package kvstore

// Config controls how a datastore is assembled at startup.
type Config struct {
	DBName           string
	StartHookManager bool
}

// Builder assembles a Config with sensible defaults: a root database
// named "root" and no hook manager.
type Builder struct {
	cfg Config
}

// NewBuilder returns a Builder seeded with the default configuration.
func NewBuilder() *Builder {
	return &Builder{cfg: Config{DBName: "root", StartHookManager: false}}
}

// SetDatabaseName overrides the default root database name.
func (b *Builder) SetDatabaseName(name string) *Builder {
	b.cfg.DBName = name
	return b
}

// EnableHookManager requests that a hook manager worker be started.
func (b *Builder) EnableHookManager() *Builder {
	b.cfg.StartHookManager = true
	return b
}

// DisableHookManager requests that no hook manager worker be started.
func (b *Builder) DisableHookManager() *Builder {
	b.cfg.StartHookManager = false
	return b
}

// Build returns the assembled configuration.
func (b *Builder) Build() Config {
	return b.cfg
}
