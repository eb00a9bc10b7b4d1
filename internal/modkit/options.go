package modkit

// Option mutates build configuration for a module
type Option func(*buildCfg)

// buildCfg is internal wiring state for options
type buildCfg struct {
	name  string
	ports any
}

// WithName sets a module name used in logs
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPorts injects ports the module should use instead of building its own
// the concrete type is owned by the receiving module
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}
