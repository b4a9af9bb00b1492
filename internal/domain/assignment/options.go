package assignment

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxFlags overrides the flag cardinality cap. Values above the model
// cap are rejected; the subject invariant always wins.
func WithMaxFlags(n int) Option {
	return func(e *Engine) {
		if n > 0 && n <= e.maxFlags {
			e.maxFlags = n
		}
	}
}
