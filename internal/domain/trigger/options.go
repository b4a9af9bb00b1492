package trigger

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithPredicate registers or overrides the predicate for a flag name.
// Overrides installed here win over the built-in rules.
func WithPredicate(name string, p Predicate) Option {
	return func(e *Evaluator) {
		if name != "" && p != nil {
			e.predicates[name] = p
		}
	}
}

// WithMinEvents sets the minimum interaction count positive predicates
// require before they can trigger.
func WithMinEvents(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.minEvents = n
		}
	}
}
