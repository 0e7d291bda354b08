package repository

// Option applies a configuration option to the Store.
type Option func(*options)

type options struct {
	seed uint64
}

// WithSeed mixes seed into the treap node priorities. Ordering and results
// never depend on it, only the tree shape does.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}
