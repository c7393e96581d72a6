// Package pipeline implements a composable dataflow graph of processing
// blocks for streaming multichannel signal chunks. Blocks are arranged in
// series and parallel by an explicit topology; stateful blocks preserve
// continuity (sliding windows, filter state, index maps) across chunk
// boundaries until cleared.
package pipeline

// Data is a value flowing between blocks: a *signal.Buffer produced by a
// single block, or a Group collecting the outputs of a parallel group.
type Data interface{}

// Group is the ordered list of outputs produced by a parallel group.
// Consumers destructure it by position, in declared member order.
type Group []Data

// Hook observes a block's output. Hooks are invoked synchronously by the
// owning pipeline right after the block's Process returns, before control
// returns up the call stack. They must not modify the output and have no
// influence on pipeline control flow.
type Hook func(Data)

// Block is the basic unit of processing in a pipeline.
//
// Process transforms one chunk into one result. Clear resets any
// accumulated state (ring buffers, filter conditions, index caches)
// without rebuilding the block; stateless blocks treat it as a no-op.
// A Block instance is exclusively owned by one position in one pipeline:
// reusing the same instance at two positions corrupts its state, and the
// engine does not guard against it.
type Block interface {
	Name() string
	Process(data Data) (Data, error)
	Clear()
	Hooks() []Hook
}

// meta carries the identity and observer hooks shared by all blocks.
type meta struct {
	name  string
	hooks []Hook
}

// Name returns the block name used for named-block lookup.
func (m *meta) Name() string { return m.name }

// Hooks returns the block's observer callbacks.
func (m *meta) Hooks() []Hook { return m.hooks }

// config collects the knobs settable through options. Each block reads the
// fields it understands and ignores the rest.
type config struct {
	name         string
	hooks        []Hook
	proba        bool
	logProba     bool
	inverse      bool
	channelCount int
	channelNames []string
}

// Option configures a block at construction.
type Option func(*config)

// WithName overrides a block's default name.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithHooks appends observer callbacks invoked with the block's output.
func WithHooks(hooks ...Hook) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks...)
	}
}

// WithProba makes an Estimator call PredictProba instead of Predict.
func WithProba() Option {
	return func(c *config) {
		c.proba = true
	}
}

// WithLogProba makes an Estimator call PredictLogProba instead of Predict.
func WithLogProba() Option {
	return func(c *config) {
		c.logProba = true
	}
}

// WithInverse makes a Transformer call InverseTransform instead of Transform.
func WithInverse() Option {
	return func(c *config) {
		c.inverse = true
	}
}

// WithChannelCount supplies the channel count to a FeatureExtractor
// upfront so index maps are built eagerly. Channel names default to
// decimal strings "0", "1", ….
func WithChannelCount(n int) Option {
	return func(c *config) {
		c.channelCount = n
	}
}

// WithChannelNames supplies channel names to a FeatureExtractor upfront so
// index maps are built eagerly.
func WithChannelNames(names ...string) Option {
	return func(c *config) {
		c.channelNames = names
	}
}

// applyOptions resolves options against a block's default name.
func applyOptions(defaultName string, opts ...Option) config {
	cfg := config{name: defaultName}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// newMeta builds the shared identity part of a block from resolved options.
func newMeta(cfg config) meta {
	return meta{name: cfg.name, hooks: cfg.hooks}
}
