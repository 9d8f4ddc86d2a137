package cascade

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var (
	// ErrParentRequired is returned when a dependent value is chosen without a parent.
	ErrParentRequired = errors.New("choose the parent value first")
	// ErrUnknownOption is returned when a dependent value is not among the parent's options.
	ErrUnknownOption = errors.New("value is not available for the chosen parent")
	// ErrSuperseded is returned by a load whose parent was changed again before it finished.
	ErrSuperseded = errors.New("superseded by a newer parent selection")
)

// Option is one choice of a select.
type Option struct {
	Value string
	Label string
}

// Loader fetches the dependent options of a parent value.
type Loader func(ctx context.Context, parent string) ([]Option, error)

// Chain is a parent select whose value decides the options of a dependent
// select, such as destination and departure port. It is safe for concurrent use.
type Chain struct {
	load Loader

	mu      sync.Mutex
	gen     uint64
	parent  string
	child   string
	options []Option
	loading bool
}

// NewChain creates an empty chain.
func NewChain(load Loader) *Chain {
	return &Chain{load: load}
}

// SetParent selects parent and reloads the dependent options. An empty parent
// empties and disables the dependent. The dependent value survives only if
// the new options contain it. When SetParent is called again before a load
// finishes, the older load returns ErrSuperseded and changes nothing.
func (c *Chain) SetParent(ctx context.Context, parent string) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.parent = parent
	c.options = nil
	if parent == "" {
		c.child = ""
		c.loading = false
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	opts, err := c.load(ctx, parent)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		c.child = ""
		return err
	}
	c.options = opts
	if !containsValue(opts, c.child) {
		c.child = ""
	}
	return nil
}

// Hydrate restores a saved parent and dependent pair, as when an editor opens
// on an existing record.
func (c *Chain) Hydrate(ctx context.Context, parent, child string) error {
	c.mu.Lock()
	c.child = child
	c.mu.Unlock()
	return c.SetParent(ctx, parent)
}

// SetChild selects a dependent value. An empty value clears it.
func (c *Chain) SetChild(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		c.child = ""
		return nil
	}
	if c.parent == "" {
		return ErrParentRequired
	}
	if !containsValue(c.options, value) {
		return ErrUnknownOption
	}
	c.child = value
	return nil
}

// Validate reports a dependent value that has no parent or that the parent
// does not offer.
func (c *Chain) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.child == "" {
		return nil
	}
	if c.parent == "" {
		return ErrParentRequired
	}
	if !c.loading && !containsValue(c.options, c.child) {
		return ErrUnknownOption
	}
	return nil
}

func (c *Chain) Parent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent
}

func (c *Chain) Child() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.child
}

// Options returns the dependent options of the current parent.
func (c *Chain) Options() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.options)
}

// Loading reports whether dependent options are being fetched.
func (c *Chain) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Disabled reports whether the dependent select should be disabled.
func (c *Chain) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent == "" || c.loading || len(c.options) == 0
}

func containsValue(opts []Option, v string) bool {
	if v == "" {
		return false
	}
	return slices.ContainsFunc(opts, func(o Option) bool { return o.Value == v })
}
