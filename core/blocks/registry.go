package blocks

import (
	"context"
	"fmt"
	"sync"
)

// Kind is the block shape shown by the host environment.
type Kind string

const (
	KindCommand  Kind = "command"
	KindHat      Kind = "hat"
	KindReporter Kind = "reporter"
)

// Args holds the string arguments of a block invocation keyed by name.
type Args map[string]string

// Block is a single operation the host environment can invoke.
type Block interface {
	Opcode() string
	Kind() Kind
	Text() string
	Arguments() []string
	Execute(ctx context.Context, args Args) (string, error)
}

// Registry holds blocks keyed by opcode and remembers registration order.
type Registry struct {
	mu     sync.RWMutex
	blocks map[string]Block
	order  []string
}

// NewRegistry creates an empty block registry.
func NewRegistry() *Registry {
	return &Registry{blocks: make(map[string]Block)}
}

// Register adds a block. Returns an error if the opcode is already registered.
func (r *Registry) Register(b Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op := b.Opcode()
	if _, exists := r.blocks[op]; exists {
		return fmt.Errorf("block already registered: %s", op)
	}
	r.blocks[op] = b
	r.order = append(r.order, op)
	return nil
}

// Get returns the block with the given opcode, or nil if not found.
func (r *Registry) Get(opcode string) Block {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.blocks[opcode]
}

// List returns all blocks in registration order.
func (r *Registry) List() []Block {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Block, len(r.order))
	for i, op := range r.order {
		result[i] = r.blocks[op]
	}
	return result
}
