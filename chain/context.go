package chain

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Context is an execution context of a single invocation.
type Context struct {
	store  *storage.MemCachedStore
	caller util.Uint160
	height uint32
	log    *zap.Logger

	events []state.NotificationEvent
	// first storage read failure, Commit fails if set
	err error
}

// NewContext returns Context writing into the cached overlay of the given
// store. Changes are not visible in lower store until Commit is called.
// Nil logger is replaced with no-op one.
func NewContext(lower storage.Store, caller util.Uint160, height uint32, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}

	return &Context{
		store:  storage.NewMemCachedStore(lower),
		caller: caller,
		height: height,
		log:    log,
	}
}

// Caller returns account that signed the invocation.
func (c *Context) Caller() util.Uint160 {
	return c.caller
}

// CheckWitness checks whether the invocation is signed by the given account.
func (c *Context) CheckWitness(acc util.Uint160) bool {
	return c.caller.Equals(acc)
}

// BlockHeight returns index of the block the invocation is included in.
func (c *Context) BlockHeight() uint32 {
	return c.height
}

// Get returns value stored by the key or nil if there is no such value.
// Read failures other than missing key are recorded and returned by Err, the
// Context can't be committed after that.
func (c *Context) Get(key []byte) []byte {
	v, err := c.store.Get(key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			c.log.Error("storage read failure", zap.Binary("key", key), zap.Error(err))
			if c.err == nil {
				c.err = fmt.Errorf("read key %x: %w", key, err)
			}
		}
		return nil
	}
	return v
}

// Err returns the first storage read failure, if any.
func (c *Context) Err() error {
	return c.err
}

// Put stores the value by the key.
func (c *Context) Put(key, value []byte) {
	c.store.Put(key, value)
}

// Delete removes value stored by the key.
func (c *Context) Delete(key []byte) {
	c.store.Delete(key)
}

// Notify emits notification on behalf of the module identified by the script
// hash.
func (c *Context) Notify(module util.Uint160, name string, items ...stackitem.Item) {
	c.events = append(c.events, state.NotificationEvent{
		ScriptHash: module,
		Name:       name,
		Item:       stackitem.NewArray(items),
	})
}

// Events returns notifications emitted so far.
func (c *Context) Events() []state.NotificationEvent {
	return c.events
}

// Log writes message into the invocation log.
func (c *Context) Log(msg string, fields ...zap.Field) {
	c.log.Info(msg, fields...)
}

// Commit flushes changes into the lower store. It fails without writing
// anything if some read has failed.
func (c *Context) Commit() error {
	if c.err != nil {
		return c.err
	}
	_, err := c.store.Persist()
	return err
}
