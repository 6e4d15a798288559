/*
Package chain provides the host runtime the content modules are executed by.

Every state transition of the modules is an invocation: a function running
against a Context. Context gives the invocation a write-cached view of the
module store, the account that signed the invocation, the current block
height, a logger and the list of notifications produced so far.

Invocations are serialized by the Executor. Changes made through the Context
are persisted to the underlying store only when the invocation returns no
error, otherwise they are dropped together with the notifications. Validation
therefore may be freely interleaved with mutation inside a module method.

Executor metrics

	content_chain_invocations_total{method,status}  counter
	content_chain_invocation_weight{method}         histogram
	content_chain_invocation_duration_seconds       histogram
	content_chain_block_height                      gauge
*/
package chain
