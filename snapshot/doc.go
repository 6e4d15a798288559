/*
Package snapshot provides I/O operations for off-chain payout snapshots.

Payout snapshot is a table of cumulative rewards earned by the channels at a
certain block. It is built off-chain, and only the root of the Merkle tree over
it is installed as payout commitment of the content module. The table itself
must stay available to the channel owners since each claim requires a proof
built from the whole table.

The package works with snapshots stored in the file system using
human-readable encoding:

	'<label>-<block>-payments.csv': CSV of 'channel,earned' records
	'<label>-<block>-commitment.json': JSON description of the commitment

Channel identifiers and amounts are decimal. Records order defines the order
of the tree leaves. Commitment root is base58-encoded.
*/
package snapshot
