/*
Package merkle builds and verifies binary Merkle commitments over channel
reward entitlements.

The same package is used by the off-chain proof generator and by the content
module when it checks a claim, so both sides always agree on the tree shape
and on the byte encoding of every node.

# Hashing

All hashes are SHA-256 with one-byte domain separation:

	leaf = SHA256(0x00 || PullPayment encoding)
	node = SHA256(0x01 || left || right)

# Tree shape

Leaves are paired left to right in input order. When a level has an odd number
of nodes, the last one is carried up to the next level unchanged; it is never
duplicated. A single-leaf tree has the leaf hash as its root and an empty
proof.

# Encoding

PullPayment (41 bytes):

	version (1 byte) | channel ID (uint64 LE) | cumulative reward earned (32 bytes BE)

Proof:

	version (1 byte) | varuint count | count * (side (1 byte) | hash (32 bytes))

where side is 0 when the sibling is the left operand and 1 when it is the
right one.
*/
package merkle
