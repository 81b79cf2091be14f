// Package tree interprets compressed decision trees.
//
// A compressed tree is a byte sequence walked node by node; it is never
// materialized as a node graph. Each node is laid out as:
//
//	[1 byte: node type]  bits 0,1,4,5 left skip width; bits 2,3 split kind; bits 6,7 right mask
//	[2 bytes: column]    65535 marks a leaf: a 4-byte float follows
//	[1 byte: NA split direction]
//	[operand]            float32 threshold, or 2/3 bitset bytes; absent for NA-vs-rest splits
//	[skip field]         1-4 bytes holding the size of the left subtree (absent for inline leaves)
//	[left subtree][right subtree]
//
// Scoring a row walks from the root, skipping the left subtree whenever the
// row goes right, until it lands on a leaf value.
package tree
