package btrees

import (
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// maxDepth bounds how many levels a descent may cross before the tree is
// judged corrupt. A well-formed APFS B-tree is never more than a handful
// of levels deep; anything claiming to be deeper is almost certainly a
// cycle manufactured by a crafted or damaged image.
const maxDepth = 12

// Flags controls how a Query walks a tree.
type Flags uint8

const (
	// FlagMultiple asks Descend to leave the query positioned so that
	// Next can resume it, instead of collapsing the ancestry chain
	// back down to a single node on success. Such a query compares only
	// the OID and Kind of each key, so every record sharing that prefix
	// with the search key matches.
	FlagMultiple Flags = 1 << iota

	// FlagExact requires the leaf record to compare equal to the search
	// key; without it, the query returns whatever record immediately
	// precedes the key in sort order (the record that would need to be
	// followed to reach it).
	FlagExact

	// FlagOmap marks a query as walking an object map itself, so its
	// nonleaf child pointers are physical addresses and never need a
	// further lookup through another object map.
	FlagOmap

	flagNext
	flagDone
)

// NodeSource reads the node stored at a physical address, verifying its
// checksum and basic structural sanity before returning it.
type NodeSource interface {
	ReadNode(paddr types.Paddr) (*node, error)
}

// OIDResolver maps a child object identifier found in a nonleaf catalog
// record to the physical address of the node it names, by looking it up
// in the tree's object map. Queries flagged FlagOmap never call this: an
// object map's own nonleaf values are already physical addresses.
type OIDResolver func(oid uint64) (types.Paddr, error)

// Query is the ancestry chain used to resolve a single key (or, with
// FlagMultiple, a run of matching keys) against a B-tree. Each level of
// the chain owns the node it is searching; Parent is nil only at the
// chain's root.
type Query struct {
	src     NodeSource
	resolve OIDResolver
	decoder KeyDecoder
	compare KeyComparator
	key     Key

	node   *node
	index  int
	flags  Flags
	depth  int
	parent *Query
}

func newQuery(n *node, key Key, src NodeSource, resolve OIDResolver, decoder KeyDecoder, compare KeyComparator, flags Flags, parent *Query) *Query {
	q := &Query{
		src:     src,
		resolve: resolve,
		decoder: decoder,
		compare: compare,
		key:     key,
		node:    n,
		flags:   flags,
		parent:  parent,
		index:   int(n.reader.KeyCount()),
	}
	if parent != nil {
		q.depth = parent.depth + 1
		q.flags = parent.flags &^ (flagDone | flagNext)
	}
	return q
}

// Result is a single matched record: its decoded key and the raw bytes of
// its value, still owned by the node that produced them.
type Result struct {
	Key   Key
	Value []byte
}

// Descend walks root looking for key, returning the cursor positioned at
// the first matching leaf record together with that record. If flags
// includes FlagMultiple, call Next on the returned cursor to continue to
// the following match; the cursor returned from Next replaces it, since
// re-ascending the ancestry chain changes which level is current.
func Descend(src NodeSource, resolve OIDResolver, decoder KeyDecoder, compare KeyComparator, root *node, key Key, flags Flags) (*Query, Result, error) {
	q := newQuery(root, key, src, resolve, decoder, compare, flags, nil)
	return q.run()
}

// Next continues a query created with FlagMultiple, returning the cursor
// and record that follow the one last returned.
func (q *Query) Next() (*Query, Result, error) {
	q.flags |= flagNext
	return q.run()
}

// run executes the query's main driving loop (btree_query): it searches
// the current node, descends into a child on a nonleaf match, and moves
// back up the ancestry chain when a node has nothing left to offer. The
// returned *Query is the cursor callers must use for any further Next
// call, since ascending the chain changes which level is current.
func (q *Query) run() (*Query, Result, error) {
	cur := q
	for {
		if cur.depth >= maxDepth {
			return cur, Result{}, corruptf("b-tree is too deep")
		}

		err := cur.searchNode()
		if err == errContinueUp {
			if cur.parent == nil {
				return cur, Result{}, ErrNoMore
			}
			cur = cur.parent
			continue
		}
		if err != nil {
			return cur, Result{}, err
		}

		if cur.node.reader.IsLeaf() {
			valBytes, lerr := cur.node.locateData(cur.index)
			if lerr != nil {
				return cur, Result{}, lerr
			}
			keyBytes, kerr := cur.node.locateKey(cur.index)
			if kerr != nil {
				return cur, Result{}, kerr
			}
			decoded, derr := cur.decoder.DecodeKey(keyBytes)
			if derr != nil {
				return cur, Result{}, derr
			}
			return cur, Result{Key: decoded, Value: valBytes}, nil
		}

		childBytes, derr := cur.node.locateData(cur.index)
		if derr != nil {
			return cur, Result{}, derr
		}
		childID, cerr := childOID(cur.node, childBytes)
		if cerr != nil {
			return cur, Result{}, cerr
		}

		var childAddr types.Paddr
		if cur.flags&FlagOmap != 0 {
			childAddr = types.Paddr(childID)
		} else {
			if cur.resolve == nil {
				return cur, Result{}, corruptf("nonleaf catalog descent requires an object map resolver")
			}
			addr, rerr := cur.resolve(childID)
			if rerr != nil {
				return cur, Result{}, rerr
			}
			childAddr = addr
		}

		child, rerr := cur.src.ReadNode(childAddr)
		if rerr != nil {
			return cur, Result{}, rerr
		}
		if child.reader.OID() != childID {
			return cur, Result{}, corruptf("wrong object id on b-tree node at block 0x%x", childAddr)
		}

		if cur.flags&FlagMultiple != 0 {
			// Remember this level so a later Next can resume it; go a
			// level deeper in a fresh query that treats cur as its parent.
			cur = newQuery(child, cur.key, cur.src, cur.resolve, cur.decoder, cur.compare, cur.flags, cur)
		} else {
			cur.node = child
			cur.index = int(child.reader.KeyCount())
			cur.depth++
		}
	}
}

// errContinueUp signals that the search should move back up to the parent
// level and keep looking there: this node has nothing left to check, but
// an ancestor might still hold an unexplored branch.
var errContinueUp = controlSignal("continue search at parent level")

type controlSignal string

func (e controlSignal) Error() string { return string(e) }

// searchNode executes one level's worth of the query: either a fresh
// bisection (node_query) or, when flagNext is set, a linear step to the
// previous record in the node (node_next).
func (q *Query) searchNode() error {
	if q.flags&flagNext != 0 {
		return q.advance()
	}
	return q.bisect()
}

// bisect performs the node_query binary search: starting from the last
// record and narrowing towards the record that immediately precedes
// query.key, preserving the original midpoint bias exactly (floor when the
// current key compares after the target, ceiling when it compares before)
// so the search converges on the same record the reference implementation
// would pick.
func (q *Query) bisect() error {
	n := q.node
	left := 0
	right := q.index - 1
	cmp := 1

	for {
		if cmp > 0 {
			right = q.index - 1
			if right < left {
				return ErrNotFound
			}
			q.index = (left + right) / 2
		} else {
			left = q.index
			q.index = divRoundUp(left+right, 2)
		}

		curr, err := q.currentKey()
		if err != nil {
			return err
		}
		cmp = q.compareCurrent(curr)
		if cmp == 0 && q.flags&FlagMultiple == 0 {
			break
		}
		if left == right {
			break
		}
	}

	if cmp > 0 {
		return ErrNotFound
	}
	if cmp != 0 && n.reader.IsLeaf() && q.flags&FlagExact != 0 {
		return ErrNotFound
	}

	if q.flags&FlagMultiple != 0 {
		if cmp != 0 {
			q.flags |= flagDone
		}
		q.flags |= flagNext
	}
	return nil
}

// advance steps to the previous record in the current node, used to
// continue a FlagMultiple query without re-bisecting.
func (q *Query) advance() error {
	if q.flags&flagDone != 0 {
		return ErrNoMore
	}
	if q.index == 0 {
		return errContinueUp
	}
	q.index--

	curr, err := q.currentKey()
	if err != nil {
		return err
	}
	cmp := q.compareCurrent(curr)
	if cmp > 0 {
		return corruptf("b-tree records are out of order")
	}
	if cmp != 0 && q.node.reader.IsLeaf() && q.flags&FlagExact != 0 {
		return ErrNoMore
	}
	if cmp != 0 {
		q.flags |= flagDone
	}
	return nil
}

func (q *Query) currentKey() (Key, error) {
	raw, err := q.node.locateKey(q.index)
	if err != nil {
		return Key{}, err
	}
	return q.decoder.DecodeKey(raw)
}

// compareCurrent compares curr against the query's search key. For a
// FlagMultiple query, XID, Number and Name are cleared on copies of both
// keys first, so only the OID/Kind prefix takes part in the comparison.
func (q *Query) compareCurrent(curr Key) int {
	key := q.key
	if q.flags&FlagMultiple != 0 {
		curr.XID, curr.Number, curr.Name = 0, 0, ""
		key.XID, key.Number, key.Name = 0, 0, ""
	}
	return q.compare(curr, key)
}

func divRoundUp(a, b int) int {
	return (a + b - 1) / b
}
