package btrees

import (
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// ValidateSubtree walks every record of root and its descendants, failing
// on the first sign of structural corruption: out-of-order keys, repeated
// leaf keys, or a nonleaf child whose own object header disagrees with the
// identifier its parent recorded for it. lastKey is the key that must sort
// before every key in this subtree (the zero Key, for a tree's overall
// root); on return it holds the last key visited, so a caller walking a
// parent's siblings can keep threading it through unchanged.
//
// When omapRoot is non-nil, nonleaf child identifiers are resolved through
// it before the child node is read — this is how a catalog tree's virtual
// child OIDs turn into physical block numbers. When omapRoot is nil, the
// tree being validated is itself an object map, whose own nonleaf values
// are already physical addresses and need no further translation.
func ValidateSubtree(src NodeSource, root *node, decoder KeyDecoder, compare KeyComparator, lastKey *Key, omapRoot *node) error {
	for i := 0; i < int(root.reader.KeyCount()); i++ {
		keyBytes, err := root.locateKey(i)
		if err != nil {
			return err
		}
		curr, err := decoder.DecodeKey(keyBytes)
		if err != nil {
			return err
		}

		if compare(*lastKey, curr) > 0 {
			return corruptf("node keys are out of order")
		}
		if i != 0 && root.reader.IsLeaf() && compare(*lastKey, curr) == 0 {
			return corruptf("leaf keys are repeated")
		}
		*lastKey = curr

		if root.reader.IsLeaf() {
			continue
		}

		valBytes, err := root.locateData(i)
		if err != nil {
			return err
		}
		childID, err := childOID(root, valBytes)
		if err != nil {
			return err
		}

		var childAddr uint64
		if omapRoot != nil {
			addr, err := LookupBlock(src, omapRoot, childID)
			if err != nil {
				return err
			}
			childAddr = uint64(addr)
		} else {
			childAddr = childID
		}

		child, err := src.ReadNode(types.Paddr(childAddr))
		if err != nil {
			return err
		}
		if child.reader.OID() != childID {
			return corruptf("wrong object id on b-tree node")
		}

		if err := ValidateSubtree(src, child, decoder, compare, lastKey, omapRoot); err != nil {
			return err
		}
	}
	return nil
}
