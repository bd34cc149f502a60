package btrees

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// btreeInfoFooterSize is the size, in bytes, of the btree_info_t trailer that a
// root node carries at the end of its storage area.
const btreeInfoFooterSize = 4*4 + 4 + 4 + 8 + 8

// node wraps a decoded B-tree node with the block-size context its offsets
// are computed against. Table-of-contents entries store key offsets counted
// from the start of the key area, which begins table_space.off +
// table_space.len bytes into node.Data(); value offsets count
// backwards from the end of the block, or from the start of the root
// footer when the node is a root.
type node struct {
	reader    interfaces.BTreeNodeReader
	blockSize uint32
	endian    binary.ByteOrder
}

func newNode(reader interfaces.BTreeNodeReader, blockSize uint32, endian binary.ByteOrder) *node {
	return &node{reader: reader, blockSize: blockSize, endian: endian}
}

// recordCount fits in a single block and isn't an empty node: an empty
// node would let a Next continuation spin forever finding nothing,
// and a record count claiming more entries than the index can hold would
// let locateKey/locateData read past the node's own table of contents.
func (n *node) valid() bool {
	records := int(n.reader.KeyCount())
	if records == 0 {
		return false
	}

	tableSpace := n.reader.TableSpace()
	indexSize := int(tableSpace.Off) + int(tableSpace.Len)
	if indexSize > len(n.reader.Data()) {
		return false
	}

	entrySize := 8 // kvloc_t: two nloc_t
	if n.reader.HasFixedKVSize() {
		entrySize = 4 // kvoff_t: two uint16
	}
	return records*entrySize <= indexSize
}

// locateKey returns the bounds, within the node's data area, of the key
// belonging to the record at index. The returned slice is guaranteed to
// fit inside the node's block.
func (n *node) locateKey(index int) ([]byte, error) {
	data := n.reader.Data()
	if index < 0 || index >= int(n.reader.KeyCount()) {
		return nil, corruptf("requested record index %d out of bounds", index)
	}

	tableSpace := n.reader.TableSpace()
	keyAreaStart := int(tableSpace.Off) + int(tableSpace.Len)

	var off, length int
	if n.reader.HasFixedKVSize() {
		entry := decodeKvoff(data, index, n.endian)
		off = keyAreaStart + int(entry.K)
		length = fixedKeySize(n)
	} else {
		entry := decodeKvloc(data, index, n.endian)
		off = keyAreaStart + int(entry.K.Off)
		length = int(entry.K.Len)
	}

	if off+length > len(data) {
		return nil, corruptf("b-tree key is out-of-bounds")
	}
	return data[off : off+length], nil
}

// locateData returns the bounds, within the node's data area, of the value
// (or child pointer) belonging to the record at index.
func (n *node) locateData(index int) ([]byte, error) {
	data := n.reader.Data()
	if index < 0 || index >= int(n.reader.KeyCount()) {
		return nil, corruptf("requested record index %d out of bounds", index)
	}

	footer := 0
	if n.reader.IsRoot() {
		footer = btreeInfoFooterSize
	}

	var off, length int
	if n.reader.HasFixedKVSize() {
		entry := decodeKvoff(data, index, n.endian)
		if n.reader.IsLeaf() {
			length = fixedLeafValueSize(n)
		} else {
			length = 8 // child object identifier
		}
		off = len(data) - footer - int(entry.V)
	} else {
		entry := decodeKvloc(data, index, n.endian)
		length = int(entry.V.Len)
		off = len(data) - footer - int(entry.V.Off)
	}

	if off < 0 || off+length > len(data) {
		return nil, corruptf("b-tree value is out-of-bounds")
	}
	if length == 0 {
		// A zero-length value can never be produced by a well-formed tree,
		// leaf or nonleaf: every record carries either real data or a
		// child object identifier. Treat it as corruption rather than an
		// empty result.
		return nil, corruptf("corrupted record value in node")
	}
	return data[off : off+length], nil
}

// childOID extracts the nonleaf child object identifier from a located
// value. Hashed trees store a btn_index_node_val_t there (the child oid
// followed by a hash of the child's contents); every other tree stores a
// bare child oid. The hash itself isn't re-verified here — APFS already
// protects a node's contents with its own Fletcher-64 checksum, so the
// parent-recorded hash is informational rather than a second integrity
// check this engine relies on.
func childOID(n *node, raw []byte) (uint64, error) {
	if n.reader.IsHashed() {
		if len(raw) < 8 {
			return 0, corruptf("hashed nonleaf record value too small")
		}
		indexVal := types.BtnIndexNodeValT{BinvChildOid: types.OidT(n.endian.Uint64(raw[0:8]))}
		reader := NewBTreeIndexNodeValueReader(&indexVal)
		return uint64(reader.ChildObjectID()), nil
	}
	if len(raw) != 8 {
		return 0, corruptf("wrong size of nonleaf record value")
	}
	return n.endian.Uint64(raw), nil
}

func decodeKvoff(data []byte, index int, endian binary.ByteOrder) types.KvoffT {
	const entrySize = 4
	base := index * entrySize
	return types.KvoffT{
		K: endian.Uint16(data[base : base+2]),
		V: endian.Uint16(data[base+2 : base+4]),
	}
}

func decodeKvloc(data []byte, index int, endian binary.ByteOrder) types.KvlocT {
	const entrySize = 8
	base := index * entrySize
	return types.KvlocT{
		K: types.NlocT{Off: endian.Uint16(data[base : base+2]), Len: endian.Uint16(data[base+2 : base+4])},
		V: types.NlocT{Off: endian.Uint16(data[base+4 : base+6]), Len: endian.Uint16(data[base+6 : base+8])},
	}
}

// fixedKeySize and fixedLeafValueSize return the entry sizes used by the
// two fixed-kv trees this engine ever walks: the object map (omap_key_t /
// omap_val_t) and hashed catalog nonleaf nodes (child oid only). A fixed-kv
// tree that isn't one of those two shapes is outside this engine's scope.
func fixedKeySize(n *node) int {
	return types.OmapKeySize
}

func fixedLeafValueSize(n *node) int {
	return types.OmapValSize
}
