package btrees

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-apfs/internal/types"
)

// fixtureRecord is one key/value pair to place in a synthetic fixed-kv leaf
// node built by buildFixedLeafNode.
type fixtureRecord struct {
	key   []byte
	value []byte
}

// buildFixedLeafNode assembles the raw bytes of a non-root, fixed-kv,
// Fletcher-64-checksummed B-tree leaf node containing records, laid out
// the way omap_key_t/omap_val_t pairs are stored on disk. All records
// must share the same key length.
func buildFixedLeafNode(blockSize int, oid uint64, records []fixtureRecord) []byte {
	return buildFixedNode(blockSize, oid, types.BtnodeLeaf|types.BtnodeFixedKvSize, 0, records)
}

// buildFixedNonleafRoot assembles the raw bytes of a root, fixed-kv,
// Fletcher-64-checksummed B-tree nonleaf node whose records carry 8-byte
// child object identifiers as their values, the way a two-level tree's
// top node is stored on disk: values are packed against the start of the
// root's btreeInfoFooterSize-byte tree-info footer rather than the end
// of the block.
func buildFixedNonleafRoot(blockSize int, oid uint64, level uint16, records []fixtureRecord) []byte {
	return buildFixedNode(blockSize, oid, types.BtnodeRoot|types.BtnodeFixedKvSize, level, records)
}

// buildFixedNode is the shared assembler behind buildFixedLeafNode and
// buildFixedNonleafRoot: it lays out a fixed-kv node's table of contents,
// keys, and values the way a real writer would — key-table offsets are
// relative to the start of the key area (table_space.off + table_space.len),
// not to the start of the node's data area, and value-table offsets count
// backward from the end of the data area, less any root tree-info footer.
func buildFixedNode(blockSize int, oid uint64, flags uint16, level uint16, records []fixtureRecord) []byte {
	data := make([]byte, blockSize)
	keyLen := len(records[0].key)
	const entrySize = 4

	tableLen := len(records) * entrySize
	tableOff := 0
	keyAreaStart := tableOff + tableLen

	btnData := make([]byte, blockSize-56)

	footer := 0
	if flags&types.BtnodeRoot != 0 {
		footer = btreeInfoFooterSize
	}

	for i, rec := range records {
		valLen := len(rec.value)
		keyOff := keyAreaStart + i*keyLen
		copy(btnData[keyOff:keyOff+keyLen], rec.key)

		valOff := len(btnData) - footer - (len(records)-i)*valLen
		copy(btnData[valOff:valOff+valLen], rec.value)

		entryBase := tableOff + i*entrySize
		binary.LittleEndian.PutUint16(btnData[entryBase:entryBase+2], uint16(i*keyLen))
		binary.LittleEndian.PutUint16(btnData[entryBase+2:entryBase+4], uint16(len(btnData)-footer-valOff))
	}

	binary.LittleEndian.PutUint16(data[32:34], flags)
	binary.LittleEndian.PutUint16(data[34:36], level)
	binary.LittleEndian.PutUint32(data[36:40], uint32(len(records)))
	binary.LittleEndian.PutUint16(data[40:42], uint16(tableOff))
	binary.LittleEndian.PutUint16(data[42:44], uint16(tableLen))
	copy(data[56:], btnData)

	binary.LittleEndian.PutUint64(data[8:16], oid)
	binary.LittleEndian.PutUint64(data[16:24], 1) // XID: any fixed-kv/hashed node needs a nonzero transaction id to be a valid object identifier
	binary.LittleEndian.PutUint32(data[24:28], uint32(types.ObjectTypeBtreeNode))

	stampChecksum(data)
	return data
}

// childRecord builds a nonleaf record whose value is a bare 8-byte child
// object identifier, the shape every non-hashed fixed-kv nonleaf node uses.
func childRecord(oid, xid uint64, childOID uint64) fixtureRecord {
	key := make([]byte, types.OmapKeySize)
	binary.LittleEndian.PutUint64(key[0:8], oid)
	binary.LittleEndian.PutUint64(key[8:16], xid)

	val := make([]byte, 8)
	binary.LittleEndian.PutUint64(val, childOID)

	return fixtureRecord{key: key, value: val}
}

// buildTwoLevelOmapTree assembles a two-level tree — a nonleaf root with two
// records, each pointing at a leaf child — laid out the way an omap or a
// hashed catalog nonleaf would be on disk, and registers every node with
// dev. The root splits at oid 9: the first child holds oids 1 and 5, the
// second holds oids 9 and 15.
func buildTwoLevelOmapTree(t *testing.T, dev *memDevice) *node {
	t.Helper()

	childA := buildFixedLeafNode(4096, 0x20, []fixtureRecord{
		omapRecord(1, 1, 0x100),
		omapRecord(5, 1, 0x200),
	})
	dev.put(0x20, childA)

	childB := buildFixedLeafNode(4096, 0x30, []fixtureRecord{
		omapRecord(9, 1, 0x300),
		omapRecord(15, 1, 0x400),
	})
	dev.put(0x30, childB)

	root := buildFixedNonleafRoot(4096, 0x1, 1, []fixtureRecord{
		childRecord(1, 1, 0x20),
		childRecord(9, 1, 0x30),
	})
	dev.put(0x1, root)

	n, err := dev.ReadNode(0x1)
	require.NoError(t, err)
	return n
}

// buildTwoLevelHashedOmapTree is buildTwoLevelOmapTree's hashed-nonleaf
// counterpart: the root carries BtnodeHashed, exercising childOID's
// btn_index_node_val_t branch instead of the bare child-oid branch.
// locateData only ever reads the leading 8 bytes of a nonleaf record's
// value (the child oid), so the fixture doesn't need to carry a real
// trailing hash to be a faithful exercise of that branch.
func buildTwoLevelHashedOmapTree(t *testing.T, dev *memDevice) *node {
	t.Helper()

	child := buildFixedLeafNode(4096, 0x20, []fixtureRecord{
		omapRecord(1, 1, 0x100),
		omapRecord(5, 1, 0x200),
	})
	dev.put(0x20, child)

	root := buildFixedNode(4096, 0x1, types.BtnodeRoot|types.BtnodeFixedKvSize|types.BtnodeHashed, 1, []fixtureRecord{
		childRecord(1, 1, 0x20),
	})
	dev.put(0x1, root)

	n, err := dev.ReadNode(0x1)
	require.NoError(t, err)
	return n
}

// stampChecksum computes the Fletcher-64 checksum of data (with its first
// eight bytes treated as zero) and writes it into those eight bytes,
// mirroring what objects.ChecksumInspector.VerifyChecksum expects to find.
func stampChecksum(data []byte) {
	for i := 0; i < types.MaxCksumSize; i++ {
		data[i] = 0
	}

	const maxUint32 = uint64(0xFFFFFFFF)
	const chunkSize = 1024
	var sum1, sum2 uint64

	for offset := 0; offset < len(data); offset += chunkSize * 4 {
		chunkEnd := offset + chunkSize*4
		if chunkEnd > len(data) {
			chunkEnd = len(data)
		}
		for i := offset; i+4 <= chunkEnd; i += 4 {
			word := binary.LittleEndian.Uint32(data[i : i+4])
			sum1 += uint64(word)
			sum2 += sum1
		}
		sum1 %= maxUint32
		sum2 %= maxUint32
	}

	ckLow := maxUint32 - ((sum1 + sum2) % maxUint32)
	ckHigh := maxUint32 - ((sum1 + ckLow) % maxUint32)
	result := ckLow | (ckHigh << 32)
	binary.LittleEndian.PutUint64(data[0:8], result)
}

// memDevice is a NodeSource backed by an in-memory map of block address to
// already-assembled, checksummed node bytes.
type memDevice struct {
	endian binary.ByteOrder
	blocks map[types.Paddr][]byte
}

func newMemDevice() *memDevice {
	return &memDevice{endian: binary.LittleEndian, blocks: make(map[types.Paddr][]byte)}
}

func (m *memDevice) put(addr types.Paddr, raw []byte) { m.blocks[addr] = raw }

func (m *memDevice) ReadNode(addr types.Paddr) (*node, error) {
	raw, ok := m.blocks[addr]
	if !ok {
		return nil, corruptf("no block at address 0x%x", addr)
	}
	reader, err := NewBTreeNodeReader(raw, m.endian)
	if err != nil {
		return nil, err
	}
	n := newNode(reader, uint32(len(raw)), m.endian)
	if !n.valid() {
		return nil, corruptf("node at 0x%x failed validity check", addr)
	}
	return n, nil
}
