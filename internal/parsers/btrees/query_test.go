package btrees

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-apfs/internal/types"
)

func omapRecord(oid, xid uint64, paddr uint64) fixtureRecord {
	key := make([]byte, types.OmapKeySize)
	binary.LittleEndian.PutUint64(key[0:8], oid)
	binary.LittleEndian.PutUint64(key[8:16], xid)

	val := make([]byte, types.OmapValSize)
	binary.LittleEndian.PutUint32(val[0:4], 0)
	binary.LittleEndian.PutUint32(val[4:8], 4096)
	binary.LittleEndian.PutUint64(val[8:16], paddr)

	return fixtureRecord{key: key, value: val}
}

func TestDescendFindsExactMatch(t *testing.T) {
	dev := newMemDevice()
	leaf := buildFixedLeafNode(4096, 0x10, []fixtureRecord{
		omapRecord(1, 1, 0x100),
		omapRecord(5, 1, 0x200),
		omapRecord(9, 1, 0x300),
	})
	dev.put(0x10, leaf)

	root, err := dev.ReadNode(0x10)
	require.NoError(t, err)

	_, result, err := Descend(dev, nil, omapDecoder{}, CompareOmapKeys, root, Key{OID: 5, XID: 1}, FlagOmap|FlagExact)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), result.Key.OID)
	assert.Equal(t, uint64(0x200), binary.LittleEndian.Uint64(result.Value[8:16]))
}

func TestDescendNotFoundWhenExactMissing(t *testing.T) {
	dev := newMemDevice()
	leaf := buildFixedLeafNode(4096, 0x10, []fixtureRecord{
		omapRecord(1, 1, 0x100),
		omapRecord(5, 1, 0x200),
	})
	dev.put(0x10, leaf)

	root, err := dev.ReadNode(0x10)
	require.NoError(t, err)

	_, _, err = Descend(dev, nil, omapDecoder{}, CompareOmapKeys, root, Key{OID: 3, XID: 1}, FlagOmap|FlagExact)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDescendWithoutExactReturnsPrecedingRecord(t *testing.T) {
	dev := newMemDevice()
	leaf := buildFixedLeafNode(4096, 0x10, []fixtureRecord{
		omapRecord(1, 1, 0x100),
		omapRecord(5, 1, 0x200),
		omapRecord(9, 1, 0x300),
	})
	dev.put(0x10, leaf)

	root, err := dev.ReadNode(0x10)
	require.NoError(t, err)

	_, result, err := Descend(dev, nil, omapDecoder{}, CompareOmapKeys, root, Key{OID: 7, XID: 1}, FlagOmap)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), result.Key.OID)
}

func TestQueryMultipleWalksForward(t *testing.T) {
	dev := newMemDevice()
	leaf := buildFixedLeafNode(4096, 0x10, []fixtureRecord{
		omapRecord(5, 1, 0x100),
		omapRecord(5, 2, 0x200),
		omapRecord(5, 3, 0x300),
		omapRecord(9, 1, 0x400),
	})
	dev.put(0x10, leaf)

	root, err := dev.ReadNode(0x10)
	require.NoError(t, err)

	cur, result, err := Descend(dev, nil, omapDecoder{}, CompareOmapKeys, root, Key{OID: 5, XID: 3}, FlagOmap|FlagMultiple)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Key.XID)

	cur, result, err = cur.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Key.XID)

	cur, result, err = cur.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Key.XID)

	_, _, err = cur.Next()
	assert.ErrorIs(t, err, ErrNoMore)
}

func TestDescendTwoLevelTreeFindsRecordInFirstChild(t *testing.T) {
	dev := newMemDevice()
	root := buildTwoLevelOmapTree(t, dev)

	_, result, err := Descend(dev, nil, omapDecoder{}, CompareOmapKeys, root, Key{OID: 5, XID: 1}, FlagOmap|FlagExact)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), result.Key.OID)
	assert.Equal(t, uint64(0x200), binary.LittleEndian.Uint64(result.Value[8:16]))
}

func TestDescendTwoLevelTreeFindsRecordInSecondChild(t *testing.T) {
	dev := newMemDevice()
	root := buildTwoLevelOmapTree(t, dev)

	_, result, err := Descend(dev, nil, omapDecoder{}, CompareOmapKeys, root, Key{OID: 9, XID: 1}, FlagOmap|FlagExact)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), result.Key.OID)
	assert.Equal(t, uint64(0x300), binary.LittleEndian.Uint64(result.Value[8:16]))
}

func TestDescendTwoLevelTreeRejectsChildOIDMismatch(t *testing.T) {
	dev := newMemDevice()
	root := buildTwoLevelOmapTree(t, dev)

	// Re-register the second child under its address but with an oid that
	// no longer matches what the root recorded for it, simulating a stale
	// or tampered child node.
	wrongChildB := buildFixedLeafNode(4096, 0x99, []fixtureRecord{
		omapRecord(9, 1, 0x300),
		omapRecord(15, 1, 0x400),
	})
	dev.put(0x30, wrongChildB)

	_, _, err := Descend(dev, nil, omapDecoder{}, CompareOmapKeys, root, Key{OID: 9, XID: 1}, FlagOmap|FlagExact)
	var corrupt *CorruptError
	assert.ErrorAs(t, err, &corrupt)
}

func TestDescendTwoLevelHashedTreeResolvesChild(t *testing.T) {
	dev := newMemDevice()
	root := buildTwoLevelHashedOmapTree(t, dev)

	_, result, err := Descend(dev, nil, omapDecoder{}, CompareOmapKeys, root, Key{OID: 5, XID: 1}, FlagOmap|FlagExact)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), result.Key.OID)
	assert.Equal(t, uint64(0x200), binary.LittleEndian.Uint64(result.Value[8:16]))
}

func TestLookupBlockCorruptWhenMissing(t *testing.T) {
	dev := newMemDevice()
	leaf := buildFixedLeafNode(4096, 0x10, []fixtureRecord{omapRecord(1, 1, 0x100)})
	dev.put(0x10, leaf)

	root, err := dev.ReadNode(0x10)
	require.NoError(t, err)

	_, err = LookupBlock(dev, root, 99)
	var corrupt *CorruptError
	assert.ErrorAs(t, err, &corrupt)
}

func TestLookupBlockResolvesAddress(t *testing.T) {
	dev := newMemDevice()
	leaf := buildFixedLeafNode(4096, 0x10, []fixtureRecord{
		omapRecord(1, 1, 0x100),
		omapRecord(42, 3, 0xABC),
	})
	dev.put(0x10, leaf)

	root, err := dev.ReadNode(0x10)
	require.NoError(t, err)

	addr, err := LookupBlock(dev, root, 42)
	require.NoError(t, err)
	assert.Equal(t, types.Paddr(0xABC), addr)
}
