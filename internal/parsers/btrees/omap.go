package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/parsers/objects"
	objectmaps "github.com/deploymenttheory/go-apfs/internal/parsers/object_maps"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// LookupBlock resolves a virtual object identifier to the physical address
// of the object it currently names, by querying the object map rooted at
// omapRoot. An object map entry's transaction identifier is the last
// transaction it was modified in, not an exact key a caller can be
// expected to know in advance, so the search asks for the highest-XID
// entry at or below the newest possible transaction and then confirms
// the object identifier it landed on actually matches: this is how the
// current mapping for an object is found even on a volume that keeps
// multiple historical versions around for its snapshots. A miss here
// (no entry at all for oid) is never expected in a consistent container:
// it means some other part of the container references an object the
// map doesn't know about, which this engine treats as corruption rather
// than a plain not-found.
func LookupBlock(src NodeSource, omapRoot *node, oid uint64) (types.Paddr, error) {
	key := Key{OID: oid, XID: ^uint64(0)}
	_, res, err := Descend(src, nil, omapDecoder{}, CompareOmapKeys, omapRoot, key, FlagOmap)
	if err == ErrNotFound {
		return 0, corruptf("omap record missing for id 0x%x", oid)
	}
	if err != nil {
		return 0, err
	}
	if len(res.Value) != types.OmapValSize {
		return 0, corruptf("wrong size of omap leaf record value")
	}

	entry := objectmaps.NewObjectMapEntry(
		types.OmapKeyT{OkOid: types.OidT(res.Key.OID), OkXid: types.XidT(res.Key.XID)},
		types.OmapValT{
			OvFlags: binary.LittleEndian.Uint32(res.Value[0:4]),
			OvSize:  binary.LittleEndian.Uint32(res.Value[4:8]),
			OvPaddr: types.Paddr(binary.LittleEndian.Uint64(res.Value[8:16])),
		},
	)
	if uint64(entry.ObjectID()) != oid {
		return 0, corruptf("omap record missing for id 0x%x", oid)
	}
	if entry.IsDeleted() {
		return 0, corruptf("omap record for id 0x%x is marked deleted", oid)
	}
	return entry.PhysicalAddress(), nil
}

// omapDecoder adapts DecodeOmapKey to the KeyDecoder interface.
type omapDecoder struct{}

func (omapDecoder) DecodeKey(raw []byte) (Key, error) { return DecodeOmapKey(raw) }

// ReadOmapRoot reads and verifies the omap_phys_t header at oid, and
// returns the node reached through its tree OID — the root of the B-tree
// that actually stores the map's {oid,xid} -> paddr entries.
func ReadOmapRoot(src NodeSource, raw []byte, endian binary.ByteOrder, oid uint64) (*node, error) {
	reader, err := objectmaps.NewOmapReader(raw, endian)
	if err != nil {
		return nil, err
	}
	header := reader.GetOmap()

	if !objects.NewChecksumInspector(&header.OmO, raw[:types.OmapPhysSize]).VerifyChecksum() {
		return nil, corruptf("bad checksum for object map")
	}
	if uint64(header.OmO.OOid) != oid {
		return nil, corruptf("wrong object id on object map")
	}
	if ok, issues := reader.Validate(); !ok {
		return nil, corruptf("invalid object map: %v", issues)
	}

	info := objectmaps.NewObjectMapReader(*header)
	if info.SnapshotCount() > 0 && info.SnapshotTreeOID() == 0 {
		return nil, corruptf("invalid object map: snapshot count %d but no snapshot tree oid", info.SnapshotCount())
	}

	root, err := src.ReadNode(types.Paddr(info.TreeOID()))
	if err != nil {
		return nil, fmt.Errorf("reading object map root: %w", err)
	}
	return root, nil
}
