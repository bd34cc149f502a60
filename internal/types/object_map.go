package types

// Object Maps (pages 35-38)
// An object map uses a B-tree to map virtual object identifiers and transaction
// identifiers to the physical addresses where those objects are stored.

// OmapPhysT is an object map.
// Reference: page 35
type OmapPhysT struct {
	// The object's header.
	OmO ObjPhysT

	// The object map's flags.
	OmFlags uint32

	// The number of snapshots that this object map has.
	OmSnapCount uint32

	// The type of the tree used to store the object map's entries.
	OmTreeType uint32

	// The type of the tree used to store information about the object map's
	// snapshots.
	OmSnapshotTreeType uint32

	// The physical object identifier of the tree used to store the object map's
	// entries.
	OmTreeOid OidT

	// The physical object identifier of the tree used to store information about
	// the object map's snapshots.
	OmSnapshotTreeOid OidT

	// The transaction identifier of the most recent snapshot.
	OmMostRecentSnap XidT

	// The smallest transaction identifier for an in-progress revert.
	OmPendingRevertMin XidT

	// The largest transaction identifier for an in-progress revert.
	OmPendingRevertMax XidT
}

// OmapPhysSize is the on-disk size, in bytes, of an omap_phys_t header:
// a 32-byte obj_phys_t followed by four 4-byte fields and five 8-byte fields.
const OmapPhysSize = 32 + 4*4 + 8*5

// OmapKeyT is a key used to access an entry in the object map.
// Reference: page 37
type OmapKeyT struct {
	// The object identifier, given by the low 60 bits of the mapped object.
	OkOid OidT

	// The transaction identifier for the most recent transaction that this
	// version of the object was modified in.
	OkXid XidT
}

// OmapKeySize is the on-disk size, in bytes, of an omap_key_t.
const OmapKeySize = 16

// OmapValT is a value, paired with a key, in the object map.
// Reference: page 38
type OmapValT struct {
	// The object's flags.
	OvFlags uint32

	// The size, in bytes, of the object.
	OvSize uint32

	// The object's physical address.
	OvPaddr Paddr
}

// OmapValSize is the on-disk size, in bytes, of an omap_val_t.
const OmapValSize = 16

// Object Map Flags (page 38)

const (
	OmapManuallyManaged  uint32 = 0x00000001
	OmapEncrypting       uint32 = 0x00000002
	OmapDecrypting       uint32 = 0x00000004
	OmapKeyrolling       uint32 = 0x00000008
	OmapCryptoGeneration uint32 = 0x00000010

	// OmapValidFlags is the mask of all flags defined for an object map.
	OmapValidFlags uint32 = 0x0000001f
)

// Object Map Value Flags (page 38)

const (
	OmapValDeleted       uint32 = 0x00000001
	OmapValSaved         uint32 = 0x00000002
	OmapValEncrypted     uint32 = 0x00000004
	OmapValNoheader      uint32 = 0x00000008
	OmapValCryptoGeneration uint32 = 0x00000010
)

// Object Map Tree Flags (page 38)
// These are stored in om_tree_type / om_snapshot_tree_type and select the storage
// class of the OID used to reach the tree's root node.
const (
	OmapTreeTypeMask  uint32 = ObjectTypeMask
	OmapTreeTypeFlagsMask uint32 = ObjectTypeFlagsMask
)
