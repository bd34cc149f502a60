package types

// Objects (pages 10-21)
// Every object stored in a container or volume begins with a common header that
// identifies it, ties it to the transaction that last modified it, and protects
// its contents with a checksum.

// OidT is an object identifier.
// For a physical object, its identifier is the logical block address on disk where
// the object is stored. For an ephemeral or virtual object, its identifier is a
// number with no direct relationship to where the object is stored.
// Reference: page 12
type OidT uint64

// XidT is a transaction identifier.
// Transactions are uniquely identified by a monotonically increasing number.
// The number zero isn't a valid transaction identifier.
// Reference: page 12
type XidT uint64

// ObjPhysT is the header used at the beginning of all objects.
// Reference: page 10
type ObjPhysT struct {
	// The Fletcher 64 checksum of the object, with length matching MaxCksumSize. (page 10)
	OChecksum [MaxCksumSize]byte
	// The object's identifier. (page 11)
	OOid OidT
	// The identifier of the most recent transaction that this object was modified in. (page 11)
	OXid XidT
	// The object's type and flags. (page 11)
	// An object type is a 32-bit value: the low 16 bits indicate the type, and the
	// high 16 bits are flags.
	OType uint32
	// The object's subtype. (page 11)
	// Subtypes indicate the type of data stored in a data structure such as a B-tree.
	OSubtype uint32
}

// Object Identifier Constants (pages 12-13)

// XidInvalid is an invalid transaction identifier.
const XidInvalid XidT = 0

// OidNxSuperblock is the ephemeral object identifier for the container superblock.
const OidNxSuperblock OidT = 1

// OidInvalid is an invalid object identifier.
const OidInvalid OidT = 0

// OidReservedCount is the number of object identifiers reserved for objects with a
// fixed object identifier.
const OidReservedCount uint64 = 1024

// Object Type Masks (pages 13-14)

// ObjectTypeMask is the bit mask used to access the type.
const ObjectTypeMask uint32 = 0x0000ffff

// ObjectTypeFlagsMask is the bit mask used to access the flags.
const ObjectTypeFlagsMask uint32 = 0xffff0000

// ObjStorageTypeMask is the bit mask used to access the storage portion of the
// object type.
const ObjStorageTypeMask uint32 = 0xc0000000

// ObjectTypeFlagsDefinedMask is a bit mask of all bits for which flags are defined.
const ObjectTypeFlagsDefinedMask uint32 = 0xf8000000

// MaxCksumSize is the number of bytes used for an object checksum.
const MaxCksumSize = 8

// Object Types (pages 14-19)
// Only the subset relevant to traversing and validating the object map and the
// B-trees it roots is retained here; Fusion, encryption-rolling, and keybag object
// types belong to subsystems this engine never opens.

const (
	ObjectTypeNxSuperblock uint32 = 0x00000001
	ObjectTypeBtree        uint32 = 0x00000002
	ObjectTypeBtreeNode    uint32 = 0x00000003
	ObjectTypeSpaceman     uint32 = 0x00000005
	ObjectTypeOmap         uint32 = 0x0000000b
	ObjectTypeCheckpointMap uint32 = 0x0000000c
	ObjectTypeFs           uint32 = 0x0000000d
	ObjectTypeFstree       uint32 = 0x0000000e
	ObjectTypeBlockreftree uint32 = 0x0000000f
	ObjectTypeSnapmetatree uint32 = 0x00000010
	ObjectTypeOmapSnapshot uint32 = 0x00000013
	ObjectTypeInvalid      uint32 = 0x00000000
	ObjectTypeTest         uint32 = 0x000000ff
)

// Object Type Flags (pages 20-21)

// ObjVirtual indicates a virtual object.
const ObjVirtual uint32 = 0x00000000

// ObjEphemeral indicates an ephemeral object.
const ObjEphemeral uint32 = 0x80000000

// ObjPhysical indicates a physical object.
const ObjPhysical uint32 = 0x40000000

// ObjNoheader indicates an object stored without an obj_phys_t header.
const ObjNoheader uint32 = 0x20000000

// ObjEncrypted indicates an encrypted object.
const ObjEncrypted uint32 = 0x10000000

// ObjNonpersistent indicates an ephemeral object that isn't persisted across unmounting.
const ObjNonpersistent uint32 = 0x08000000
