package btrees

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-apfs/internal/parsers/file_system_objects"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// Key is the decoded form of a B-tree record key, covering both catalog
// (file-system) keys and object-map keys. Only the fields relevant to the
// active comparison are populated; catalog record types that don't carry a
// name or a secondary number leave those fields at their zero value.
type Key struct {
	// OID is the object identifier the key is filed under: an inode number
	// for a catalog key, or the mapped object identifier for an omap key.
	OID uint64

	// Kind distinguishes record variants sharing the same OID, e.g. the
	// j_key_t record type for a catalog key.
	Kind uint8

	// XID is the transaction identifier, used only by omap keys.
	XID uint64

	// Number is a secondary sort field used by catalog key variants that
	// need one (extent offsets, sibling ids, and so on).
	Number uint64

	// Name is the sort string used by catalog key variants keyed by name
	// (directory entries, extended attributes).
	Name string
}

// KeyDecoder decodes the raw bytes of a single record key into a Key,
// following whatever on-disk layout belongs to the tree being walked. The
// B-tree engine never interprets key bytes itself; it only ever compares
// the Key values a decoder produces.
type KeyDecoder interface {
	DecodeKey(raw []byte) (Key, error)
}

// KeyComparator imposes the ordering a tree's keys are sorted by. It must
// agree with whatever ordering was used to build the tree, or the in-node
// bisection in node_query will silently search the wrong half.
type KeyComparator func(a, b Key) int

// CompareOmapKeys orders omap keys by OID first and then by XID, matching
// the object map's own sort order: for a fixed OID, higher transaction
// identifiers sort after lower ones, so a query for the newest version of
// an object walks to the right.
func CompareOmapKeys(a, b Key) int {
	switch {
	case a.OID < b.OID:
		return -1
	case a.OID > b.OID:
		return 1
	case a.XID < b.XID:
		return -1
	case a.XID > b.XID:
		return 1
	default:
		return 0
	}
}

// DecodeOmapKey decodes an omap_key_t: a sixteen-byte {oid, xid} pair.
func DecodeOmapKey(raw []byte) (Key, error) {
	if len(raw) < types.OmapKeySize {
		return Key{}, errTooSmall("omap key", types.OmapKeySize, len(raw))
	}
	return Key{
		OID: binary.LittleEndian.Uint64(raw[0:8]),
		XID: binary.LittleEndian.Uint64(raw[8:16]),
	}, nil
}

// CompareCatalogKeys orders catalog keys the way a catalog tree is built:
// primarily by the object identifier (owning inode number), then by record
// type, then by whatever type-specific secondary field that record variant
// sorts on (a byte offset for file extents, a name for directory entries
// and extended attributes).
func CompareCatalogKeys(a, b Key) int {
	switch {
	case a.OID < b.OID:
		return -1
	case a.OID > b.OID:
		return 1
	case a.Kind < b.Kind:
		return -1
	case a.Kind > b.Kind:
		return 1
	}

	if a.Name != "" || b.Name != "" {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	}

	switch {
	case a.Number < b.Number:
		return -1
	case a.Number > b.Number:
		return 1
	default:
		return 0
	}
}

// DecodeCatalogKey decodes a catalog (file-system) record key: the common
// j_key_t header every record starts with, plus whichever type-specific
// secondary field its record variant sorts on. Record types this engine
// has no variant-specific layout for (inodes, crypto state, data stream
// ids, and so on) decode only the common header, which is sufficient
// since those types never share an OID with a sibling of the same kind.
func DecodeCatalogKey(raw []byte) (Key, error) {
	if len(raw) < types.JKeySize {
		return Key{}, errTooSmall("catalog key", types.JKeySize, len(raw))
	}
	jkey, err := file_system_objects.NewJKeyReader(raw, binary.LittleEndian)
	if err != nil {
		return Key{}, err
	}
	key := Key{
		OID:  jkey.ObjectIdentifier(),
		Kind: uint8(jkey.ObjectType()),
	}

	rest := raw[types.JKeySize:]
	switch types.JObjType(key.Kind) {
	case types.JObjTypeFileExtent:
		// j_file_extent_key_t appends a u64 logical offset.
		if len(rest) < 8 {
			return Key{}, errTooSmall("file extent key", types.JKeySize+8, len(raw))
		}
		key.Number = binary.LittleEndian.Uint64(rest[0:8])
	case types.JObjTypeExtent:
		// j_extent_key_t appends a u64 logical offset, same shape as the
		// newer file-extent record.
		if len(rest) < 8 {
			return Key{}, errTooSmall("extent key", types.JKeySize+8, len(raw))
		}
		key.Number = binary.LittleEndian.Uint64(rest[0:8])
	case types.JObjTypeDirRec:
		// j_drec_hashed_key_t appends a u32 name length/hash followed by
		// the NUL-terminated UTF-8 name; only the name matters for sort
		// order, so the hash is skipped rather than decoded.
		if len(rest) < 4 {
			return Key{}, errTooSmall("directory record key", types.JKeySize+4, len(raw))
		}
		name := rest[4:]
		if i := indexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		key.Name = string(name)
	case types.JObjTypeXattr:
		// j_xattr_key_t appends a u16 name length followed by the name.
		if len(rest) < 2 {
			return Key{}, errTooSmall("extended attribute key", types.JKeySize+2, len(raw))
		}
		nameLen := int(binary.LittleEndian.Uint16(rest[0:2]))
		rest = rest[2:]
		if nameLen > len(rest) {
			nameLen = len(rest)
		}
		name := rest[:nameLen]
		if i := indexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		key.Name = string(name)
	case types.JObjTypeSiblingLink:
		// j_sibling_key_t appends a u64 sibling id.
		if len(rest) < 8 {
			return Key{}, errTooSmall("sibling link key", types.JKeySize+8, len(raw))
		}
		key.Number = binary.LittleEndian.Uint64(rest[0:8])
	}

	return key, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
