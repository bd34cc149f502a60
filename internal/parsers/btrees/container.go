// File: internal/parsers/btrees/container.go
package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// Container threads the pieces every B-tree operation in this engine needs:
// the block device backing the image, the byte order its structures were
// written in, and the pinned root node of the container's object map. A
// catalog tree's root is not kept: QueryCatalog and ValidateCatalog read it
// again on every call. It is the NodeSource passed down into Descend and
// ValidateSubtree instead of plumbing a file handle and block size through
// each call individually.
type Container struct {
	device interfaces.BlockDeviceReader
	endian binary.ByteOrder

	omapRoot *node
}

var _ NodeSource = (*Container)(nil)

// OpenContainer wraps device as a NodeSource and loads the object map
// rooted at omapOid, verifying its header checksum and identity along the
// way. endian is almost always binary.LittleEndian: APFS is defined as a
// little-endian on-disk format.
func OpenContainer(device interfaces.BlockDeviceReader, endian binary.ByteOrder, omapPaddr types.Paddr, omapOid uint64) (*Container, error) {
	c := &Container{device: device, endian: endian}

	raw, err := device.ReadBlock(omapPaddr)
	if err != nil {
		return nil, fmt.Errorf("reading object map block: %w", err)
	}
	root, err := ReadOmapRoot(c, raw, endian, omapOid)
	if err != nil {
		return nil, err
	}
	c.omapRoot = root
	return c, nil
}

// ReadNode reads and decodes the node stored at paddr, verifying its
// checksum (via NewBTreeNodeReader) before this engine ever inspects its
// table of contents.
func (c *Container) ReadNode(paddr types.Paddr) (*node, error) {
	raw, err := c.device.ReadBlock(paddr)
	if err != nil {
		return nil, fmt.Errorf("reading b-tree node at block 0x%x: %w", paddr, err)
	}
	reader, err := NewBTreeNodeReader(raw, c.endian)
	if err != nil {
		return nil, fmt.Errorf("decoding b-tree node at block 0x%x: %w", paddr, err)
	}
	n := newNode(reader, c.device.BlockSize(), c.endian)
	if !n.valid() {
		return nil, corruptf("b-tree node at block 0x%x is not well-formed", paddr)
	}
	return n, nil
}

// ResolveOID looks up a virtual catalog object identifier through the
// container's object map, returning the physical block address of the
// object it currently names.
func (c *Container) ResolveOID(oid uint64) (types.Paddr, error) {
	if c.omapRoot == nil {
		return 0, corruptf("container has no object map loaded")
	}
	return LookupBlock(c, c.omapRoot, oid)
}

// QueryCatalog resolves a single key against the catalog tree rooted at
// rootAddr, translating nonleaf child identifiers through the container's
// object map along the way.
func (c *Container) QueryCatalog(rootAddr types.Paddr, key Key, flags Flags) (Result, error) {
	root, err := c.ReadNode(rootAddr)
	if err != nil {
		return Result{}, err
	}
	_, result, err := Descend(c, c.ResolveOID, DecodeCatalogKeyDecoder{}, CompareCatalogKeys, root, key, flags)
	return result, err
}

// QueryOmap resolves a single {oid, xid} pair directly against the
// container's own object map, with the caller's flags. Unlike ResolveOID,
// which always asks LookupBlock for the newest version of an object, this
// can inspect a specific historical version of it.
func (c *Container) QueryOmap(key Key, flags Flags) (Result, error) {
	if c.omapRoot == nil {
		return Result{}, corruptf("container has no object map loaded")
	}
	_, result, err := Descend(c, nil, omapDecoder{}, CompareOmapKeys, c.omapRoot, key, flags|FlagOmap)
	return result, err
}

// ValidateCatalog walks every record of the catalog tree rooted at
// rootAddr and its descendants, returning the first structural
// inconsistency found, or nil if the tree is internally consistent.
func (c *Container) ValidateCatalog(rootAddr types.Paddr) error {
	root, err := c.ReadNode(rootAddr)
	if err != nil {
		return err
	}
	lastKey := Key{}
	return ValidateSubtree(c, root, DecodeCatalogKeyDecoder{}, CompareCatalogKeys, &lastKey, c.omapRoot)
}

// ValidateObjectMap walks the container's own object map tree, the same
// way ValidateCatalog walks a file-system tree, except that an object
// map's own nonleaf values are already physical addresses.
func (c *Container) ValidateObjectMap() error {
	if c.omapRoot == nil {
		return corruptf("container has no object map loaded")
	}
	lastKey := Key{}
	return ValidateSubtree(c, c.omapRoot, omapDecoder{}, CompareOmapKeys, &lastKey, nil)
}

// DecodeCatalogKeyDecoder adapts DecodeCatalogKey to the KeyDecoder
// interface.
type DecodeCatalogKeyDecoder struct{}

func (DecodeCatalogKeyDecoder) DecodeKey(raw []byte) (Key, error) { return DecodeCatalogKey(raw) }
