// File: internal/interfaces/objects.go
package interfaces

import (
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// ObjectIdentifier provides methods for working with object identifiers
type ObjectIdentifier interface {
	// ID returns the object's unique identifier
	ID() types.OidT

	// TransactionID returns the transaction identifier of the most recent modification
	TransactionID() types.XidT

	// IsValid checks if the object identifier is valid
	IsValid() bool
}

// ObjectChecksumVerifier provides methods for verifying object integrity
type ObjectChecksumVerifier interface {
	// Checksum returns the object's Fletcher 64 checksum
	Checksum() [types.MaxCksumSize]byte

	// VerifyChecksum checks the integrity of the object's checksum
	VerifyChecksum() bool
}

// ObjectStorageTypeResolver provides methods for resolving object storage characteristics
type ObjectStorageTypeResolver interface {
	// DetermineStorageType resolves the storage type (virtual, ephemeral, physical)
	DetermineStorageType(objectType uint32) string

	// IsStorageTypeSupported checks if a specific storage type is supported
	IsStorageTypeSupported(storageType string) bool
}

// ObjectHeaderReader provides methods for reading and verifying an object's header.
type ObjectHeaderReader interface {
	// ReadObjectHeader reads the header of an object
	ReadObjectHeader(objectID types.OidT) (types.ObjPhysT, error)

	// VerifyObjectHeader verifies object header integrity
	VerifyObjectHeader(objectID types.OidT) bool
}
