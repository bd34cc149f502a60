// File: internal/device/block_device.go
package device

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// FileBlockDevice implements interfaces.BlockDeviceReader over a raw image
// or device file, treating byte offset fileOffset within it as block zero.
// It never parses a container superblock to learn its own geometry — block
// size and the starting offset are supplied by the caller, and the usable
// length is the file's size less that offset, since locating and trusting a
// superblock is the caller's job, not the block device's.
type FileBlockDevice struct {
	file       *os.File
	fileOffset int64
	blockSize  uint32
	totalSize  uint64

	mu    sync.RWMutex
	cache map[types.Paddr][]byte
}

var _ interfaces.BlockDeviceReader = (*FileBlockDevice)(nil)

// OpenFileBlockDevice opens path for reading and wraps it as a block
// device of the given block size, starting fileOffset bytes into the
// file (non-zero for a raw partition embedded in a larger image).
func OpenFileBlockDevice(path string, blockSize uint32, fileOffset int64) (*FileBlockDevice, error) {
	if blockSize == 0 {
		return nil, fmt.Errorf("block size must be nonzero")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening block device: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("statting block device: %w", err)
	}
	if fileOffset < 0 || fileOffset > info.Size() {
		file.Close()
		return nil, fmt.Errorf("file offset %d out of range for a %d-byte file", fileOffset, info.Size())
	}

	return &FileBlockDevice{
		file:       file,
		fileOffset: fileOffset,
		blockSize:  blockSize,
		totalSize:  uint64(info.Size() - fileOffset),
		cache:      make(map[types.Paddr][]byte),
	}, nil
}

// ReadBlock reads the single block at address, from cache if present.
func (d *FileBlockDevice) ReadBlock(address types.Paddr) ([]byte, error) {
	if !d.IsValidAddress(address) {
		return nil, fmt.Errorf("block address %d is out of range", address)
	}

	d.mu.RLock()
	if cached, ok := d.cache[address]; ok {
		d.mu.RUnlock()
		return append([]byte(nil), cached...), nil
	}
	d.mu.RUnlock()

	buf := make([]byte, d.blockSize)
	off := d.fileOffset + int64(address)*int64(d.blockSize)
	n, err := d.file.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading block %d: %w", address, err)
	}
	if n < int(d.blockSize) {
		return nil, fmt.Errorf("short read for block %d: got %d of %d bytes", address, n, d.blockSize)
	}

	d.mu.Lock()
	d.cache[address] = append([]byte(nil), buf...)
	d.mu.Unlock()

	return buf, nil
}

// ReadBlockRange reads count consecutive blocks starting at start.
func (d *FileBlockDevice) ReadBlockRange(start types.Paddr, count uint32) ([]byte, error) {
	if !d.CanReadRange(start, count) {
		return nil, fmt.Errorf("block range [%d, %d) is out of bounds", start, uint64(start)+uint64(count))
	}

	out := make([]byte, 0, int(count)*int(d.blockSize))
	for i := uint32(0); i < count; i++ {
		block, err := d.ReadBlock(start + types.Paddr(i))
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

// ReadBytes reads length bytes starting at offset within the block at address.
func (d *FileBlockDevice) ReadBytes(address types.Paddr, offset uint32, length uint32) ([]byte, error) {
	block, err := d.ReadBlock(address)
	if err != nil {
		return nil, err
	}
	if uint64(offset)+uint64(length) > uint64(len(block)) {
		return nil, fmt.Errorf("byte range [%d, %d) exceeds block size %d", offset, offset+length, len(block))
	}
	return block[offset : offset+length], nil
}

// BlockSize returns the configured block size.
func (d *FileBlockDevice) BlockSize() uint32 { return d.blockSize }

// TotalBlocks returns how many whole blocks fit in the device.
func (d *FileBlockDevice) TotalBlocks() uint64 { return d.totalSize / uint64(d.blockSize) }

// TotalSize returns the device's usable size in bytes.
func (d *FileBlockDevice) TotalSize() uint64 { return d.totalSize }

// IsValidAddress reports whether address names a block inside the device.
func (d *FileBlockDevice) IsValidAddress(address types.Paddr) bool {
	if !address.Validate() {
		return false
	}
	return uint64(address) < d.TotalBlocks()
}

// CanReadRange reports whether [start, start+count) lies inside the device.
func (d *FileBlockDevice) CanReadRange(start types.Paddr, count uint32) bool {
	if count == 0 {
		return d.IsValidAddress(start)
	}
	return d.IsValidAddress(start) && uint64(start)+uint64(count) <= d.TotalBlocks()
}

// Close releases the underlying file handle.
func (d *FileBlockDevice) Close() error {
	return d.file.Close()
}
