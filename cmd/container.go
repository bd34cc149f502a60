package cmd

import (
	"encoding/binary"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-apfs/internal/device"
	"github.com/deploymenttheory/go-apfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// containerFlags holds the geometry overrides every subcommand accepts on
// top of whatever apfs-config.yaml supplies; an explicit flag always wins
// over the config file.
type containerFlags struct {
	device       string
	blockSize    uint32
	fileOffset   int64
	omapBlock    uint64
	omapOid      uint64
	catalogBlock uint64
}

// addContainerFlags registers the geometry flags shared by every
// subcommand that opens a container onto cmd, writing into f.
func addContainerFlags(cmd *cobra.Command, f *containerFlags) {
	cmd.Flags().StringVar(&f.device, "device", "", "path to the raw container image or partition")
	cmd.Flags().Uint32Var(&f.blockSize, "block-size", 0, "container block size in bytes (default: from config, else 4096)")
	cmd.Flags().Int64Var(&f.fileOffset, "file-offset", 0, "byte offset of block zero within the file")
	cmd.Flags().Uint64Var(&f.omapBlock, "omap-block", 0, "physical block address of the container object map")
	cmd.Flags().Uint64Var(&f.omapOid, "omap-oid", 0, "expected object identifier of the container object map")
	cmd.Flags().Uint64Var(&f.catalogBlock, "catalog-block", 0, "physical block address of the catalog tree root to operate on")
}

func resolveConfig(f *containerFlags) (*device.Config, error) {
	cfg, err := device.LoadConfig()
	if err != nil {
		return nil, err
	}
	if f.device != "" {
		cfg.DevicePath = f.device
	}
	if f.blockSize != 0 {
		cfg.BlockSize = f.blockSize
	}
	if f.fileOffset != 0 {
		cfg.FileOffset = f.fileOffset
	}
	if f.omapBlock != 0 {
		cfg.OmapBlock = f.omapBlock
	}
	if f.omapOid != 0 {
		cfg.OmapOid = f.omapOid
	}
	if f.catalogBlock != 0 {
		cfg.CatalogBlock = f.catalogBlock
	}
	if cfg.DevicePath == "" {
		return nil, fmt.Errorf("no device path given: pass --device or set device_path in apfs-config.yaml")
	}
	if cfg.OmapBlock == 0 {
		return nil, fmt.Errorf("no object map block given: pass --omap-block or set omap_block in apfs-config.yaml")
	}
	return cfg, nil
}

// openContainer opens the configured device and loads its object map,
// returning a *btrees.Container ready to resolve, query, or validate.
func openContainer(f *containerFlags) (*btrees.Container, *device.FileBlockDevice, error) {
	cfg, err := resolveConfig(f)
	if err != nil {
		return nil, nil, err
	}

	blockDevice, err := device.OpenFileBlockDevice(cfg.DevicePath, cfg.BlockSize, cfg.FileOffset)
	if err != nil {
		return nil, nil, err
	}

	container, err := btrees.OpenContainer(blockDevice, binary.LittleEndian, types.Paddr(cfg.OmapBlock), cfg.OmapOid)
	if err != nil {
		blockDevice.Close()
		return nil, nil, err
	}
	return container, blockDevice, nil
}
