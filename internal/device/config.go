// File: internal/device/config.go
package device

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config describes where to find a container's raw bytes and the handful
// of facts about its geometry that this tool never tries to discover on
// its own: the block size it was formatted with, the byte offset of its
// first block inside the file, and the physical block and object
// identifier of its object map. A real APFS driver learns all of this
// from the container superblock at block zero; this tool is deliberately
// narrower, so it takes them as configuration instead.
type Config struct {
	DevicePath   string `mapstructure:"device_path"`
	BlockSize    uint32 `mapstructure:"block_size"`
	FileOffset   int64  `mapstructure:"file_offset"`
	OmapBlock    uint64 `mapstructure:"omap_block"`
	OmapOid      uint64 `mapstructure:"omap_oid"`
	CatalogBlock uint64 `mapstructure:"catalog_block"`
}

// LoadConfig reads apfs-config.yaml from the working directory, a ./config
// subdirectory, or $HOME/.apfs, overlaying it with any APFS_-prefixed
// environment variables. A missing config file isn't an error: callers are
// expected to fill in DevicePath (and anything else the file didn't
// supply) from command-line flags.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("apfs-config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.apfs")

	v.SetDefault("block_size", 4096)
	v.SetDefault("file_offset", 0)

	v.SetEnvPrefix("APFS")
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows about, so bind the keys
	// that have no default explicitly to their APFS_ variables.
	for _, key := range []string{"device_path", "omap_block", "omap_oid", "catalog_block"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading apfs-config.yaml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing apfs configuration: %w", err)
	}
	return cfg, nil
}
