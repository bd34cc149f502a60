package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-apfs/internal/types"
)

var checkFlags containerFlags

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the structural consistency of a B-tree",
	Long: `check walks every record of a B-tree and its descendants, failing
on the first sign of corruption: out-of-order keys, repeated leaf keys, or
a child node whose own object header disagrees with the identifier its
parent recorded for it.

With no --catalog-block, check validates the container's own object map.
With --catalog-block, it validates the catalog tree rooted there instead,
resolving nonleaf child identifiers through the object map first.`,
	RunE: runCheck,
}

func init() {
	addContainerFlags(checkCmd, &checkFlags)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	runID := uuid.New()

	container, device, err := openContainer(&checkFlags)
	if err != nil {
		return err
	}
	defer device.Close()

	if checkFlags.catalogBlock != 0 {
		if err := container.ValidateCatalog(types.Paddr(checkFlags.catalogBlock)); err != nil {
			return fmt.Errorf("check %s: catalog tree is inconsistent: %w", runID, err)
		}
		if !GetQuiet() {
			fmt.Fprintf(cmd.OutOrStdout(), "check %s: catalog tree: consistent\n", runID)
		}
		return nil
	}

	if err := container.ValidateObjectMap(); err != nil {
		return fmt.Errorf("check %s: object map is inconsistent: %w", runID, err)
	}
	if !GetQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "check %s: object map: consistent\n", runID)
	}
	return nil
}
