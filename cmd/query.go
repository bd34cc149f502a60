package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-apfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

var (
	queryFlags containerFlags
	queryOID   uint64
	queryXID   uint64
	queryExact bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Resolve a single key against a B-tree",
	Long: `query descends a B-tree looking for --oid, printing the record that
matches it. Without --catalog-block, the object map itself is searched for
the {--oid, --xid} key (an exact match unless --exact=false) and the result
is the matching omap record's raw value bytes: flags, size and physical
block address. With --catalog-block, the catalog tree rooted there is
searched instead, resolving nonleaf child identifiers through the object
map along the way.`,
	RunE: runQuery,
}

func init() {
	addContainerFlags(queryCmd, &queryFlags)
	queryCmd.Flags().Uint64Var(&queryOID, "oid", 0, "object identifier to search for")
	queryCmd.Flags().Uint64Var(&queryXID, "xid", 0, "transaction identifier, for an object map query")
	queryCmd.Flags().BoolVar(&queryExact, "exact", true, "require the record to match exactly rather than the nearest preceding one")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryOID == 0 {
		return fmt.Errorf("--oid is required")
	}

	container, device, err := openContainer(&queryFlags)
	if err != nil {
		return err
	}
	defer device.Close()

	var flags btrees.Flags
	if queryExact {
		flags |= btrees.FlagExact
	}

	if queryFlags.catalogBlock != 0 {
		result, err := container.QueryCatalog(types.Paddr(queryFlags.catalogBlock), btrees.Key{OID: queryOID}, flags)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "oid=0x%x kind=%d value=% x\n", result.Key.OID, result.Key.Kind, result.Value)
		return nil
	}

	result, err := container.QueryOmap(btrees.Key{OID: queryOID, XID: queryXID}, flags)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "oid=0x%x xid=0x%x value=% x\n", result.Key.OID, result.Key.XID, result.Value)
	return nil
}
