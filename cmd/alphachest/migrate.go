package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert name-based chest files to UUID files and exit",
	Long: `Loads the chest directory once, which converts every chest file named
after a known player to a file named after that player's UUID, then saves all
chests. Chests whose name matches no known player are left as they are.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		saved := deps.store.Save()
		logger.Info("Saved chests", zap.Int("count", saved))
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d of %d chests in %s\n", saved, deps.store.ChestCount(), deps.store.Dir())
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [player]",
	Short: "Print the contents of a player's chest",
	Long:  `Resolves a player name or UUID the same way the API does and prints the occupied slots.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		ctx := cmd.Context()
		key := deps.store.ResolveKey(ctx, args[0])
		out := cmd.OutOrStdout()
		if !deps.store.Has(ctx, key) {
			fmt.Fprintf(out, "%s: no chest\n", key)
			return nil
		}

		inv := deps.store.GetChest(ctx, key)
		items := inv.Occupied()
		fmt.Fprintf(out, "%s: %d/%d slots used\n", key, len(items), inv.Size())

		slots := make([]int, 0, len(items))
		for slot := range items {
			slots = append(slots, slot)
		}
		sort.Ints(slots)
		for _, slot := range slots {
			it := items[slot]
			fmt.Fprintf(out, "  [%2d] %s x%d\n", slot, it.Type, it.Amount)
		}
		return nil
	},
}
