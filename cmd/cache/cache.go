// Package cache contains the commands that inspect and reset the
// categorization cache.
package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheusbnas/dashboard-financeiro-AI/cmd/root"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/store"
)

// Cmd is the cache command group.
var Cmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the categorization cache",
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache := store.NewCategoryCache(root.Cfg.Cache.File, root.Log)
		fmt.Printf("Cache file: %s\n", root.Cfg.Cache.File)
		fmt.Printf("Entries:    %d\n", cache.Size())
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached categorization",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache := store.NewCategoryCache(root.Cfg.Cache.File, root.Log)
		removed := cache.Size()
		cache.Clear()
		if err := cache.Save(); err != nil {
			return fmt.Errorf("error clearing cache: %w", err)
		}
		fmt.Printf("Removed %d cached entries\n", removed)
		return nil
	},
}

func init() {
	Cmd.AddCommand(statsCmd)
	Cmd.AddCommand(clearCmd)
}
