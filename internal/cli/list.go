package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mcphub-labs/mcphub/internal/registry"
	"github.com/spf13/cobra"
)

var (
	listCategory    string
	listEnabledOnly bool
	listJSON        bool
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List servers in the registry",
	Long: `List every server under servers/<category>/ with its merged enabled flag.
An optional query filters by substring on category/name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only list servers in this category")
	listCmd.Flags().BoolVar(&listEnabledOnly, "enabled", false, "Only list enabled servers")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a registry server for display.
type listEntry struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Path     string `json:"path"`
}

func runList(cmd *cobra.Command, args []string) error {
	h, err := loadHub()
	if err != nil {
		return err
	}

	scan, err := registry.Scan(h.fs, h.layout.RegistryRoot(), h.config.Servers.Categories, h.config.Servers.DefaultConfig, h.logger)
	if err != nil {
		return err
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	var entries []listEntry
	for _, it := range scan.Items {
		if !matchesItem(it, query, listCategory, listEnabledOnly) {
			continue
		}
		entries = append(entries, listEntry{Category: it.Category, Name: it.Name, Enabled: it.Enabled, Path: it.Path})
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching servers.")
		return nil
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

// matchesItem applies the list filters. The query is a case-insensitive
// substring match on "<category>/<name>".
func matchesItem(it registry.Item, query, category string, enabledOnly bool) bool {
	if category != "" && it.Category != category {
		return false
	}
	if enabledOnly && !it.Enabled {
		return false
	}
	if query != "" && !strings.Contains(strings.ToLower(it.ID()), strings.ToLower(query)) {
		return false
	}
	return true
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tNAME\tENABLED")
	for _, e := range entries {
		enabled := "no"
		if e.Enabled {
			enabled = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Category, e.Name, enabled)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
