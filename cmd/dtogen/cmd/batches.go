package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/solatis/dtogen/internal/core/db"
	"github.com/solatis/dtogen/internal/types"
)

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List batches stored in the fixture database",
	RunE:  runBatchesList,
}

var batchesShowCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Print a stored batch as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchesShow,
}

var batchesDeleteCmd = &cobra.Command{
	Use:   "delete <batch-id>",
	Short: "Delete a stored batch",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchesDelete,
}

func init() {
	rootCmd.AddCommand(batchesCmd)
	batchesCmd.AddCommand(batchesShowCmd)
	batchesCmd.AddCommand(batchesDeleteCmd)
	batchesCmd.PersistentFlags().String("db", "", "fixture database (sqlite://path or postgres://...)")
	batchesCmd.Flags().String("type", "", "only list batches of this dto type")
}

// openStore resolves the database URL from --db or store.url.
func openStore(cmd *cobra.Command) (*db.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("db") {
		cfg.Store.URL, _ = cmd.Flags().GetString("db")
	}
	if cfg.Store.URL == "" {
		return nil, fmt.Errorf("no fixture database: pass --db or set store.url")
	}
	return db.OpenStore(cfg.Store.URL)
}

func runBatchesList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	dtoType, _ := cmd.Flags().GetString("type")
	batches, err := s.ListBatches(cmd.Context(), dtoType)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tCOUNT\tCREATED")
	for _, b := range batches {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", b.ID, b.Type, b.Count, b.CreatedAt.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

func runBatchesShow(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	items, err := s.Items(cmd.Context(), types.BatchID(args[0]))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func runBatchesDelete(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteBatch(cmd.Context(), types.BatchID(args[0])); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted batch %s\n", args[0])
	return nil
}
