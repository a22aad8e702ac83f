package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/solatis/dtogen/internal/core/config"
	"github.com/solatis/dtogen/internal/core/db"
	"github.com/solatis/dtogen/internal/defaultfill"
	"github.com/solatis/dtogen/internal/engine"
	"github.com/solatis/dtogen/internal/logging"
	"github.com/solatis/dtogen/internal/rules"
	"github.com/solatis/dtogen/internal/sample"
	"github.com/solatis/dtogen/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of sample dtos",
	Long: `Generate creates --count instances of the --type sample dto, fills unset
properties from the default generator cache and applies the config file's rules
for that type, in order, using each instance's position as its index.`,
	RunE: runGenerate,
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Compile and print the rules in the config file",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(rulesCmd)
	generateCmd.Flags().String("type", "person", "sample dto type ("+strings.Join(sample.Names(), ", ")+")")
	generateCmd.Flags().Int("count", 5, "number of instances")
	generateCmd.Flags().Bool("strict", false, "fail when a property has no registered generator")
	generateCmd.Flags().String("format", "json", "output format (json, dump)")
	generateCmd.Flags().String("db", "", "store the batch in this database (sqlite://path or postgres://...)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("type") {
		cfg.Type, _ = cmd.Flags().GetString("type")
	}
	if cmd.Flags().Changed("count") {
		cfg.Count, _ = cmd.Flags().GetInt("count")
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("db") {
		cfg.Store.URL, _ = cmd.Flags().GetString("db")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	switch strings.ToLower(format) {
	case "json", "dump":
	default:
		return fmt.Errorf("unknown format %q (expected json or dump)", format)
	}

	items, err := generate(cmd, cfg)
	if err != nil {
		return err
	}
	if cfg.Store.URL != "" {
		if err := store(cmd, cfg, items); err != nil {
			return err
		}
	}
	return render(cmd.OutOrStdout(), format, items)
}

func store(cmd *cobra.Command, cfg *config.GenerateConfig, items []types.Tagged) error {
	s, err := db.OpenStore(cfg.Store.URL)
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := db.SaveBatch(cmd.Context(), s, cfg.Type, items)
	if err != nil {
		return fmt.Errorf("failed to store batch: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "stored batch %s\n", b.ID)
	return nil
}

func generate(cmd *cobra.Command, cfg *config.GenerateConfig) ([]types.Tagged, error) {
	logger := logging.GetLogger("cli")

	kind, ok := sample.Lookup(cfg.Type)
	if !ok {
		return nil, fmt.Errorf("unknown type %q (known: %s)", cfg.Type, strings.Join(sample.Names(), ", "))
	}

	editor, err := rules.CompileEditor(cfg.RulesFor(kind.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}

	cache := defaultfill.NewDefaultCache()
	sample.RegisterDefaults(cache)

	gen := engine.NewInstanceGenerator(kind.New, cache, engine.WithStrict(cfg.Strict))
	items, err := engine.New(gen).Collect(cmd.Context(), cfg.Count, engine.EditorVisitor[types.Tagged](editor))
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	logger.Info().
		Str("type", kind.Name).
		Int("count", len(items)).
		Int("rules", len(editor.RulesFor(types.TypeRef(kind.Name)))).
		Msg("Generated batch")
	return items, nil
}

func render(w io.Writer, format string, items []types.Tagged) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "dump":
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(w, items)
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected json or dump)", format)
	}
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, spec := range cfg.Rules {
		r, err := rules.Compile(spec)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		fmt.Fprintf(out, "[%s] %s\n", spec.Type, r)
	}
	return nil
}
