package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stdphrase/internal/adapter/phrases"
)

var phrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "Manage the canonical phrase list",
}

var phrasesEmbedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed the phrase list into the cache",
	Long: `Load the configured phrases and embed them, filling the on-disk cache so
later runs start without calling the embedding backend.`,
	RunE: runPhrasesEmbed,
}

var phrasesCheckCutoff float64

var phrasesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report duplicate and near-duplicate phrases",
	Long: `List exact duplicates (case insensitive) and pairs whose Jaro-Winkler
similarity reaches the cutoff. The phrase list is never modified.`,
	RunE: runPhrasesCheck,
}

func init() {
	rootCmd.AddCommand(phrasesCmd)
	phrasesCmd.AddCommand(phrasesEmbedCmd)
	phrasesCmd.AddCommand(phrasesCheckCmd)
	phrasesCheckCmd.Flags().Float64Var(&phrasesCheckCutoff, "cutoff", 0, "Jaro-Winkler cutoff (default from config)")
}

func runPhrasesEmbed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()

	if !cfg.Cache.Enabled {
		logger.Warn("cache disabled; vectors will not be kept")
	}
	embedder, closers, err := newEmbedder(cfg, GetRootDir())
	if err != nil {
		return err
	}
	eng := &engine{embedder: embedder, closers: closers}
	defer eng.Close()

	list, err := loadPhrases(ctx, cfg)
	if err != nil {
		return err
	}
	refs, err := buildReferenceSet(ctx, cfg, list, embedder, true)
	if err != nil {
		return err
	}

	fmt.Printf("Embedded %d phrases with %s (dimension %d)\n", refs.Len(), refs.ModelName(), refs.Dimension())
	if cfg.Cache.Enabled {
		fmt.Printf("Cache stored at: %s\n", cfgCachePath())
	}
	return nil
}

func runPhrasesCheck(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	list, err := loadPhrases(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	cutoff := cfg.Phrases.NearDuplicate
	if phrasesCheckCutoff > 0 {
		cutoff = phrasesCheckCutoff
	}
	report := phrases.Check(list, cutoff)

	fmt.Printf("Checked %d phrases\n", report.Total)
	if len(report.Duplicates) == 0 && len(report.NearDuplicates) == 0 {
		fmt.Println("No duplicates found.")
		return nil
	}
	if len(report.Duplicates) > 0 {
		fmt.Printf("\nDuplicates (%d):\n", len(report.Duplicates))
		for _, d := range report.Duplicates {
			fmt.Printf("  %q at rows %v\n", d.Phrase, d.Indices)
		}
	}
	if len(report.NearDuplicates) > 0 {
		fmt.Printf("\nNear duplicates (%d, cutoff %.2f):\n", len(report.NearDuplicates), cutoff)
		for _, nd := range report.NearDuplicates {
			fmt.Printf("  %q ~ %q (%.3f)\n", nd.A, nd.B, nd.Similarity)
		}
	}
	return nil
}
