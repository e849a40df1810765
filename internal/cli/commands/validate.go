package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/correl8/internal/correlatorfactory"
	"github.com/ccollicutt/correl8/internal/logsource"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a correl8 configuration file without running the correlator.

Checks:
  - YAML/JSON syntax
  - Required fields
  - Regex pattern validity (timestamp_format, tag_patterns)
  - Context conditions closable (timeout, renew_timeout, max_size, or last_closes)
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]

	fmt.Printf("Validating %s...\n", configPath)

	doc, err := correlatorfactory.LoadDocument(configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Log sources: %d pattern(s)\n", len(doc.LogSources))
	fmt.Printf("  Tag patterns: %d\n", len(doc.TagPatterns))
	fmt.Printf("  Contexts:    %d\n", len(doc.Contexts))
	fmt.Printf("  Webhooks:    %d\n", len(doc.Webhooks))

	fmt.Printf("\nContexts:\n")
	for i, ctx := range doc.Contexts {
		label := ctx.UUID
		if ctx.Name != "" {
			label = fmt.Sprintf("%s (%s)", ctx.Name, ctx.UUID)
		}
		fmt.Printf("  %d. %s — %d opening pattern(s), %d action(s)\n", i+1, label, len(ctx.Patterns), len(ctx.Actions))
	}

	files, err := logsource.ExpandGlobs(doc.LogSources)
	if err != nil {
		fmt.Printf("\nWarning: Error expanding log source patterns: %v\n", err)
	} else if len(files) == 0 {
		fmt.Printf("\nWarning: No files match log source patterns\n")
	} else {
		fmt.Printf("\nLog files matched: %d\n", len(files))
		for _, f := range files {
			if _, err := os.Stat(f); err != nil {
				fmt.Printf("  - %s (warning: %v)\n", f, err)
				continue
			}
			fmt.Printf("  - %s\n", f)
		}
	}

	return nil
}
