package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/salesloom-cli/internal/schema"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var (
	inferOutputPath string
	inferLoader     loaderFlags
)

var inferCmd = &cobra.Command{
	Use:   "infer <file>",
	Short: "Propose a column mapping for a dataset",
	Long: `Infer matches each raw column against the canonical keyword catalog and
prints the draft mapping. With -o the draft is written as a YAML review file:
edit the field of any column (or set it to 'skip') and pass it to
'process --mapping'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := settings()
		opt, _, err := inferLoader.options(c)
		if err != nil {
			return err
		}
		t, _, err := loadAccepted(path, opt, c.MinRowCount)
		if err != nil {
			return err
		}

		matches := schema.Explain(t.Columns)
		if debug {
			spew.Fdump(os.Stderr, matches)
		}
		draft := schema.InferMapping(t.Columns)
		printMapping(t.Columns, draft, matches)
		errs := schema.ValidateMapping(draft)
		printFindings(errs)

		if inferOutputPath != "" {
			if err := schema.WriteMappingFile(inferOutputPath, filepath.Base(path), t.Columns, draft); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote mapping to %s\n", inferOutputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inferCmd)
	inferCmd.Flags().StringVarP(&inferOutputPath, "output", "o", "", "write the draft mapping as a YAML review file")
	inferLoader.register(inferCmd)
}

func printMapping(columns []string, m schema.ColumnMapping, matches []schema.Match) {
	why := make(map[string]schema.Match, len(matches))
	for _, mt := range matches {
		why[mt.Column] = mt
	}
	width := 0
	for _, c := range columns {
		if len(c) > width {
			width = len(c)
		}
	}
	fmt.Println("Draft mapping:")
	for _, c := range columns {
		f, ok := m[c]
		if !ok {
			fmt.Printf("  %-*s  -> %s\n", width, c, schema.SkipValue)
			continue
		}
		reason := "exact"
		if mt, ok := why[c]; ok && !mt.Exact() {
			reason = fmt.Sprintf("keyword %q", mt.Keyword)
		}
		fmt.Printf("  %-*s  -> %s (%s)\n", width, c, f, reason)
	}
}

func printFindings(errs []schema.ValidationError) {
	if len(errs) == 0 {
		fmt.Println("✓ Mapping is valid")
		return
	}
	for _, e := range errs {
		fmt.Printf("⚠ %s\n", e.Message)
	}
}
