package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/canonical"
	cfgpkg "github.com/KaramelBytes/salesloom-cli/internal/config"
	"github.com/KaramelBytes/salesloom-cli/internal/schema"
	"github.com/KaramelBytes/salesloom-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	procMappingPath string
	procOutputPath  string
	procLoader      loaderFlags
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Validate a mapping and write the canonical dataset",
	Long: `Process applies a mapping to a dataset: mapped columns are renamed to their
canonical fields, order_date and numeric fields are coerced, and rows missing
order_date or total_amount are dropped. The mapping comes from --mapping, or
is inferred when omitted. Output is CSV unless --output ends in .json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := procOutputPath
		if out == "" {
			out = utils.OutputPath(args[0], c.OutputDir, ".canonical.csv")
		}
		_, err := processFile(args[0], procMappingPath, out, &procLoader, c)
		return err
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVarP(&procMappingPath, "mapping", "m", "", "reviewed mapping file (YAML); inferred if omitted")
	processCmd.Flags().StringVarP(&procOutputPath, "output", "o", "", "output path (.csv or .json); default <file>.canonical.csv")
	procLoader.register(processCmd)
}

// processFile runs load, mapping, validation and transformation for one
// file and writes the result to out.
func processFile(path, mappingPath, out string, lf *loaderFlags, c *cfgpkg.Global) (*canonical.Dataset, error) {
	log := appLogger()
	opt, co, err := lf.options(c)
	if err != nil {
		return nil, err
	}
	t, _, err := loadAccepted(path, opt, c.MinRowCount)
	if err != nil {
		return nil, err
	}

	var m schema.ColumnMapping
	if mappingPath != "" {
		src, mm, err := schema.ReadMappingFile(mappingPath)
		if err != nil {
			return nil, err
		}
		if src != "" && src != filepath.Base(path) {
			fmt.Printf("⚠ Mapping %s was reviewed for %s\n", filepath.Base(mappingPath), src)
		}
		for col := range mm {
			if _, ok := t.Index(col); !ok {
				return nil, fmt.Errorf("mapping column %q not found in %s", col, filepath.Base(path))
			}
		}
		m = mm
	} else {
		m = schema.InferMapping(t.Columns)
		log.Debug("using inferred mapping", zap.Any("mapping", m.Strings()))
	}

	if errs := schema.ValidateMapping(m); len(errs) > 0 {
		printFindings(errs)
		return nil, fmt.Errorf("%s: mapping is invalid", filepath.Base(path))
	}

	ds, dropped, err := canonical.Build(t, m, co)
	if err != nil {
		return nil, err
	}
	log.Debug("canonical dataset built",
		zap.String("file", path),
		zap.Int("rows", ds.Len()),
		zap.Int("dropped", dropped),
		zap.Any("coercion_failures", ds.FailureCounts()))

	var body []byte
	if strings.EqualFold(filepath.Ext(out), ".json") {
		body, err = utils.PrettyJSON(ds.Records())
	} else {
		body, err = ds.CSV()
	}
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(out, body); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	if dropped > 0 {
		fmt.Printf("⚠ Dropped %d rows with missing or invalid %s\n", dropped, criticalLabel(ds))
	}
	fmt.Printf("✓ Wrote %d rows to %s\n", ds.Len(), out)
	return ds, nil
}

func criticalLabel(ds *canonical.Dataset) string {
	var parts []string
	for _, f := range []schema.Field{schema.OrderDate, schema.TotalAmount} {
		if ds.Has(f) {
			parts = append(parts, f.String())
		}
	}
	return strings.Join(parts, " or ")
}
