package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/canonical"
	cfgpkg "github.com/KaramelBytes/salesloom-cli/internal/config"
	"github.com/KaramelBytes/salesloom-cli/internal/dataset"
	"github.com/spf13/cobra"
)

// loaderFlags are the file reading and number parsing flags shared by the
// commands that load a dataset.
type loaderFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	maxRows    int
	decimal    string
	thousands  string
}

func (lf *loaderFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (sniffed if omitted)")
	c.Flags().StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to read (0 = config value or unlimited)")
	c.Flags().StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (plain parsing if omitted)")
	c.Flags().StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
}

// options resolves the flags against configuration.
func (lf *loaderFlags) options(c *cfgpkg.Global) (dataset.Options, canonical.Options, error) {
	opt := dataset.DefaultOptions()
	var co canonical.Options

	opt.MaxRows = c.MaxRows
	if lf.maxRows > 0 {
		opt.MaxRows = lf.maxRows
	}
	if lf.delimiter != "" {
		switch lf.delimiter {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		case "|", "pipe":
			opt.Delimiter = '|'
		default:
			return opt, co, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
		}
	}
	opt.SheetName = lf.sheetName
	if lf.sheetIndex > 0 {
		opt.SheetIndex = lf.sheetIndex
	}

	// Locale separators
	dec := lf.decimal
	if dec == "" {
		dec = c.DecimalSeparator
	}
	switch strings.ToLower(strings.TrimSpace(dec)) {
	case ",", "comma":
		co.DecimalSeparator = ','
	case ".", "dot":
		co.DecimalSeparator = '.'
	case "":
	default:
		return opt, co, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", dec)
	}
	thou := lf.thousands
	if thou == "" {
		thou = c.ThousandsSeparator
	}
	switch strings.ToLower(thou) {
	case ",":
		co.ThousandsSeparator = ','
	case ".":
		co.ThousandsSeparator = '.'
	case "space", " ":
		co.ThousandsSeparator = ' '
	case "":
	default:
		return opt, co, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thou)
	}
	return opt, co, nil
}
