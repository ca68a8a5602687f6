package cmd

import (
	"fmt"

	"github.com/KaramelBytes/salesloom-cli/internal/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <mapping.yaml>",
	Short: "Check a reviewed mapping file; exits non-zero when it has problems",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, m, err := schema.ReadMappingFile(args[0])
		if err != nil {
			return err
		}
		errs := schema.ValidateMapping(m)
		printFindings(errs)
		if len(errs) > 0 {
			return fmt.Errorf("mapping has %d problem(s)", len(errs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
