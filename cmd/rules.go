package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/schema"
	"github.com/KaramelBytes/salesloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var rulesJSON bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List canonical fields and the keywords used to recognize them",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules := schema.Catalog()
		if rulesJSON {
			b, err := utils.PrettyJSON(rules)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Canonical fields (inference order):")
		for _, r := range rules {
			fmt.Fprintf(w, "  %-16s %s\n", r.Field, strings.Join(r.Keywords, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "print the catalog as JSON")
}
