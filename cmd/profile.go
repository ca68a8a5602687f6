package cmd

import (
	"fmt"

	"github.com/KaramelBytes/salesloom-cli/internal/analysis"
	"github.com/KaramelBytes/salesloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	profOutputPath string
	profJSON       bool
	profLoader     loaderFlags
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Check a dataset against the row minimum and summarize its columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		opt, _, err := profLoader.options(c)
		if err != nil {
			return err
		}
		t, profiles, err := loadAccepted(args[0], opt, c.MinRowCount)
		if err != nil {
			return err
		}

		var out string
		if profJSON {
			b, err := utils.PrettyJSON(profiles)
			if err != nil {
				return err
			}
			out = string(b)
		} else {
			out = analysis.Markdown(t, profiles)
		}

		if profOutputPath != "" {
			if err := utils.SafeWriteFile(profOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote profile to %s\n", profOutputPath)
			return nil
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the profile")
	profileCmd.Flags().BoolVar(&profJSON, "json", false, "emit column profiles as JSON instead of Markdown")
	profLoader.register(profileCmd)
}
