package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/salesloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	pbOutDir    string
	pbFormat    string
	pbKeepGoing bool
	pbLoader    loaderFlags
)

var processBatchCmd = &cobra.Command{
	Use:   "process-batch <files...>",
	Short: "Process several datasets, each with its own inferred mapping",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		var ext string
		switch pbFormat {
		case "csv", "":
			ext = ".canonical.csv"
		case "json":
			ext = ".canonical.json"
		default:
			return fmt.Errorf("unsupported --format: %s (use csv|json)", pbFormat)
		}

		c := settings()
		dir := pbOutDir
		if dir == "" {
			dir = c.OutputDir
		}
		total := len(files)
		failed := 0
		used := map[string]int{}
		for i, path := range files {
			fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			out := utils.OutputPath(path, dir, ext)
			// same basename from different directories
			if n := used[out]; n > 0 {
				out = utils.OutputPath(path, dir, fmt.Sprintf("__%d%s", n+1, ext))
				fmt.Printf("⚠ Output name already used, writing to %s\n", filepath.Base(out))
			}
			used[utils.OutputPath(path, dir, ext)]++
			if _, err := processFile(path, "", out, &pbLoader, c); err != nil {
				if !pbKeepGoing {
					return err
				}
				failed++
				fmt.Printf("⚠ Skipped %s: %v\n", filepath.Base(path), err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processBatchCmd)
	processBatchCmd.Flags().StringVar(&pbOutDir, "out-dir", "", "directory for outputs (default: next to each input, or config output_dir)")
	processBatchCmd.Flags().StringVar(&pbFormat, "format", "csv", "output format: csv|json")
	processBatchCmd.Flags().BoolVar(&pbKeepGoing, "keep-going", false, "continue with the next file when one fails")
	pbLoader.register(processBatchCmd)
}
