package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/salesloom-cli/internal/analysis"
	"github.com/KaramelBytes/salesloom-cli/internal/dataset"
	"go.uber.org/zap"
)

// loadAccepted reads a dataset and applies the row-count gate.
func loadAccepted(path string, opt dataset.Options, minRows int) (*dataset.Table, []analysis.ColumnProfile, error) {
	t, err := dataset.Load(path, opt)
	if err != nil {
		return nil, nil, err
	}
	appLogger().Debug("dataset read",
		zap.String("file", path),
		zap.String("format", t.Format),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns)),
		zap.Int("truncated", t.Truncated))
	if t.Truncated > 0 {
		fmt.Printf("⚠ Read only %d of %d rows (max rows)\n", t.Len(), t.Len()+t.Truncated)
	}
	profiles, err := analysis.ProfileColumns(t, minRows)
	if err != nil {
		var ide *analysis.InsufficientDataError
		if errors.As(err, &ide) {
			return nil, nil, fmt.Errorf("%s: dataset must have at least %d rows (found %d)", path, ide.MinRows, ide.Rows)
		}
		return nil, nil, err
	}
	return t, profiles, nil
}
