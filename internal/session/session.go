package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/salesloom-cli/internal/analysis"
	"github.com/KaramelBytes/salesloom-cli/internal/canonical"
	"github.com/KaramelBytes/salesloom-cli/internal/dataset"
	"github.com/KaramelBytes/salesloom-cli/internal/logging"
	"github.com/KaramelBytes/salesloom-cli/internal/schema"
)

var (
	// ErrNoDataset is returned by operations that need an uploaded table.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrNotProcessed is returned when the canonical result is requested
	// before a successful Process.
	ErrNotProcessed = errors.New("dataset has not been processed")
)

// Settings are the per-session knobs taken from configuration.
type Settings struct {
	MinRows int
	Coerce  canonical.Options
}

// Session holds the state of one upload-review-process flow. All methods
// are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	settings Settings
	log      *zap.Logger
	lastUsed atomic.Int64

	mu       sync.Mutex
	filename string
	table    *dataset.Table
	profiles []analysis.ColumnProfile
	draft    schema.ColumnMapping
	mapping  schema.ColumnMapping
	errs     []schema.ValidationError
	result   *canonical.Dataset
	dropped  int
}

// New returns an empty session with a fresh id.
func New(settings Settings, log *zap.Logger) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		settings:  settings,
	}
	s.log = logging.OrNop(log).With(zap.String("session", s.ID))
	s.lastUsed.Store(now.UnixNano())
	return s
}

func (s *Session) touch() { s.lastUsed.Store(time.Now().UnixNano()) }

// LastUsed returns the time of the most recent operation.
func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

// Load replaces the session's dataset. It applies the row-count gate,
// profiles the columns and infers a draft mapping, which also becomes the
// current mapping. Any previous mapping and result are discarded. A
// rejected table leaves the session unchanged.
func (s *Session) Load(filename string, t *dataset.Table) error {
	s.touch()
	profiles, err := analysis.ProfileColumns(t, s.settings.MinRows)
	if err != nil {
		s.log.Info("dataset rejected", zap.String("file", filename), zap.Error(err))
		return err
	}
	draft := schema.InferMapping(t.Columns)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = filename
	s.table = t
	s.profiles = profiles
	s.draft = draft
	s.mapping = draft.Clone()
	s.errs = schema.ValidateMapping(s.mapping)
	s.result = nil
	s.dropped = 0
	s.log.Info("dataset loaded",
		zap.String("file", filename),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns)),
		zap.Int("inferred", len(draft)))
	return nil
}

// SetMapping replaces the current mapping and returns its validation
// errors. Keys must be columns of the loaded table. The previous canonical
// result is discarded.
func (s *Session) SetMapping(m schema.ColumnMapping) ([]schema.ValidationError, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, ErrNoDataset
	}
	for col := range m {
		if _, ok := s.table.Index(col); !ok {
			return nil, &canonical.MissingColumnError{Column: col}
		}
	}
	s.mapping = m.Clone()
	s.errs = schema.ValidateMapping(s.mapping)
	s.result = nil
	s.dropped = 0
	s.log.Debug("mapping updated", zap.Int("mapped", len(m)), zap.Int("errors", len(s.errs)))
	return cloneErrs(s.errs), nil
}

// Validate returns the validation errors of the current mapping.
func (s *Session) Validate() ([]schema.ValidationError, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, ErrNoDataset
	}
	s.errs = schema.ValidateMapping(s.mapping)
	return cloneErrs(s.errs), nil
}

// Process validates the current mapping and, when it is valid, builds the
// canonical dataset. Validation findings are returned without building.
func (s *Session) Process() (*canonical.Dataset, int, []schema.ValidationError, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, 0, nil, ErrNoDataset
	}
	s.errs = schema.ValidateMapping(s.mapping)
	if len(s.errs) > 0 {
		return nil, 0, cloneErrs(s.errs), nil
	}
	ds, dropped, err := canonical.Build(s.table, s.mapping, s.settings.Coerce)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("build canonical dataset: %w", err)
	}
	s.result = ds
	s.dropped = dropped
	s.log.Info("dataset processed",
		zap.Int("rows", ds.Len()),
		zap.Int("dropped", dropped),
		zap.Any("coercion_failures", ds.FailureCounts()))
	return ds, dropped, nil, nil
}

// Result returns the last canonical dataset and its drop count.
func (s *Session) Result() (*canonical.Dataset, int, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, 0, ErrNotProcessed
	}
	return s.result, s.dropped, nil
}

// Summary is a JSON view of a session.
type Summary struct {
	ID           string                   `json:"id"`
	Filename     string                   `json:"filename,omitempty"`
	Rows         int                      `json:"rows"`
	Columns      []string                 `json:"columns"`
	Profiles     []analysis.ColumnProfile `json:"profiles"`
	DraftMapping map[string]string        `json:"draft_mapping"`
	Mapping      map[string]string        `json:"mapping"`
	Errors       []schema.ValidationError `json:"errors"`
	Processed    bool                     `json:"processed"`
	ResultRows   int                      `json:"result_rows,omitempty"`
	DroppedRows  int                      `json:"dropped_rows,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	LastUsed     time.Time                `json:"last_used"`
}

// Summary returns a snapshot of the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		ID:           s.ID,
		Filename:     s.filename,
		Columns:      []string{},
		Profiles:     s.profiles,
		DraftMapping: s.draft.Strings(),
		Mapping:      s.mapping.Strings(),
		Errors:       cloneErrs(s.errs),
		CreatedAt:    s.CreatedAt,
		LastUsed:     s.LastUsed(),
	}
	if s.table != nil {
		sum.Rows = s.table.Len()
		sum.Columns = append(sum.Columns, s.table.Columns...)
	}
	if s.result != nil {
		sum.Processed = true
		sum.ResultRows = s.result.Len()
		sum.DroppedRows = s.dropped
	}
	return sum
}

func cloneErrs(in []schema.ValidationError) []schema.ValidationError {
	out := make([]schema.ValidationError, len(in))
	copy(out, in)
	return out
}
