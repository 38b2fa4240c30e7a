package core

// import.go orchestrates an import batch: require all three files, parse
// them concurrently, normalize headers, coerce rows, publish the resulting
// dataset to state.
//
// The batch is all-or-nothing. A missing file fails before any parsing; a
// parse failure in any file aborts the whole batch. Coercion, by contrast,
// never fails: its substitutions come back as warnings.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// ErrIncompleteUpload is returned when fewer than three files are provided.
var ErrIncompleteUpload = errors.New("incomplete upload")

// FileInput is one uploaded file.
type FileInput struct {
	Name string
	Data []byte
}

// ImportRequest carries the three uploaded files, one per entity kind.
type ImportRequest struct {
	Clients *FileInput
	Workers *FileInput
	Tasks   *FileInput
}

// ImportResult is the outcome of a successful import batch.
type ImportResult struct {
	ImportID string         `json:"importId"`
	Dataset  Dataset        `json:"data"`
	Warnings []string       `json:"warnings"`
	Notes    []CoercionNote `json:"coercionNotes,omitempty"`
	Duration time.Duration  `json:"-"`
}

// Import runs the full batch pipeline and, on success, replaces the
// process-wide dataset with the imported collections.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if err := checkComplete(req); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	importID := uuid.NewString()
	logger := slog.Default().With("import_id", importID)

	inputs := []struct {
		kind schema.Kind
		file *FileInput
	}{
		{schema.KindClients, req.Clients},
		{schema.KindWorkers, req.Workers},
		{schema.KindTasks, req.Tasks},
	}

	// Parse the three files concurrently; the first failure cancels the rest
	// and aborts the batch.
	parsed := make([][][]string, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if int64(len(in.file.Data)) > MaxFileSize {
				return fmt.Errorf("%s: file too large (limit %dMB)", in.file.Name, MaxFileSize/(1024*1024))
			}
			rows, err := ParseFile(in.file.Name, in.file.Data)
			if err != nil {
				return fmt.Errorf("%s: %w", in.file.Name, err)
			}
			parsed[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("import failed", "error", err)
		return nil, err
	}

	var notes []CoercionNote

	clients, clientNotes := CoerceClients(MapRows(parsed[0], schema.KindClients))
	notes = append(notes, clientNotes...)

	workers, workerNotes := CoerceWorkers(MapRows(parsed[1], schema.KindWorkers))
	notes = append(notes, workerNotes...)

	tasks, taskNotes := CoerceTasks(MapRows(parsed[2], schema.KindTasks))
	notes = append(notes, taskNotes...)

	ds := Dataset{Clients: clients, Workers: workers, Tasks: tasks}
	s.state.ReplaceDataset(ds)

	warnings := make([]string, 0, len(notes))
	for _, n := range notes {
		warnings = append(warnings, n.String())
	}

	logger.Info("import complete",
		"clients", len(clients),
		"workers", len(workers),
		"tasks", len(tasks),
		"warnings", len(warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &ImportResult{
		ImportID: importID,
		Dataset:  ds,
		Warnings: warnings,
		Notes:    notes,
		Duration: time.Since(start),
	}, nil
}

// checkComplete enforces the all-three-files protocol. The error carries one
// aggregate message naming every missing kind; no file is parsed when any is
// missing.
func checkComplete(req ImportRequest) error {
	var missing []string
	if req.Clients == nil || len(req.Clients.Data) == 0 {
		missing = append(missing, string(schema.KindClients))
	}
	if req.Workers == nil || len(req.Workers.Data) == 0 {
		missing = append(missing, string(schema.KindWorkers))
	}
	if req.Tasks == nil || len(req.Tasks.Data) == 0 {
		missing = append(missing, string(schema.KindTasks))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing file(s) for %s; all three entity files are required",
			ErrIncompleteUpload, strings.Join(missing, ", "))
	}
	return nil
}
