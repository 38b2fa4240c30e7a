package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func csvFile(name string, lines ...string) *FileInput {
	return &FileInput{Name: name, Data: []byte(strings.Join(lines, "\n"))}
}

func validImportRequest() ImportRequest {
	return ImportRequest{
		Clients: csvFile("clients.csv",
			"Client ID,Client Name,Priority Level,Max Budget",
			"C1,Acme,4,1000",
			"C2,Beta Corp,abc,50",
		),
		Workers: csvFile("workers.csv",
			"Worker ID,Worker Name,Skills",
			"W1,Ada,\"welding, painting\"",
		),
		Tasks: csvFile("tasks.csv",
			"Task ID,Task Name,Duration,Preferred Phases",
			"T1,Weld frame,3,1-3",
		),
	}
}

func newTestService() *Service {
	return NewService(NewState(), 2, time.Second)
}

func TestImport_Success(t *testing.T) {
	svc := newTestService()

	result, err := svc.Import(context.Background(), validImportRequest())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.ImportID == "" {
		t.Error("ImportID should be set")
	}
	if len(result.Dataset.Clients) != 2 {
		t.Errorf("clients = %d, want 2", len(result.Dataset.Clients))
	}
	if len(result.Dataset.Workers) != 1 || len(result.Dataset.Tasks) != 1 {
		t.Errorf("workers/tasks = %d/%d, want 1/1",
			len(result.Dataset.Workers), len(result.Dataset.Tasks))
	}

	// The malformed priority on row 1 becomes a warning, not a failure.
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "PriorityLevel") {
		t.Errorf("warning = %q, should mention PriorityLevel", result.Warnings[0])
	}
	if result.Dataset.Clients[1].PriorityLevel != 1 {
		t.Errorf("malformed priority coerced to %d, want default 1",
			result.Dataset.Clients[1].PriorityLevel)
	}

	// State was replaced
	ds := svc.State().Dataset()
	if len(ds.Clients) != 2 {
		t.Errorf("state clients = %d, want 2", len(ds.Clients))
	}
}

func TestImport_MissingFiles(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ImportRequest)
		wantMissing []string
	}{
		{
			name:        "no tasks",
			mutate:      func(r *ImportRequest) { r.Tasks = nil },
			wantMissing: []string{"tasks"},
		},
		{
			name:        "empty workers data",
			mutate:      func(r *ImportRequest) { r.Workers.Data = nil },
			wantMissing: []string{"workers"},
		},
		{
			name: "two missing are reported together",
			mutate: func(r *ImportRequest) {
				r.Clients = nil
				r.Workers = nil
			},
			wantMissing: []string{"clients", "workers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			req := validImportRequest()
			tt.mutate(&req)

			_, err := svc.Import(context.Background(), req)
			if !errors.Is(err, ErrIncompleteUpload) {
				t.Fatalf("Import() error = %v, want ErrIncompleteUpload", err)
			}
			for _, kind := range tt.wantMissing {
				if !strings.Contains(err.Error(), kind) {
					t.Errorf("error %q should name missing kind %q", err, kind)
				}
			}

			// Nothing was imported
			if ds := svc.State().Dataset(); len(ds.Clients) != 0 {
				t.Error("incomplete upload must not touch state")
			}
		})
	}
}

func TestImport_ParseFailureAbortsBatch(t *testing.T) {
	svc := newTestService()
	req := validImportRequest()
	req.Workers = &FileInput{Name: "workers.txt", Data: []byte("not a spreadsheet")}

	_, err := svc.Import(context.Background(), req)
	if err == nil {
		t.Fatal("Import() should fail for an unsupported file")
	}
	if !strings.Contains(err.Error(), "workers.txt") {
		t.Errorf("error %q should name the offending file", err)
	}

	if ds := svc.State().Dataset(); len(ds.Clients) != 0 || len(ds.Tasks) != 0 {
		t.Error("failed batch must not publish any collection")
	}
}

func TestImport_FileTooLarge(t *testing.T) {
	old := MaxFileSize
	MaxFileSize = 16
	defer func() { MaxFileSize = old }()

	svc := newTestService()
	_, err := svc.Import(context.Background(), validImportRequest())
	if err == nil || !strings.Contains(err.Error(), "file too large") {
		t.Fatalf("Import() error = %v, want file too large", err)
	}
}

func TestImport_ReplacesPreviousDataset(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Import(context.Background(), validImportRequest()); err != nil {
		t.Fatalf("first Import() error = %v", err)
	}

	req := ImportRequest{
		Clients: csvFile("clients.csv", "Client ID", "C9"),
		Workers: csvFile("workers.csv", "Worker ID", "W9"),
		Tasks:   csvFile("tasks.csv", "Task ID", "T9"),
	}
	if _, err := svc.Import(context.Background(), req); err != nil {
		t.Fatalf("second Import() error = %v", err)
	}

	ds := svc.State().Dataset()
	if len(ds.Clients) != 1 || ds.Clients[0].ClientID != "C9" {
		t.Errorf("dataset not replaced: %v", ds.Clients)
	}
}

func TestImport_XLSXUnsupportedExtension(t *testing.T) {
	svc := newTestService()
	req := validImportRequest()
	req.Tasks = &FileInput{Name: "tasks.ods", Data: []byte("x")}

	_, err := svc.Import(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("Import() error = %v, want unsupported file type", err)
	}
}
