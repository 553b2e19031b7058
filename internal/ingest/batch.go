// Package ingest uploads many local files through the ingestion gateway concurrently.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"

	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/shared/telemetry"
)

// DefaultConcurrency is used when Options.Concurrency is not positive.
const DefaultConcurrency = 4

// Uploader is the gateway operation a batch drives.
type Uploader interface {
	Upload(ctx context.Context, in documents.UploadInput) (documents.UploadResult, error)
}

// Options tune a batch run.
type Options struct {
	Concurrency int
	UploadedBy  string
}

// Outcome is the per-file result of a batch. Exactly one of Result or Err is set.
type Outcome struct {
	Path   string
	Result documents.UploadResult
	Err    error
}

// Files uploads every path with at most Options.Concurrency uploads in flight.
// Outcomes are returned in input order.
func Files(ctx context.Context, up Uploader, paths []string, opts Options) ([]Outcome, error) {
	size := opts.Concurrency
	if size <= 0 {
		size = DefaultConcurrency
	}
	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(rec interface{}) {
		telemetry.Error("ingest.panic", map[string]any{"panic": fmt.Sprint(rec)})
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	outcomes := make([]Outcome, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		outcomes[i] = Outcome{Path: path, Err: errors.New("upload did not run")}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = uploadFile(ctx, up, path, opts.UploadedBy)
		})
		if submitErr != nil {
			wg.Done()
			outcomes[i].Err = fmt.Errorf("submit: %w", submitErr)
		}
	}
	wg.Wait()
	return outcomes, nil
}

func uploadFile(ctx context.Context, up Uploader, path, uploadedBy string) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Outcome{Path: path, Err: fmt.Errorf("read file: %w", err)}
	}
	res, err := up.Upload(ctx, documents.UploadInput{
		Data:       data,
		FileName:   filepath.Base(path),
		UploadedBy: uploadedBy,
	})
	if err != nil {
		telemetry.Warn("ingest.file_failed", map[string]any{"path": path, "error": err})
		return Outcome{Path: path, Err: err}
	}
	return Outcome{Path: path, Result: res}
}

// Expand turns directories into the regular files directly inside them. Other
// paths are passed through unchanged.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				out = append(out, filepath.Join(p, e.Name()))
			}
		}
	}
	return out, nil
}
