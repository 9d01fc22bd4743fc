package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/carvy/internal/formatter"
	"github.com/desertthunder/carvy/internal/services"
	"github.com/desertthunder/carvy/internal/shared"
	"golang.org/x/time/rate"
)

// FormatJSON exports the raw entities instead of a rendered listing.
const FormatJSON = "json"

// Source is one exportable collection. Load returns the rendered listing and the raw
// entities used for JSON exports.
type Source struct {
	Name string
	Load func() (formatter.Listing, any, error)
}

// Sources returns one [Source] per entity kind served by svc.
func Sources(svc *services.Services) []Source {
	return []Source{
		{Name: "cars", Load: func() (formatter.Listing, any, error) {
			cars, err := svc.Cars.List()
			return formatter.Cars(cars), cars, err
		}},
		{Name: "clients", Load: func() (formatter.Listing, any, error) {
			clients, err := svc.Clients.List()
			return formatter.Clients(clients), clients, err
		}},
		{Name: "employees", Load: func() (formatter.Listing, any, error) {
			employees, err := svc.Employees.List()
			return formatter.Employees(employees), employees, err
		}},
		{Name: "leasings", Load: func() (formatter.Listing, any, error) {
			leasings, err := svc.Leasings.List()
			return formatter.Leasings(leasings), leasings, err
		}},
		{Name: "transactions", Load: func() (formatter.Listing, any, error) {
			transactions, err := svc.Transactions.List()
			return formatter.Transactions(transactions), transactions, err
		}},
	}
}

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, text
	OutputDir  string  // Base output directory (default: carvy_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 3, max: 10)
	RateLimit  float64 // Source loads per second (default: unlimited)
}

// ExportResult is the outcome of exporting one [Source].
type ExportResult struct {
	Name    string   `json:"name"`
	Files   []string `json:"files"`
	Rows    int      `json:"rows"`
	Success bool     `json:"success"`
	Error   error    `json:"-"`
	Reason  string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a [BulkExport] run. Results follow the order of the sources.
type BulkExportResult struct {
	Format          string         `json:"format"`
	OutputDirectory string         `json:"output_directory"`
	ExportedAt      time.Time      `json:"exported_at"`
	Total           int            `json:"total"`
	Successful      int            `json:"successful"`
	Failed          int            `json:"failed"`
	Results         []ExportResult `json:"results"`
	ManifestPath    string         `json:"-"`
}

type exportJob struct {
	index  int
	source Source
}

// BulkExport exports sources concurrently with rate limiting and progress tracking.
//
// Sources are handed to a worker pool; a failing source is recorded and does not stop the others.
// A manifest summarizing the run is written to export_manifest.json in the output directory.
func BulkExport(ctx context.Context, prog chan<- ProgressUpdate, sources []Source, opts BulkExportOpts) (*BulkExportResult, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	var listingFormat formatter.Format
	if format != FormatJSON {
		f, err := formatter.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		if f == formatter.FormatTable {
			f = formatter.FormatText
		}
		listingFormat, format = f, string(f)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("carvy_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan exportJob, len(sources))
	for i, s := range sources {
		jobs <- exportJob{index: i, source: s}
	}
	close(jobs)

	results := make([]ExportResult, len(sources))
	done := make(chan int, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				sendProgress(prog, loadingUpdate(job.index+1, len(sources), job.source.Name))
				results[job.index] = exportSource(ctx, limiter, job.source, opts.OutputDir, format, listingFormat)
				done <- job.index
			}
		}()
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	result := &BulkExportResult{
		Format:          format,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now().UTC(),
		Total:           len(sources),
	}

	completed := 0
	for idx := range done {
		completed++
		res := results[idx]
		if res.Success {
			result.Successful++
			sendProgress(prog, exportCompletedUpdate(completed, len(sources), res))
		} else {
			result.Failed++
			sendProgress(prog, exportFailedUpdate(completed, len(sources), res))
		}
	}
	result.Results = results

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := formatter.ToJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

// exportSource loads s and writes it to dir. JSON exports write the raw entities.
func exportSource(ctx context.Context, limiter *rate.Limiter, s Source, dir, format string, f formatter.Format) ExportResult {
	res := ExportResult{Name: s.Name, Files: []string{}}
	fail := func(err error) ExportResult {
		res.Error, res.Reason = err, err.Error()
		return res
	}

	if err := limiter.Wait(ctx); err != nil {
		return fail(err)
	}
	if s.Load == nil {
		return fail(fmt.Errorf("%w: source %s has no loader", shared.ErrNotImplemented, s.Name))
	}

	listing, data, err := s.Load()
	if err != nil {
		return fail(fmt.Errorf("failed to load %s: %w", s.Name, err))
	}
	res.Rows = listing.Len()

	var path string
	if format == FormatJSON {
		path = filepath.Join(dir, s.Name+".json")
		encoded, err := formatter.ToJSON(data, true)
		if err != nil {
			return fail(fmt.Errorf("JSON marshal failed: %w", err))
		}
		if err := os.WriteFile(path, encoded, 0644); err != nil {
			return fail(fmt.Errorf("JSON write failed: %w", err))
		}
	} else {
		if path, err = formatter.WriteExport(listing, f, filepath.Join(dir, s.Name+formatter.Extension(f))); err != nil {
			return fail(fmt.Errorf("%s export failed: %w", f, err))
		}
	}

	res.Files = append(res.Files, path)
	res.Success = true
	return res
}

// sendProgress drops the update when the channel is full or nil.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
