// Package tasks runs long dealership operations with real-time progress reporting.
//
// # Bulk Export
//
// [BulkExport] writes one file per [Source] (every entity kind by default, see [Sources])
// into an output directory:
//   - Sources are loaded by a fixed pool of workers, throttled by an optional rate limit so
//     a shared database is not flooded
//   - Each listing is written as CSV, Markdown, text or JSON through the formatter package
//   - Partial failures are recorded per source and summarized in export_manifest.json
//
// # Progress Reporting
//
// Callers pass an optional channel of [ProgressUpdate] (phase, step counters, message and
// the per-source [ExportResult] as data). Sends never block; a full channel drops the update.
package tasks
