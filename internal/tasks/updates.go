package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadListing Phase = iota
	WriteListing
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadListing:
		return "load_listing"
	case WriteListing:
		return "write_listing"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func loadingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Loading %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, res ExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d rows)", step, total, res.Name, res.Rows),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res ExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Name, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
