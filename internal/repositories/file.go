package repositories

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
)

// Codec converts one entity kind to and from a CSV record.
type Codec[T any] interface {
	Header() []string
	Encode(entity *T) []string
	Decode(record []string) (*T, error)
}

// FileRepository implements models.Repository[T] on a single CSV file with a header row.
//
// Create appends a record; Update and Delete rewrite the whole file. A zero id is
// replaced with one more than the highest id on file.
type FileRepository[T any, PT interface {
	*T
	models.HasID
}] struct {
	path    string
	codec   Codec[T]
	logger  *log.Logger
	hydrate func(*T) error
}

// NewFileRepository opens the CSV file at path, creating it with the codec's header when missing.
func NewFileRepository[T any, PT interface {
	*T
	models.HasID
}](path string, codec Codec[T], logger *log.Logger) (*FileRepository[T, PT], error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	r := &FileRepository[T, PT]{path: path, codec: codec, logger: shared.WithLogger(logger, "file", path)}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := r.save(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return r, nil
}

// OnLoad sets a step applied to every entity returned by Read and ReadAll.
func (r *FileRepository[T, PT]) OnLoad(fn func(*T) error) {
	r.hydrate = fn
}

// Create appends entity to the file, assigning an id when it has none.
func (r *FileRepository[T, PT]) Create(entity *T) error {
	all, err := r.load()
	if err != nil {
		return err
	}

	id := PT(entity).GetID()
	var maxID int64
	for _, e := range all {
		existing := PT(e).GetID()
		if id != 0 && existing == id {
			return fmt.Errorf("%s %d: %w", r.path, id, shared.ErrDuplicateID)
		}
		maxID = max(maxID, existing)
	}
	if id == 0 {
		PT(entity).SetID(maxID + 1)
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(r.codec.Encode(entity)); err != nil {
		return fmt.Errorf("failed to append to %s: %w", r.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append to %s: %w", r.path, err)
	}

	r.logger.Debug("appended record", "id", PT(entity).GetID())
	return nil
}

// Read returns the entity with the given id, or (nil, nil) when there is none.
func (r *FileRepository[T, PT]) Read(id int64) (*T, error) {
	all, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, e := range all {
		if PT(e).GetID() == id {
			if err := r.apply(e); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, nil
}

// ReadAll returns every entity in file order.
func (r *FileRepository[T, PT]) ReadAll() ([]*T, error) {
	all, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, e := range all {
		if err := r.apply(e); err != nil {
			return nil, err
		}
	}
	return all, nil
}

// Update replaces the record with the id of entity.
func (r *FileRepository[T, PT]) Update(entity *T) error {
	all, err := r.load()
	if err != nil {
		return err
	}

	id := PT(entity).GetID()
	idx := slices.IndexFunc(all, func(e *T) bool { return PT(e).GetID() == id })
	if idx < 0 {
		return fmt.Errorf("%s %d: %w", r.path, id, shared.ErrNotFound)
	}
	all[idx] = entity

	r.logger.Debug("rewriting file", "op", "update", "id", id)
	return r.save(all)
}

// Delete removes the record with the given id.
func (r *FileRepository[T, PT]) Delete(id int64) error {
	all, err := r.load()
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(all, func(e *T) bool { return PT(e).GetID() == id })
	if idx < 0 {
		return fmt.Errorf("%s %d: %w", r.path, id, shared.ErrNotFound)
	}

	r.logger.Debug("rewriting file", "op", "delete", "id", id)
	return r.save(slices.Delete(all, idx, idx+1))
}

func (r *FileRepository[T, PT]) apply(e *T) error {
	if r.hydrate == nil {
		return nil
	}
	return r.hydrate(e)
}

// load decodes every record after the header.
func (r *FileRepository[T, PT]) load() ([]*T, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(r.codec.Header())
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", shared.ErrCorruptStore, r.path, err)
	}

	entities := make([]*T, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue
		}
		e, err := r.codec.Decode(record)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", shared.ErrCorruptStore, r.path, i+1, err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// save rewrites the file with a header and entities, replacing it atomically.
func (r *FileRepository[T, PT]) save(entities []*T) error {
	tmp := r.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	records := make([][]string, 0, len(entities)+1)
	records = append(records, r.codec.Header())
	for _, e := range entities {
		records = append(records, r.codec.Encode(e))
	}

	if err := w.WriteAll(records); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}
