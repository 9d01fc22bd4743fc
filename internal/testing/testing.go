// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"slices"
	"testing"

	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
)

// ErrStoreOffline is returned by [FailingRepository] and [StubReader] when configured to fail.
var ErrStoreOffline = errors.New("store offline")

// MemoryRepository is an in-memory models.Repository[T] that assigns sequential ids.
type MemoryRepository[T any, PT interface {
	*T
	models.HasID
}] struct {
	items  []*T
	nextID int64
}

func NewMemoryRepository[T any, PT interface {
	*T
	models.HasID
}](seed ...*T) *MemoryRepository[T, PT] {
	r := &MemoryRepository[T, PT]{}
	for _, e := range seed {
		_ = r.Create(e)
	}
	return r
}

func (r *MemoryRepository[T, PT]) Create(entity *T) error {
	id := PT(entity).GetID()
	if id == 0 {
		r.nextID++
		PT(entity).SetID(r.nextID)
	} else {
		if r.index(id) >= 0 {
			return shared.ErrDuplicateID
		}
		r.nextID = max(r.nextID, id)
	}
	copied := *entity
	r.items = append(r.items, &copied)
	return nil
}

func (r *MemoryRepository[T, PT]) Read(id int64) (*T, error) {
	idx := r.index(id)
	if idx < 0 {
		return nil, nil
	}
	copied := *r.items[idx]
	return &copied, nil
}

func (r *MemoryRepository[T, PT]) ReadAll() ([]*T, error) {
	all := make([]*T, len(r.items))
	for i, e := range r.items {
		copied := *e
		all[i] = &copied
	}
	return all, nil
}

func (r *MemoryRepository[T, PT]) Update(entity *T) error {
	idx := r.index(PT(entity).GetID())
	if idx < 0 {
		return shared.ErrNotFound
	}
	copied := *entity
	r.items[idx] = &copied
	return nil
}

func (r *MemoryRepository[T, PT]) Delete(id int64) error {
	idx := r.index(id)
	if idx < 0 {
		return shared.ErrNotFound
	}
	r.items = slices.Delete(r.items, idx, idx+1)
	return nil
}

// Len returns the number of stored entities.
func (r *MemoryRepository[T, PT]) Len() int { return len(r.items) }

func (r *MemoryRepository[T, PT]) index(id int64) int {
	return slices.IndexFunc(r.items, func(e *T) bool { return PT(e).GetID() == id })
}

// FailingRepository fails every operation with [ErrStoreOffline].
type FailingRepository[T any] struct{}

func (FailingRepository[T]) Create(*T) error        { return ErrStoreOffline }
func (FailingRepository[T]) Read(int64) (*T, error) { return nil, ErrStoreOffline }
func (FailingRepository[T]) ReadAll() ([]*T, error) { return nil, ErrStoreOffline }
func (FailingRepository[T]) Update(*T) error        { return ErrStoreOffline }
func (FailingRepository[T]) Delete(int64) error     { return ErrStoreOffline }

// StubReader is a models.Reader[T] answering from a fixed map and counting calls.
type StubReader[T any] struct {
	Entities map[int64]*T
	Err      error
	Calls    int
}

func (s *StubReader[T]) Read(id int64) (*T, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Entities[id], nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
