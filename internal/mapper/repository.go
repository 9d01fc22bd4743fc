package mapper

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/shared"
)

// DBRepository implements models.Repository[T] over a [sql.DB] for any entity kind
// described by a [Schema].
//
// Every call checks out its own connection and returns it before the call ends.
// The hydrator, when set, runs after that connection has been released.
type DBRepository[T any] struct {
	db      *sql.DB
	dialect Dialect
	schema  *Schema[T]
	stmts   Statements
	logger  *log.Logger
	hydrate func(*T) error
}

// Option configures a [DBRepository].
type Option[T any] func(*DBRepository[T])

// WithLogger sets the logger statements are traced to at debug level.
func WithLogger[T any](l *log.Logger) Option[T] {
	return func(r *DBRepository[T]) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHydrator sets a post-read step applied to every entity returned by Read and ReadAll.
func WithHydrator[T any](fn func(*T) error) Option[T] {
	return func(r *DBRepository[T]) {
		r.hydrate = fn
	}
}

// NewDBRepository creates a repository for schema on db using dialect d.
func NewDBRepository[T any](db *sql.DB, d Dialect, schema *Schema[T], opts ...Option[T]) *DBRepository[T] {
	r := &DBRepository[T]{
		db:      db,
		dialect: d,
		schema:  schema,
		stmts:   NewStatements(schema.Binding(), schema.UpdateColumns(), d),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Statements exposes the statements the repository executes.
func (r *DBRepository[T]) Statements() Statements {
	return r.stmts
}

// Create inserts entity. A zero id is left to the store and written back to entity.
// After an explicit id the dialect's id sequence, if any, is moved past it.
func (r *DBRepository[T]) Create(entity *T) error {
	id := r.schema.ID(entity)
	columns, args, err := r.schema.InsertArgs(entity, id != 0)
	if err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return r.storageError("create", err)
	}
	defer conn.Close()

	if id == 0 && r.dialect.Returning {
		query := r.stmts.InsertReturning(columns)
		r.trace("create", query)

		var assigned int64
		if err := conn.QueryRowContext(ctx, query, args...).Scan(&assigned); err != nil {
			return r.storageError("create", err)
		}
		return r.schema.SetID(entity, assigned)
	}

	query := r.stmts.Insert(columns)
	r.trace("create", query)

	result, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return r.storageError("create", err)
	}
	if id != 0 {
		if sync := r.stmts.SyncSequence(); sync != "" {
			r.trace("create", sync)
			if _, err := conn.ExecContext(ctx, sync); err != nil {
				return r.storageError("create", err)
			}
		}
		return nil
	}

	assigned, err := result.LastInsertId()
	if err != nil {
		return r.storageError("create", err)
	}
	return r.schema.SetID(entity, assigned)
}

// Read returns the entity with the given id, or (nil, nil) when there is none.
func (r *DBRepository[T]) Read(id int64) (*T, error) {
	entities, err := r.query("read", r.stmts.SelectByID(), id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}

	if err := r.hydrateAll(entities[:1]); err != nil {
		return nil, err
	}
	return entities[0], nil
}

// ReadAll returns every row of the table in result order.
func (r *DBRepository[T]) ReadAll() ([]*T, error) {
	entities, err := r.query("read all", r.stmts.SelectAll())
	if err != nil {
		return nil, err
	}

	if err := r.hydrateAll(entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// Update overwrites every column of the row matching the id of entity.
// It returns an error wrapping [shared.ErrNotFound] when no row matches.
func (r *DBRepository[T]) Update(entity *T) error {
	args, err := r.schema.UpdateArgs(entity)
	if err != nil {
		return err
	}
	if len(args) != r.stmts.UpdateArity() {
		return &BindingError{
			Table: r.schema.Binding().Table,
			Err:   fmt.Errorf("update expects %d parameters, got %d", r.stmts.UpdateArity(), len(args)),
		}
	}

	affected, err := r.exec("update", r.stmts.Update(), args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", r.schema.Kind(), r.schema.ID(entity), shared.ErrNotFound)
	}
	return nil
}

// Delete removes the row with the given id.
// It returns an error wrapping [shared.ErrNotFound] when no row matches.
func (r *DBRepository[T]) Delete(id int64) error {
	affected, err := r.exec("delete", r.stmts.Delete(), id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", r.schema.Kind(), id, shared.ErrNotFound)
	}
	return nil
}

func (r *DBRepository[T]) query(op, query string, args ...any) ([]*T, error) {
	ctx := context.Background()
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, r.storageError(op, err)
	}
	defer conn.Close()

	r.trace(op, query)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.storageError(op, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, r.storageError(op, err)
	}

	entities := make([]*T, 0)
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, r.storageError(op, err)
		}
		entity, err := r.schema.Materialize(row, r.dialect.TimeLayouts)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storageError(op, err)
	}
	return entities, nil
}

func (r *DBRepository[T]) exec(op, query string, args ...any) (int64, error) {
	ctx := context.Background()
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, r.storageError(op, err)
	}
	defer conn.Close()

	r.trace(op, query)
	result, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, r.storageError(op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, r.storageError(op, err)
	}
	return affected, nil
}

func (r *DBRepository[T]) hydrateAll(entities []*T) error {
	if r.hydrate == nil {
		return nil
	}
	for _, e := range entities {
		if err := r.hydrate(e); err != nil {
			return fmt.Errorf("failed to hydrate %s %d: %w", r.schema.Kind(), r.schema.ID(e), err)
		}
	}
	return nil
}

func (r *DBRepository[T]) trace(op, query string) {
	r.logger.Debug("executing statement", "op", op, "table", r.schema.Binding().Table, "sql", query)
}

func (r *DBRepository[T]) storageError(op string, err error) error {
	return &StorageError{Op: op, Table: r.schema.Binding().Table, Err: err}
}
