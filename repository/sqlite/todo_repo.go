package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

const todoColumns = `id, user_id, title, description, is_completed, created_at, updated_at`

type todoRepository struct {
	db   *sql.DB
	opts options
}

// NewTodoRepository returns a SQLite-backed implementation of TodoRepository.
func NewTodoRepository(db *sql.DB, opts ...Option) repository.TodoRepository {
	return &todoRepository{db: db, opts: buildOptions(opts)}
}

func (r *todoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	return scanTodo(r.db.QueryRowContext(ctx, query, id))
}

func (r *todoRepository) List(ctx context.Context, q repository.TodoQuery) ([]domain.Todo, int, error) {
	const countQuery = `
	SELECT COUNT(*)
	FROM todos
	WHERE user_id = ?
	  AND (? IS NULL OR is_completed = ?)
	`
	const pageQuery = `
	SELECT ` + todoColumns + `
	FROM todos
	WHERE user_id = ?
	  AND (? IS NULL OR is_completed = ?)
	ORDER BY created_at DESC, id DESC
	LIMIT ? OFFSET ?
	`

	completed := sql.NullBool{}
	if q.Completed != nil {
		completed = sql.NullBool{Bool: *q.Completed, Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, countQuery, q.UserID, completed, completed).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 || q.Offset >= total {
		return nil, total, tx.Commit()
	}

	rows, err := tx.QueryContext(ctx, pageQuery, q.UserID, completed, completed, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, 0, err
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := rows.Close(); err != nil {
		return nil, 0, err
	}
	return todos, total, tx.Commit()
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	if todo == nil || todo.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO todos (user_id, title, description, is_completed, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	now := r.opts.now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		todo.UserID,
		todo.Title,
		nullString(todo.Description),
		todo.IsCompleted,
		toUnix(now),
		toUnix(now),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	todo.ID = id
	todo.CreatedAt = fromUnix(toUnix(now))
	todo.UpdatedAt = todo.CreatedAt
	return todo, nil
}

func (r *todoRepository) Update(ctx context.Context, id int64, mutate repository.MutateFunc) (*domain.Todo, error) {
	const selectQuery = `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	const updateQuery = `
	UPDATE todos
	SET title = ?,
		description = ?,
		is_completed = ?,
		updated_at = ?
	WHERE id = ?
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := scanTodo(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		if err := mutate(current); err != nil {
			return nil, err
		}
	}

	updatedAt := toUnix(r.opts.now())
	if _, err := tx.ExecContext(ctx, updateQuery,
		current.Title,
		nullString(current.Description),
		current.IsCompleted,
		updatedAt,
		id,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	current.UpdatedAt = fromUnix(updatedAt)
	return current, nil
}

func (r *todoRepository) Delete(ctx context.Context, id int64, guard repository.GuardFunc) error {
	const selectQuery = `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	current, err := scanTodo(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		return err
	}
	if guard != nil {
		if err := guard(current); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrTodoNotFound
	}
	return tx.Commit()
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var (
		todo        domain.Todo
		description sql.NullString
		createdAt   int64
		updatedAt   int64
	)
	if err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&description,
		&todo.IsCompleted,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}

	todo.Description = stringPtr(description)
	todo.CreatedAt = fromUnix(createdAt)
	todo.UpdatedAt = fromUnix(updatedAt)
	return &todo, nil
}
