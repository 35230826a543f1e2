package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

const todoColumns = `id, user_id, title, description, is_completed, created_at, updated_at`

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository returns a Postgres-backed implementation of TodoRepository.
func NewTodoRepository(pool *pgxpool.Pool) repository.TodoRepository {
	return &todoRepository{pool: pool}
}

func (r *todoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	return scanTodo(r.pool.QueryRow(ctx, query, id))
}

func (r *todoRepository) List(ctx context.Context, q repository.TodoQuery) ([]domain.Todo, int, error) {
	const countQuery = `
	SELECT COUNT(*)
	FROM todos
	WHERE user_id = $1
	  AND ($2::boolean IS NULL OR is_completed = $2)
	`
	const pageQuery = `
	SELECT ` + todoColumns + `
	FROM todos
	WHERE user_id = $1
	  AND ($2::boolean IS NULL OR is_completed = $2)
	ORDER BY created_at DESC, id DESC
	LIMIT $3 OFFSET $4
	`

	var (
		todos []domain.Todo
		total int
	)
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pgx.BeginTxFunc(ctx, r.pool, opts, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countQuery, q.UserID, q.Completed).Scan(&total); err != nil {
			return err
		}
		if total == 0 || q.Offset >= total {
			return nil
		}

		rows, err := tx.Query(ctx, pageQuery, q.UserID, q.Completed, q.Limit, q.Offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			todo, err := scanTodo(rows)
			if err != nil {
				return err
			}
			todos = append(todos, *todo)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	if todo == nil || todo.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO todos (user_id, title, description, is_completed)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
		return nil, err
	}

	return todo, nil
}

func (r *todoRepository) Update(ctx context.Context, id int64, mutate repository.MutateFunc) (*domain.Todo, error) {
	const lockQuery = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 FOR UPDATE`
	const updateQuery = `
	UPDATE todos
	SET title = $2,
		description = $3,
		is_completed = $4,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	var todo *domain.Todo
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanTodo(tx.QueryRow(ctx, lockQuery, id))
		if err != nil {
			return err
		}
		if mutate != nil {
			if err := mutate(current); err != nil {
				return err
			}
		}
		if err := tx.QueryRow(ctx, updateQuery,
			id,
			current.Title,
			current.Description,
			current.IsCompleted,
		).Scan(&current.UpdatedAt); err != nil {
			return err
		}
		todo = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func (r *todoRepository) Delete(ctx context.Context, id int64, guard repository.GuardFunc) error {
	const lockQuery = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 FOR UPDATE`
	const deleteQuery = `DELETE FROM todos WHERE id = $1`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanTodo(tx.QueryRow(ctx, lockQuery, id))
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, deleteQuery, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTodoNotFound
		}
		return nil
	})
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var todo domain.Todo
	if err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.IsCompleted,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}
