package store

import (
	"context"
	"errors"
	"fmt"

	"fast-zero/internal/database"
	"fast-zero/internal/model"

	"github.com/jackc/pgx/v5"
)

// ErrTodoNotFound 表示指定 todo 不存在，或不屬於該 owner
// 跨 owner 存取一律回報 not found，不做 403 區分。
var ErrTodoNotFound = errors.New("todo not found")

// TodoFilter 為列表查詢條件，零值欄位代表不過濾
type TodoFilter struct {
	Offset      int
	Limit       int
	Title       string
	Description string
	State       model.TodoState
}

// TodoUpdate 為部分更新欄位，nil 代表維持原值
type TodoUpdate struct {
	Title       *string
	Description *string
	State       *model.TodoState
}

func CreateTodo(ctx context.Context, db database.DB, t *model.Todo) (*model.Todo, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO todos (title, description, state, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.Title,
		t.Description,
		string(t.State),
		t.UserID,
	)
	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateTodo: %w", err)
	}
	return t, nil
}

// ListTodos 僅回傳指定 owner 的 todos；title/description 為子字串比對，state 為精確比對
func ListTodos(ctx context.Context, db database.DB, userID int, f TodoFilter) ([]model.Todo, error) {
	sql := `SELECT id, title, description, state, user_id, created_at, updated_at
		 FROM todos WHERE user_id = $1`
	args := []any{userID}

	if f.Title != "" {
		args = append(args, "%"+f.Title+"%")
		sql += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	if f.Description != "" {
		args = append(args, "%"+f.Description+"%")
		sql += fmt.Sprintf(" AND description ILIKE $%d", len(args))
	}
	if f.State != "" {
		args = append(args, string(f.State))
		sql += fmt.Sprintf(" AND state = $%d", len(args))
	}

	args = append(args, f.Offset)
	sql += fmt.Sprintf(" ORDER BY id OFFSET $%d", len(args))
	args = append(args, f.Limit)
	sql += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListTodos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		var t model.Todo
		var state string
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&state,
			&t.UserID,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListTodos: %w", err)
		}
		t.State = model.TodoState(state)
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTodos: %w", err)
	}
	return todos, nil
}

// UpdateTodo 以 COALESCE 合併未設定欄位並刷新 updated_at；
// 查詢同時以 user_id 限定 owner，跨 owner 的 todo 視同不存在 (pgx.ErrNoRows)。
func UpdateTodo(ctx context.Context, db database.DB, userID, todoID int, upd TodoUpdate) (*model.Todo, error) {
	row := db.QueryRow(ctx,
		`UPDATE todos
		 SET title = COALESCE($1, title),
		     description = COALESCE($2, description),
		     state = COALESCE($3, state),
		     updated_at = now()
		 WHERE id = $4 AND user_id = $5
		 RETURNING id, title, description, state, user_id, created_at, updated_at`,
		upd.Title,
		upd.Description,
		(*string)(upd.State),
		todoID,
		userID,
	)
	t := &model.Todo{}
	var state string
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&state,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("UpdateTodo: %w", err)
	}
	t.State = model.TodoState(state)
	return t, nil
}

// DeleteTodo 以 owner 限定刪除；無刪除列時回傳 ErrTodoNotFound
func DeleteTodo(ctx context.Context, db database.DB, userID, todoID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`,
		todoID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteTodo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}
