// File: internal/model/todo.go
package model

import "time"

// TodoState 為待辦事項的狀態，封閉集合
type TodoState string

const (
	TodoStateTodo  TodoState = "todo"
	TodoStateDoing TodoState = "doing"
	TodoStateDone  TodoState = "done"
	TodoStateDraft TodoState = "draft"
)

// Valid 檢查狀態是否屬於封閉集合
func (s TodoState) Valid() bool {
	switch s {
	case TodoStateTodo, TodoStateDoing, TodoStateDone, TodoStateDraft:
		return true
	}
	return false
}

type Todo struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	State       TodoState `db:"state" json:"state"`
	UserID      int       `db:"user_id" json:"user_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
