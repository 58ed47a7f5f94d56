package api

import "time"

// swagger:model api.TodoResponse
type TodoResponse struct {
	ID          int       `json:"id" example:"1"`
	Title       string    `json:"title" example:"buy milk"`
	Description string    `json:"description" example:"2 liters, whole"`
	State       string    `json:"state" example:"todo"`
	CreatedAt   time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2025-05-01T15:04:05Z"`
}

// swagger:model api.TodoListResponse
type TodoListResponse struct {
	Todos []TodoResponse `json:"todos"`
}
