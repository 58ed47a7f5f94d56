package api

// swagger:model api.CreateTodoRequest
type CreateTodoRequest struct {
	Title       string `json:"title" validate:"required" example:"buy milk"`
	Description string `json:"description" validate:"required" example:"2 liters, whole"`
	State       string `json:"state" validate:"required,oneof=todo doing done draft" example:"todo"`
}
