package api

// UpdateTodoRequest 為部分更新；nil 欄位 (payload 缺席) 代表維持原值
// swagger:model api.UpdateTodoRequest
type UpdateTodoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1" example:"buy milk"`
	Description *string `json:"description" validate:"omitempty,min=1" example:"2 liters, whole"`
	State       *string `json:"state" validate:"omitempty,oneof=todo doing done draft" example:"done"`
}
