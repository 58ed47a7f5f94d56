package api

// UpdateUserRequest 為全量替換，三個欄位皆必填
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"Secret123!"`
}
