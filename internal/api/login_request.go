package api

// LoginRequest 的 username 欄位承載使用者 Email (OAuth2 password form 慣例)
// swagger:model api.LoginRequest
type LoginRequest struct {
	Username string `form:"username" validate:"required" example:"alice@example.com"`
	Password string `form:"password" validate:"required" example:"Secret123!"`
}
