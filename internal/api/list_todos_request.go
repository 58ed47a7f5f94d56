package api

// ListTodosRequest 綁定列表查詢參數；零值欄位代表不過濾
// swagger:model api.ListTodosRequest
type ListTodosRequest struct {
	Offset      int    `query:"offset" validate:"gte=0" example:"0"`
	Limit       int    `query:"limit" validate:"gte=0" example:"20"`
	Title       string `query:"title" example:"milk"`
	Description string `query:"description" example:"liters"`
	State       string `query:"state" validate:"omitempty,oneof=todo doing done draft" example:"todo"`
}
