package api

// ListUsersRequest 綁定分頁查詢參數
// swagger:model api.ListUsersRequest
type ListUsersRequest struct {
	Offset int `query:"offset" validate:"gte=0" example:"0"`
	Limit  int `query:"limit" validate:"gte=0" example:"20"`
}
