package api

// UpdatedUserResponse 為 PUT /users/{user_id} 的精簡回應
// swagger:model api.UpdatedUserResponse
type UpdatedUserResponse struct {
	ID       int    `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
}
