package auth

import (
	"net/http"
	"strings"

	"fast-zero/internal/api"
	"fast-zero/internal/database"
	"fast-zero/internal/middleware"
	"fast-zero/internal/service"
	"fast-zero/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByEmail   = store.GetUserByEmail
	comparePassword  = service.ComparePassword
	issueAccessToken = service.IssueAccessToken
)

// @Summary     Obtain access token
// @Description 以 Email (username 欄位) 與密碼驗證，回傳 bearer 令牌
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "使用者 Email"
// @Param       password formData string true "使用者密碼"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/token [post]
func TokenHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}

		// 不區分帳號不存在與密碼錯誤
		user, err := getUserByEmail(c.Request().Context(), db, strings.ToLower(req.Username))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "invalid username or password"})
		}
		if err := comparePassword(user.PasswordHash, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "invalid username or password"})
		}

		token, expiresAt, err := issueAccessToken(user.Email, service.TokenTTL())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresAt,
		})
	}
}

// @Summary     Refresh access token
// @Description 以仍有效的 bearer 令牌換發一顆同樣 TTL 的新令牌
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.TokenResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/refresh_token [post]
func RefreshTokenHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "could not validate credentials"})
		}

		token, expiresAt, err := issueAccessToken(user.Email, service.TokenTTL())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresAt,
		})
	}
}
