package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fast-zero/internal/api"
	"fast-zero/internal/cache"
	"fast-zero/internal/database"
	"fast-zero/internal/model"
	"fast-zero/internal/service"
	"fast-zero/internal/store"

	"github.com/labstack/echo/v4"
)

// ContextUserKey 存放中介層解析出的 *model.User
const ContextUserKey = "user"

var (
	verifyAccessToken = service.VerifyAccessToken
	getUserByEmail    = store.GetUserByEmail
	jsonMarshal       = json.Marshal
	jsonUnmarshal     = json.Unmarshal
)

func userCacheKey(email string) string {
	return "user:email:" + email
}

// extractToken 解析 Authorization: Bearer <token>
func extractToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// resolveUser 驗證令牌並解析出使用者
// 令牌合法但使用者已被刪除時一樣視為未認證：
// 過期前簽發的舊令牌不得代表已不存在的帳號。
func resolveUser(c echo.Context, db database.DB, rdb cache.Cache) (*model.User, error) {
	tokenString, ok := extractToken(c)
	if !ok {
		return nil, errors.New("missing or malformed authorization header")
	}

	claims, err := verifyAccessToken(tokenString)
	if err != nil {
		// 簽名、過期、缺 subject 對外不做區分，原因僅留在日誌
		c.Logger().Debugf("token rejected: %v", err)
		return nil, err
	}

	ctx := c.Request().Context()
	if cached, cerr := rdb.Get(ctx, userCacheKey(claims.Subject)).Result(); cerr == nil {
		u := &model.User{}
		if jsonUnmarshal([]byte(cached), u) == nil && u.ID != 0 {
			return u, nil
		}
	}

	user, err := getUserByEmail(ctx, db, claims.Subject)
	if err != nil {
		return nil, err
	}

	if data, merr := jsonMarshal(user); merr == nil {
		rdb.Set(ctx, userCacheKey(user.Email), data, service.TokenTTL())
	}
	return user, nil
}

// RequireAuth 驗證 bearer token 並將解析出的使用者放入 context
func RequireAuth(db database.DB, rdb cache.Cache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolveUser(c, db, rdb)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "could not validate credentials"})
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser 取出 RequireAuth 解析的使用者
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok && user != nil
}

// InvalidateUser 移除使用者的快取憑證條目
// 更新或刪除使用者後必須呼叫，否則刪除帳號的舊令牌仍可通過解析。
func InvalidateUser(ctx context.Context, rdb cache.Cache, email string) {
	rdb.Del(ctx, userCacheKey(email))
}
