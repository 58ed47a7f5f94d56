package users

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fast-zero/internal/api"
	"fast-zero/internal/cache"
	"fast-zero/internal/database"
	"fast-zero/internal/mail"
	"fast-zero/internal/middleware"
	"fast-zero/internal/model"
	"fast-zero/internal/service"
	"fast-zero/internal/store"
	"fast-zero/internal/worker"

	"github.com/labstack/echo/v4"
)

const defaultListLimit = 20

var (
	hashPassword = service.HashPassword
	createUser   = store.CreateUser
	listUsers    = store.ListUsers
	updateUser   = store.UpdateUser
	deleteUser   = store.DeleteUser
)

func userResponse(u *model.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// requireSelf 比對路徑上的使用者 ID 與當前登入者
// 身分有效但資源不屬於自己時回傳 403，與 401 區分。
// 失敗時錯誤回應已寫入，user 為 nil；caller 以 user 判斷，
// err 只承載 JSON 寫入的結果 (c.JSON 成功時為 nil)。
func requireSelf(c echo.Context) (*model.User, int, error) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		return nil, 0, c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid user ID"})
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, 0, c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "could not validate credentials"})
	}
	if user.ID != id {
		return nil, 0, c.JSON(http.StatusForbidden, api.ErrorResponse{Detail: "not enough permissions"})
	}
	return user, id, nil
}

// @Summary     Register a new user
// @Description 公開註冊端點；Email 轉小寫儲存，密碼僅存 bcrypt 哈希
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.CreateUserRequest true "Create user request"
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(db database.DB, wp worker.Pool, mailer *mail.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to hash password"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Username:     req.Username,
			Email:        strings.ToLower(req.Email),
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateUser) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Detail: "username or email already in use"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		}

		// 歡迎信在 worker pool 寄送，不阻塞註冊請求。
		// echo 會回收 context，任務執行時不得再持有 c。
		if mailer != nil && wp != nil {
			logger := c.Logger()
			to, name := user.Email, user.Username
			wp.Submit(func() {
				if err := mailer.SendWelcome(to, name); err != nil {
					logger.Errorf("welcome mail to %s: %v", to, err)
				}
			})
		}

		return c.JSON(http.StatusCreated, userResponse(user))
	}
}

// @Summary     List users
// @Description 分頁列出使用者，回應不含密碼哈希
// @Tags        users
// @Produce     json
// @Param       offset query int false "起始位移" default(0)
// @Param       limit  query int false "筆數上限" default(20)
// @Success     200 {object} api.UserListResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ListUsersRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}
		if req.Limit == 0 {
			req.Limit = defaultListLimit
		}

		users, err := listUsers(c.Request().Context(), db, req.Offset, req.Limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		}

		resp := api.UserListResponse{Users: make([]api.UserResponse, 0, len(users))}
		for i := range users {
			resp.Users = append(resp.Users, userResponse(&users[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Get a user by ID
// @Description 僅允許查詢自己的資料；他人 ID 一律 403
// @Tags        users
// @Produce     json
// @Param       user_id path int true "使用者 ID"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [get]
func GetUserHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _, err := requireSelf(c)
		if user == nil {
			return err
		}
		return c.JSON(http.StatusOK, userResponse(user))
	}
}

// @Summary     Update a user by ID
// @Description 全量替換 username/Email/密碼；僅允許更新自己
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       user_id path int true "使用者 ID"
// @Param       request body api.UpdateUserRequest true "Update user request"
// @Success     200 {object} api.UpdatedUserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [put]
func UpdateUserHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		current, id, err := requireSelf(c)
		if current == nil {
			return err
		}

		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to hash password"})
		}

		user := &model.User{
			ID:           id,
			Username:     req.Username,
			Email:        strings.ToLower(req.Email),
			PasswordHash: hash,
		}
		if err := updateUser(c.Request().Context(), db, user); err != nil {
			if errors.Is(err, store.ErrDuplicateUser) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Detail: "username or email already in use"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		}

		// Email 可能已變更，舊條目必須失效
		middleware.InvalidateUser(c.Request().Context(), rdb, current.Email)

		return c.JSON(http.StatusOK, api.UpdatedUserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}
}

// @Summary     Delete a user by ID
// @Description 同一交易內連同使用者的 todos 一併刪除；僅允許刪除自己
// @Tags        users
// @Produce     json
// @Param       user_id path int true "使用者 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [delete]
func DeleteUserHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		current, id, err := requireSelf(c)
		if current == nil {
			return err
		}

		if err := deleteUser(c.Request().Context(), db, id); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		}

		// 已刪除帳號的殘留令牌不得再解析成功
		middleware.InvalidateUser(c.Request().Context(), rdb, current.Email)

		return c.NoContent(http.StatusNoContent)
	}
}
