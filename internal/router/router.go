package router

import (
	"github.com/labstack/echo/v4"

	"fast-zero/internal/cache"
	"fast-zero/internal/database"
	"fast-zero/internal/handler"
	"fast-zero/internal/handler/auth"
	"fast-zero/internal/handler/todos"
	"fast-zero/internal/handler/users"
	"fast-zero/internal/mail"
	"fast-zero/internal/middleware"
	"fast-zero/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, wp worker.Pool, mailer *mail.Mailer) {
	requireAuth := middleware.RequireAuth(db, rdb)

	// 健康檢查
	e.GET("/health", handler.HealthHandler(db, rdb))

	// 登入與換發令牌
	apiAuth := e.Group("/auth")
	apiAuth.POST("/token", auth.TokenHandler(db))
	apiAuth.POST("/refresh_token", auth.RefreshTokenHandler(), requireAuth)

	// Users：註冊與列表公開，單筆操作僅限本人
	apiUsers := e.Group("/users")
	apiUsers.POST("", users.CreateUserHandler(db, wp, mailer))
	apiUsers.GET("", users.ListUsersHandler(db))
	apiUsers.GET("/:user_id", users.GetUserHandler(), requireAuth)
	apiUsers.PUT("/:user_id", users.UpdateUserHandler(db, rdb), requireAuth)
	apiUsers.DELETE("/:user_id", users.DeleteUserHandler(db, rdb), requireAuth)

	// Todos：全部需要登入，查詢一律以 owner 限定
	apiTodos := e.Group("/todos", requireAuth)
	apiTodos.POST("", todos.CreateTodoHandler(db))
	apiTodos.GET("", todos.ListTodosHandler(db))
	apiTodos.PATCH("/:todo_id", todos.UpdateTodoHandler(db))
	apiTodos.DELETE("/:todo_id", todos.DeleteTodoHandler(db))
}
