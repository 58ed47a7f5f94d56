package todos

import (
	"errors"
	"net/http"
	"strconv"

	"fast-zero/internal/api"
	"fast-zero/internal/database"
	"fast-zero/internal/middleware"
	"fast-zero/internal/model"
	"fast-zero/internal/store"

	"github.com/labstack/echo/v4"
)

const defaultListLimit = 20

var (
	createTodo = store.CreateTodo
	listTodos  = store.ListTodos
	updateTodo = store.UpdateTodo
	deleteTodo = store.DeleteTodo
)

func todoResponse(t *model.Todo) api.TodoResponse {
	return api.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		State:       string(t.State),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// @Summary     Create a todo
// @Description 為當前使用者建立待辦事項
// @Tags        todos
// @Accept      json
// @Produce     json
// @Param       request body api.CreateTodoRequest true "Create todo request"
// @Success     201 {object} api.TodoResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /todos [post]
func CreateTodoHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "could not validate credentials"})
		}

		var req api.CreateTodoRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}

		todo, err := createTodo(c.Request().Context(), db, &model.Todo{
			Title:       req.Title,
			Description: req.Description,
			State:       model.TodoState(req.State),
			UserID:      user.ID,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		}

		return c.JSON(http.StatusCreated, todoResponse(todo))
	}
}

// @Summary     List todos
// @Description 列出當前使用者的待辦事項；title/description 為子字串過濾，state 為精確過濾
// @Tags        todos
// @Produce     json
// @Param       offset      query int    false "起始位移" default(0)
// @Param       limit       query int    false "筆數上限" default(20)
// @Param       title       query string false "標題子字串"
// @Param       description query string false "描述子字串"
// @Param       state       query string false "狀態" Enums(todo, doing, done, draft)
// @Success     200 {object} api.TodoListResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /todos [get]
func ListTodosHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "could not validate credentials"})
		}

		var req api.ListTodosRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid query parameters"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}
		if req.Limit == 0 {
			req.Limit = defaultListLimit
		}

		todos, err := listTodos(c.Request().Context(), db, user.ID, store.TodoFilter{
			Offset:      req.Offset,
			Limit:       req.Limit,
			Title:       req.Title,
			Description: req.Description,
			State:       model.TodoState(req.State),
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		}

		resp := api.TodoListResponse{Todos: make([]api.TodoResponse, 0, len(todos))}
		for i := range todos {
			resp.Todos = append(resp.Todos, todoResponse(&todos[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Update a todo
// @Description 部分更新；payload 缺席的欄位維持原值。非本人的 todo 一律 404
// @Tags        todos
// @Accept      json
// @Produce     json
// @Param       todo_id path int true "Todo ID"
// @Param       request body api.UpdateTodoRequest true "Update todo request"
// @Success     200 {object} api.TodoResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /todos/{todo_id} [patch]
func UpdateTodoHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "could not validate credentials"})
		}

		todoID, err := strconv.Atoi(c.Param("todo_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid todo ID"})
		}

		var req api.UpdateTodoRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}

		todo, err := updateTodo(c.Request().Context(), db, user.ID, todoID, store.TodoUpdate{
			Title:       req.Title,
			Description: req.Description,
			State:       (*model.TodoState)(req.State),
		})
		if err != nil {
			if errors.Is(err, store.ErrTodoNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: "todo not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		}

		return c.JSON(http.StatusOK, todoResponse(todo))
	}
}

// @Summary     Delete a todo
// @Description 刪除當前使用者的待辦事項。非本人的 todo 一律 404
// @Tags        todos
// @Produce     json
// @Param       todo_id path int true "Todo ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /todos/{todo_id} [delete]
func DeleteTodoHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "could not validate credentials"})
		}

		todoID, err := strconv.Atoi(c.Param("todo_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid todo ID"})
		}

		if err := deleteTodo(c.Request().Context(), db, user.ID, todoID); err != nil {
			if errors.Is(err, store.ErrTodoNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: "todo not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		}

		return c.NoContent(http.StatusNoContent)
	}
}
