package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-board.com/task-board/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.OwnerScope())
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.POST("/tasks", h.CreateTask)
	e.GET("/tasks", h.ListTasks)
	e.GET("/tasks/stream", h.StreamTasks)
	e.GET("/tasks/:id", h.GetTask)
	e.PATCH("/tasks/:id", h.UpdateTask)
	e.POST("/tasks/:id/move", h.MoveTask)
	e.DELETE("/tasks/:id", h.DeleteTask)

	e.POST("/tasks/:id/subtasks", h.AddSubtask)
	e.PUT("/tasks/:id/subtasks", h.ReorderSubtasks)
	e.PATCH("/tasks/:id/subtasks/:subtaskId", h.UpdateSubtask)
	e.POST("/tasks/:id/subtasks/:subtaskId/toggle", h.ToggleSubtask)
	e.DELETE("/tasks/:id/subtasks/:subtaskId", h.DeleteSubtask)

	e.POST("/plan", h.Plan)
}
