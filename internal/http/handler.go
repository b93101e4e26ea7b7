package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"task-board.com/task-board/internal/auth"
	"task-board.com/task-board/internal/constants"
	dto "task-board.com/task-board/internal/data_models"
	apperrors "task-board.com/task-board/internal/errors"
	"task-board.com/task-board/internal/http/validators"
	"task-board.com/task-board/internal/live"
	model "task-board.com/task-board/internal/models"
	"task-board.com/task-board/internal/services"
)

type Handler struct {
	taskService *services.TaskService
	hub         *live.Hub

	// planDelay is a deliberate UX pause before the plan response,
	// outside the synchronous optimizer itself.
	planDelay time.Duration
}

func NewHandler(taskService *services.TaskService, hub *live.Hub, planDelay time.Duration) *Handler {
	return &Handler{
		taskService: taskService,
		hub:         hub,
		planDelay:   planDelay,
	}
}

func ownerID(c echo.Context) string {
	id, _ := auth.OwnerFromContext(c.Request().Context())
	return id
}

func httpError(err error) error {
	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(appErr.StatusCode, appErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "store unavailable")
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.AddTask(c.Request().Context(), ownerID(c), req.Title, req.InitialSubtask)
	if err != nil {
		return httpError(err)
	}
	if task == nil {
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context(), ownerID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) GetTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrTaskIDRequired.Message)
	}

	task, err := h.taskService.GetTask(c.Request().Context(), ownerID(c), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	update := model.TaskUpdate{Title: req.Title}
	if req.Status != nil {
		status := constants.TaskStatus(*req.Status)
		update.Status = &status
	}
	if req.StartTime != nil {
		update.StartTime = req.StartTime
		update.SetStartTime = true
	}
	if req.Deadline != nil {
		update.Deadline = req.Deadline
		update.SetDeadline = true
	}

	if err := h.taskService.UpdateTask(c.Request().Context(), ownerID(c), c.Param("id"), update); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MoveTask(c echo.Context) error {
	var req dto.MoveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateMoveTaskRequest(&req); err != nil {
		return err
	}

	err := h.taskService.MoveTask(c.Request().Context(), ownerID(c), c.Param("id"), constants.TaskStatus(req.Status))
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(c.Request().Context(), ownerID(c), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddSubtask(c echo.Context) error {
	var req dto.AddSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateAddSubtaskRequest(&req); err != nil {
		return err
	}

	err := h.taskService.AddSubtask(c.Request().Context(), ownerID(c), c.Param("id"), req.Title, req.Date)
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateSubtask(c echo.Context) error {
	var req dto.UpdateSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	update := model.SubtaskUpdate{
		Title:     req.Title,
		Completed: req.Completed,
	}
	if req.Date != nil {
		update.Date = req.Date
		update.SetDate = true
	}

	err := h.taskService.UpdateSubtask(c.Request().Context(), ownerID(c), c.Param("id"), c.Param("subtaskId"), update)
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ToggleSubtask(c echo.Context) error {
	err := h.taskService.ToggleSubtask(c.Request().Context(), ownerID(c), c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteSubtask(c echo.Context) error {
	err := h.taskService.DeleteSubtask(c.Request().Context(), ownerID(c), c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReorderSubtasks(c echo.Context) error {
	var req dto.ReorderSubtasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	err := h.taskService.ReorderSubtasks(c.Request().Context(), ownerID(c), c.Param("id"), model.SubtaskList(req.Subtasks))
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Plan(c echo.Context) error {
	if h.planDelay > 0 {
		time.Sleep(h.planDelay)
	}

	outcomes, err := h.taskService.Plan(c.Request().Context(), ownerID(c), time.Now())
	if err != nil {
		return httpError(err)
	}

	resp := dto.PlanResponse{Outcomes: make([]dto.PlanOutcome, 0, len(outcomes))}
	for _, o := range outcomes {
		out := dto.PlanOutcome{
			TaskID: o.TaskID,
			Status: string(o.Status),
		}
		if o.Err != nil {
			out.Error = o.Err.Error()
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	return c.JSON(http.StatusOK, resp)
}

// StreamTasks pushes the owner's full task list as a server-sent
// event whenever it changes, starting with the current snapshot. Each
// event replaces the previous one wholesale.
func (h *Handler) StreamTasks(c echo.Context) error {
	owner := ownerID(c)
	if owner == "" {
		return c.NoContent(http.StatusNoContent)
	}

	ctx := c.Request().Context()
	snapshots, cancel, err := h.hub.Subscribe(ctx, owner)
	if err != nil {
		return httpError(err)
	}
	defer cancel()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	for {
		select {
		case <-ctx.Done():
			return nil
		case tasks, ok := <-snapshots:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(tasks)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
