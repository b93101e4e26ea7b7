package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-board.com/task-board/internal/constants"
	dto "task-board.com/task-board/internal/data_models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}

func ValidateMoveTaskRequest(r *dto.MoveTaskRequest) error {
	if !constants.TaskStatus(r.Status).Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task status")
	}
	return nil
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	if r.Title != nil && *r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
	}
	if r.Status != nil && !constants.TaskStatus(*r.Status).Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task status")
	}
	return nil
}

func ValidateAddSubtaskRequest(r *dto.AddSubtaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}
