package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"task-board.com/task-board/internal/constants"
)

type Task struct {
	ID              string               `gorm:"primaryKey;size:36" json:"id"`
	OwnerID         string               `gorm:"index;size:128;not null" json:"owner_id"`
	Title           string               `gorm:"not null" json:"title"`
	DurationMinutes int                  `gorm:"not null;default:0" json:"duration"`
	StartTime       *time.Time           `json:"start_time,omitempty"`
	Deadline        *time.Time           `json:"deadline,omitempty"`
	Status          constants.TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	Subtasks        SubtaskList          `gorm:"type:text" json:"subtasks"`
	Version         uint                 `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type Subtask struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	Date      *time.Time `json:"date,omitempty"`
}

// SubtaskList is stored as a single JSON column so that every subtask
// write replaces the whole ordered sequence.
type SubtaskList []Subtask

func (l SubtaskList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *SubtaskList) Scan(value interface{}) error {
	if value == nil {
		*l = SubtaskList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported subtask column type")
	}

	if len(data) == 0 {
		*l = SubtaskList{}
		return nil
	}
	return json.Unmarshal(data, l)
}
