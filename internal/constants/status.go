package constants

type TaskStatus string

const (
	StatusBacklog  TaskStatus = "Backlog"
	StatusUpcoming TaskStatus = "Upcoming"
	StatusOngoing  TaskStatus = "Ongoing"
	StatusDone     TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusBacklog, StatusUpcoming, StatusOngoing, StatusDone:
		return true
	}
	return false
}
