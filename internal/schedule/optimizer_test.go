package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-board.com/task-board/internal/constants"
	model "task-board.com/task-board/internal/models"
)

var testNow = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

func at(t time.Time) *time.Time {
	return &t
}

func makeTask(id string, status constants.TaskStatus, start *time.Time, durationMinutes int) model.Task {
	return model.Task{
		ID:              id,
		OwnerID:         "owner-1",
		Title:           "task " + id,
		Status:          status,
		StartTime:       start,
		DurationMinutes: durationMinutes,
	}
}

func TestNextSlot(t *testing.T) {
	assert.Equal(t,
		time.Date(2026, time.March, 14, 11, 0, 0, 0, time.UTC),
		NextSlot(testNow))

	// Exactly on the hour still rounds strictly forward.
	onTheHour := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2026, time.March, 14, 11, 0, 0, 0, time.UTC),
		NextSlot(onTheHour))
}

func TestDemotionClearsMissedSlot(t *testing.T) {
	// Occupy the candidate slot so the demoted task stays in Backlog.
	blocker := makeTask("blocker", constants.StatusUpcoming, at(NextSlot(testNow)), 30)
	overdue := makeTask("t1", constants.StatusOngoing, at(testNow.Add(-2*time.Hour)), 60)

	out := Optimize([]model.Task{blocker, overdue}, testNow)

	require.Len(t, out, 2)
	assert.Equal(t, constants.StatusBacklog, out[1].Status)
	assert.Nil(t, out[1].StartTime)
}

func TestDemotionRespectsDone(t *testing.T) {
	done := makeTask("d1", constants.StatusDone, at(testNow.Add(-2*time.Hour)), 60)

	out := Optimize([]model.Task{done}, testNow)

	assert.Equal(t, constants.StatusDone, out[0].Status)
	require.NotNil(t, out[0].StartTime)
	assert.Equal(t, testNow.Add(-2*time.Hour), *out[0].StartTime)
}

func TestDemotionIgnoresUnscheduledTasks(t *testing.T) {
	for _, status := range []constants.TaskStatus{
		constants.StatusBacklog,
		constants.StatusUpcoming,
		constants.StatusOngoing,
	} {
		blocker := makeTask("blocker", constants.StatusUpcoming, at(NextSlot(testNow)), 30)
		unscheduled := makeTask("u1", status, nil, 45)

		out := Optimize([]model.Task{blocker, unscheduled}, testNow)

		if status == constants.StatusBacklog {
			// Backlog without a start time is a candidate for pass
			// two, which the blocker suppresses here.
			assert.Equal(t, constants.StatusBacklog, out[1].Status)
		} else {
			assert.Equal(t, status, out[1].Status)
		}
		assert.Nil(t, out[1].StartTime)
	}
}

func TestDemotionIdempotent(t *testing.T) {
	blocker := makeTask("blocker", constants.StatusUpcoming, at(NextSlot(testNow)), 30)
	overdue := makeTask("t1", constants.StatusOngoing, at(testNow.Add(-3*time.Hour)), 60)

	once := Optimize([]model.Task{blocker, overdue}, testNow)
	twice := Optimize(once, testNow)

	assert.Equal(t, once, twice)
}

func TestPromotionSelectsFirstBacklogByPosition(t *testing.T) {
	b1 := makeTask("b1", constants.StatusBacklog, nil, 0)
	b2 := makeTask("b2", constants.StatusBacklog, nil, 0)

	out := Optimize([]model.Task{b1, b2}, testNow)

	assert.Equal(t, constants.StatusUpcoming, out[0].Status)
	require.NotNil(t, out[0].StartTime)
	assert.Equal(t, NextSlot(testNow), *out[0].StartTime)

	assert.Equal(t, constants.StatusBacklog, out[1].Status)
	assert.Nil(t, out[1].StartTime)
}

func TestAtMostOnePromotionPerCall(t *testing.T) {
	var tasks []model.Task
	for _, id := range []string{"b1", "b2", "b3", "b4", "b5"} {
		tasks = append(tasks, makeTask(id, constants.StatusBacklog, nil, 0))
	}

	out := Optimize(tasks, testNow)

	promoted := 0
	for _, task := range out {
		if task.Status == constants.StatusUpcoming {
			promoted++
		}
	}
	assert.Equal(t, 1, promoted)

	// The promoted task now occupies the candidate slot, so a second
	// run on the result promotes nobody else.
	again := Optimize(out, testNow)
	assert.Equal(t, out, again)
}

func TestOccupiedSlotBlocksPromotion(t *testing.T) {
	slot := NextSlot(testNow)
	occupant := makeTask("o1", constants.StatusUpcoming, at(slot), 30)
	backlog := makeTask("b1", constants.StatusBacklog, nil, 0)

	out := Optimize([]model.Task{occupant, backlog}, testNow)

	assert.Equal(t, constants.StatusBacklog, out[1].Status)
	assert.Nil(t, out[1].StartTime)
}

func TestStartTimeJustOutsideWindowDoesNotBlock(t *testing.T) {
	slot := NextSlot(testNow)
	nearby := makeTask("o1", constants.StatusUpcoming, at(slot.Add(61*time.Second)), 30)
	backlog := makeTask("b1", constants.StatusBacklog, nil, 0)

	out := Optimize([]model.Task{nearby, backlog}, testNow)

	assert.Equal(t, constants.StatusUpcoming, out[1].Status)
	require.NotNil(t, out[1].StartTime)
	assert.Equal(t, slot, *out[1].StartTime)
}

func TestNoBacklogNoPromotion(t *testing.T) {
	tasks := []model.Task{
		makeTask("u1", constants.StatusUpcoming, nil, 0),
		makeTask("d1", constants.StatusDone, nil, 0),
	}

	out := Optimize(tasks, testNow)
	assert.Equal(t, tasks, out)
}

func TestOverdueTaskIsReslottedInOneCall(t *testing.T) {
	// Pass one demotes the missed task, pass two finds it as the only
	// Backlog candidate and hands it the next free slot.
	overdue := makeTask("t1", constants.StatusOngoing, at(testNow.Add(-2*time.Hour)), 60)

	out := Optimize([]model.Task{overdue}, testNow)

	assert.Equal(t, constants.StatusUpcoming, out[0].Status)
	require.NotNil(t, out[0].StartTime)
	assert.Equal(t, NextSlot(testNow), *out[0].StartTime)
}

func TestInputNotMutated(t *testing.T) {
	start := testNow.Add(-2 * time.Hour)
	tasks := []model.Task{
		makeTask("t1", constants.StatusOngoing, at(start), 60),
		makeTask("b1", constants.StatusBacklog, nil, 0),
	}

	_ = Optimize(tasks, testNow)

	assert.Equal(t, constants.StatusOngoing, tasks[0].Status)
	require.NotNil(t, tasks[0].StartTime)
	assert.Equal(t, start, *tasks[0].StartTime)
	assert.Equal(t, constants.StatusBacklog, tasks[1].Status)
}

func TestNegativeDurationClampedToZero(t *testing.T) {
	// A negative duration must not make a future slot look elapsed.
	future := makeTask("f1", constants.StatusUpcoming, at(testNow.Add(30*time.Minute)), -120)
	// With the clamp, end time equals start time, which has passed.
	past := makeTask("p1", constants.StatusOngoing, at(testNow.Add(-10*time.Minute)), -120)
	blocker := makeTask("blocker", constants.StatusUpcoming, at(NextSlot(testNow)), 30)

	out := Optimize([]model.Task{future, past, blocker}, testNow)

	assert.Equal(t, constants.StatusUpcoming, out[0].Status)
	assert.Equal(t, constants.StatusBacklog, out[1].Status)
	assert.Nil(t, out[1].StartTime)
}
