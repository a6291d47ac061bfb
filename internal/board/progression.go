package board

import (
	"sort"

	"github.com/tosifAN/sunrise-2024/internal/models"
)

// NextEligible picks the task to move from To-Do to In Progress after
// completed has been marked Completed. The first To-Do task in the same group
// wins; otherwise the first To-Do task in the following group. It does not
// wait for in-progress tasks of the current group to finish.
func NextEligible(tasks []models.Task, completed models.Task) (models.Task, bool) {
	if t, ok := firstToDo(tasks, completed.Group); ok {
		return t, true
	}
	return firstToDo(tasks, completed.Group+1)
}

func firstToDo(tasks []models.Task, group int) (models.Task, bool) {
	for _, t := range tasks {
		if t.Group == group && t.Stage == models.StageToDo {
			return t, true
		}
	}
	return models.Task{}, false
}

// IsEntryBlocked reports whether tasks in group cannot be finished yet
// because an earlier group still has unfinished work. Group 1 is never
// blocked.
func IsEntryBlocked(tasks []models.Task, group int) bool {
	if group <= 1 {
		return false
	}
	for _, t := range tasks {
		if t.Group < group && t.Stage != models.StageCompleted {
			return true
		}
	}
	return false
}

// CanComplete reports whether the Done action is available for task.
func CanComplete(tasks []models.Task, task models.Task) bool {
	return task.Stage == models.StageInProgress && !IsEntryBlocked(tasks, task.Group)
}

// Columns lays tasks out as one column per stage, in board order. Within a
// column tasks are grouped by ascending group number and keep store order.
func Columns(tasks []models.Task) []models.BoardColumn {
	cols := make([]models.BoardColumn, 0, len(models.Stages))
	for _, stage := range models.Stages {
		byGroup := map[int][]models.Task{}
		var groups []int
		count := 0
		for _, t := range tasks {
			if t.Stage != stage {
				continue
			}
			if _, ok := byGroup[t.Group]; !ok {
				groups = append(groups, t.Group)
			}
			byGroup[t.Group] = append(byGroup[t.Group], t)
			count++
		}
		sort.Ints(groups)

		col := models.BoardColumn{Stage: stage, Count: count, Groups: []models.BoardGroup{}}
		for _, g := range groups {
			col.Groups = append(col.Groups, models.BoardGroup{
				Group:   g,
				Blocked: IsEntryBlocked(tasks, g),
				Tasks:   byGroup[g],
			})
		}
		cols = append(cols, col)
	}
	return cols
}
