package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/shtxd/clip/internal/model"
)

// TaskList keeps download task snapshots in submission order and renders them as TaskRows.
// It is only touched from the UI goroutine.
type TaskList struct {
	localization *Localization
	actions      TaskActions

	tasks []model.DownloadTask
	index map[string]int
	list  *widget.List
}

// NewTaskList creates an empty task list
func NewTaskList(localization *Localization, actions TaskActions) *TaskList {
	tl := &TaskList{
		localization: localization,
		actions:      actions,
		index:        make(map[string]int),
	}
	tl.list = widget.NewList(
		func() int { return len(tl.tasks) },
		func() fyne.CanvasObject {
			row := NewTaskRow(tl.localization)
			row.SetCallbacks(tl.actions)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(tl.tasks) {
				return
			}
			if row, ok := obj.(*TaskRow); ok {
				row.SetCallbacks(tl.actions)
				row.UpdateTask(tl.tasks[id])
			}
		},
	)
	return tl
}

// Widget returns the list widget
func (tl *TaskList) Widget() fyne.CanvasObject {
	return tl.list
}

// Upsert adds or replaces a task, returning the previous snapshot when there was one
func (tl *TaskList) Upsert(task model.DownloadTask) (model.DownloadTask, bool) {
	if i, ok := tl.index[task.ID]; ok {
		prev := tl.tasks[i]
		tl.tasks[i] = task
		tl.list.RefreshItem(i)
		return prev, true
	}

	tl.index[task.ID] = len(tl.tasks)
	tl.tasks = append(tl.tasks, task)
	tl.list.Refresh()
	return model.DownloadTask{}, false
}

// Remove drops a task from the list
func (tl *TaskList) Remove(id string) {
	i, ok := tl.index[id]
	if !ok {
		return
	}
	tl.tasks = append(tl.tasks[:i], tl.tasks[i+1:]...)
	tl.reindex()
	tl.list.Refresh()
}

// ClearFinished drops completed, stopped and failed tasks, returning their IDs
func (tl *TaskList) ClearFinished() []string {
	var removed []string
	kept := tl.tasks[:0]
	for _, task := range tl.tasks {
		if task.Status.IsFinished() {
			removed = append(removed, task.ID)
			continue
		}
		kept = append(kept, task)
	}
	tl.tasks = kept
	tl.reindex()
	tl.list.Refresh()
	return removed
}

func (tl *TaskList) reindex() {
	tl.index = make(map[string]int, len(tl.tasks))
	for i, task := range tl.tasks {
		tl.index[task.ID] = i
	}
}

// Len returns the number of tasks shown
func (tl *TaskList) Len() int {
	return len(tl.tasks)
}

// Get returns the snapshot shown for id
func (tl *TaskList) Get(id string) (model.DownloadTask, bool) {
	i, ok := tl.index[id]
	if !ok {
		return model.DownloadTask{}, false
	}
	return tl.tasks[i], true
}

// Summary reports how many tasks are unfinished and their average progress (0..1).
// Progress is 0 when nothing is running.
func (tl *TaskList) Summary() (active int, progress float64) {
	var total float64
	for _, task := range tl.tasks {
		if task.Status.IsFinished() {
			continue
		}
		active++
		total += task.Percent
	}
	if active == 0 {
		return 0, 0
	}
	return active, total / float64(active) / 100
}
