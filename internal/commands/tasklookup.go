package commands

import (
	"context"
	"fmt"

	"taskboard/internal/query"
	"taskboard/internal/service"
	"taskboard/internal/view"
)

// resolveTaskID turns a reference into a task id. A position is counted
// across pages of q (its user filter, search and sort) and looked up on the
// page that holds it.
func resolveTaskID(ctx context.Context, svc view.TasksLister, q query.Query, ref TaskRef) (string, error) {
	if ref.ID != "" {
		return ref.ID, nil
	}
	task, err := findTaskByNumber(ctx, svc, q, ref.Num)
	if err != nil {
		return "", err
	}
	return task.ID, nil
}

// findTaskByNumber finds a task by its 1-based number in the listing.
func findTaskByNumber(ctx context.Context, svc view.TasksLister, q query.Query, num int) (service.Task, error) {
	q = q.Normalized()
	q.Page = (num-1)/q.PageSize + 1
	indexInPage := (num - 1) % q.PageSize

	page, err := svc.ListTasks(ctx, q)
	if err != nil {
		return service.Task{}, err
	}

	if indexInPage >= len(page.Data) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return page.Data[indexInPage], nil
}

// taskAt returns the task at a 1-based position within a loaded page.
func taskAt(q query.Query, page service.ResultPage[service.Task], num int) (service.Task, bool) {
	start := (page.Page-1)*q.PageSize + 1
	i := num - start
	if i < 0 || i >= len(page.Data) {
		return service.Task{}, false
	}
	return page.Data[i], true
}
