// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"taskboard/internal/query"
	"taskboard/internal/service"
)

// ErrNotFound is wrapped by the remote failure returned for unknown ids.
var ErrNotFound = errors.New("not found")

// NotFound returns the failure a real server produces for an unknown id.
func NotFound() error {
	return service.Remote("Not Found", http.StatusNotFound, ErrNotFound)
}

// ServerError returns a 500 remote failure.
func ServerError() error {
	return service.Remote("Internal Server Error", http.StatusInternalServerError, nil)
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.Mutex
	users []service.User
	tasks []service.Task
	seq   int
	clock int64
	calls map[string]int

	// Error injection for testing
	ListUsersErr  error
	CreateUserErr error
	DeleteUserErr error
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// BeforeListTasks, when set, runs before ListTasks reads its data.
	// Tests use it to hold fetches and control resolution order.
	BeforeListTasks func(ctx context.Context, q query.Query)
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{calls: make(map[string]int)}
}

// AddUser adds a user.
func (f *FakeService) AddUser(id, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, service.User{ID: id, Email: email})
}

// AddTask adds a task for userID and returns it. CreatedAt increases with
// every added task.
func (f *FakeService) AddTask(userID, id, title string) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock++
	task := service.Task{ID: id, UserID: userID, Title: title, CreatedAt: f.clock}
	f.tasks = append(f.tasks, task)
	return task
}

// Users returns a copy of the stored users.
func (f *FakeService) Users() []service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.User(nil), f.users...)
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// Calls returns how many times the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of method invocations of any kind.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// ListUsers implements service.Service.
func (f *FakeService) ListUsers(ctx context.Context) ([]service.User, error) {
	f.record("ListUsers")
	if f.ListUsersErr != nil {
		return nil, f.ListUsersErr
	}
	return f.Users(), nil
}

// CreateUser implements service.Service.
func (f *FakeService) CreateUser(ctx context.Context, user service.User) (service.User, error) {
	f.record("CreateUser")
	if f.CreateUserErr != nil {
		return service.User{}, f.CreateUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, user)
	return user, nil
}

// DeleteUser implements service.Service.
func (f *FakeService) DeleteUser(ctx context.Context, id string) error {
	f.record("DeleteUser")
	if f.DeleteUserErr != nil {
		return f.DeleteUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return NotFound()
}

// ListTasks implements service.Service. An empty userId filter matches nothing.
func (f *FakeService) ListTasks(ctx context.Context, q query.Query) (service.ResultPage[service.Task], error) {
	f.record("ListTasks")
	if f.BeforeListTasks != nil {
		f.BeforeListTasks(ctx, q)
	}
	if f.ListTasksErr != nil {
		return service.ResultPage[service.Task]{}, f.ListTasksErr
	}
	q = q.Normalized()

	f.mu.Lock()
	var matched []service.Task
	for _, t := range f.tasks {
		if t.UserID != q.Filter.UserID {
			continue
		}
		if q.Filter.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(q.Filter.Title)) {
			continue
		}
		matched = append(matched, t)
	}
	f.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if q.Sort == query.Desc {
			return matched[i].CreatedAt > matched[j].CreatedAt
		}
		return matched[i].CreatedAt < matched[j].CreatedAt
	})

	pages := (len(matched) + q.PageSize - 1) / q.PageSize
	if pages < 1 {
		pages = 1
	}
	page := service.ResultPage[service.Task]{
		Data:  []service.Task{},
		Page:  q.Page,
		Pages: pages,
		Items: len(matched),
		First: 1,
		Last:  pages,
	}
	start := (q.Page - 1) * q.PageSize
	if start < len(matched) {
		end := min(start+q.PageSize, len(matched))
		page.Data = append(page.Data, matched[start:end]...)
	}
	if q.Page < pages {
		next := q.Page + 1
		page.Next = &next
	}
	if q.Page > 1 {
		prev := q.Page - 1
		page.Prev = &prev
	}
	return page, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.clock++
	created := service.Task{
		ID:        "t" + strconv.Itoa(f.seq),
		UserID:    task.UserID,
		Title:     task.Title,
		Done:      task.Done,
		CreatedAt: f.clock,
	}
	f.tasks = append(f.tasks, created)
	return created, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Done != nil {
			f.tasks[i].Done = *patch.Done
		}
		return f.tasks[i], nil
	}
	return service.Task{}, NotFound()
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return NotFound()
}
