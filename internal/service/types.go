// Package service defines the backend-agnostic interface for user and task operations.
package service

// User is a person owning a task list.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Task is a single todo item owned by a user.
type Task struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"createdAt"`
}

// NewTask is the payload for creating a task. The server assigns ID and CreatedAt.
type NewTask struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Done   bool   `json:"done"`
}

// TaskPatch carries the fields of a partial task update. Nil fields are not sent.
type TaskPatch struct {
	Title *string `json:"title,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}

// ResultPage is a point-in-time snapshot of one page of a list query.
// A refresh produces a new ResultPage; existing values are never modified.
type ResultPage[T any] struct {
	Data  []T  `json:"data"`
	Page  int  `json:"page"`
	Pages int  `json:"pages"`
	Items int  `json:"items"`
	First int  `json:"first"`
	Last  int  `json:"last"`
	Next  *int `json:"next"`
	Prev  *int `json:"prev"`
}

// HasNext reports whether a following page exists.
func (p ResultPage[T]) HasNext() bool { return p.Next != nil }

// HasPrev reports whether a preceding page exists.
func (p ResultPage[T]) HasPrev() bool { return p.Prev != nil }
