// Package jsonserver implements the service.Service interface against the
// users/tasks REST mock server.
package jsonserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/query"
	"taskboard/internal/service"
)

const (
	usersPath = "/users"
	tasksPath = "/tasks"
)

// Client implements service.Service over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

// New creates a client for cfg.BaseURL. When cfg.Token is set every request
// carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) *Client {
	httpClient := &http.Client{}
	if cfg.Token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	}
	httpClient.Timeout = cfg.Timeout
	return NewWithHTTPClient(cfg.BaseURL, httpClient, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logging.OrNop(log).Named("jsonserver"),
	}
}

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]service.User, error) {
	var users []service.User
	if _, err := c.do(ctx, http.MethodGet, usersPath, nil, &users); err != nil {
		return nil, prefixError("Failed to fetch users", err)
	}
	return users, nil
}

// CreateUser posts a user and returns the echoed record.
func (c *Client) CreateUser(ctx context.Context, user service.User) (service.User, error) {
	var created service.User
	if _, err := c.do(ctx, http.MethodPost, usersPath, user, &created); err != nil {
		return service.User{}, prefixError("Failed to create user", err)
	}
	return created, nil
}

// DeleteUser deletes a user by id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, usersPath+"/"+url.PathEscape(id), nil, nil); err != nil {
		return prefixError("Failed to delete user", err)
	}
	return nil
}

// ListTasks fetches one page of tasks.
func (c *Client) ListTasks(ctx context.Context, q query.Query) (service.ResultPage[service.Task], error) {
	q = q.Normalized()

	resp, err := c.do(ctx, http.MethodGet, tasksPath+"?"+q.Encode(), nil, nil)
	if err != nil {
		return service.ResultPage[service.Task]{}, prefixError("Failed to fetch tasks", err)
	}

	page, err := decodePage[service.Task](resp.body, resp.header, q.Page, q.PageSize)
	if err != nil {
		return service.ResultPage[service.Task]{}, service.Network("Failed to fetch tasks: invalid response body", err)
	}
	return page, nil
}

// CreateTask posts a task and returns the echoed record.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	var created service.Task
	if _, err := c.do(ctx, http.MethodPost, tasksPath, task, &created); err != nil {
		return service.Task{}, prefixError("Failed to create task", err)
	}
	return created, nil
}

// UpdateTask patches a task.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	var updated service.Task
	if _, err := c.do(ctx, http.MethodPatch, tasksPath+"/"+url.PathEscape(id), patch, &updated); err != nil {
		return service.Task{}, prefixError("Failed to update task", err)
	}
	return updated, nil
}

// DeleteTask deletes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, tasksPath+"/"+url.PathEscape(id), nil, nil); err != nil {
		return prefixError("Failed to delete task", err)
	}
	return nil
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// do performs one request. A non-nil in is sent as JSON; a non-nil out is
// filled from a non-empty response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (*response, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, service.Network("invalid request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, service.Network("request did not complete", err)
	}
	defer res.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, wrapError(res, err)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, service.Network("read response body", err)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, service.Network("invalid response body", err)
		}
	}

	return &response{status: res.StatusCode, header: res.Header, body: data}, nil
}

// wrapError turns a non-2xx response into a remote failure carrying the
// status text.
func wrapError(res *http.Response, err error) error {
	status := res.StatusCode
	text := http.StatusText(status)
	if res.Status != "" {
		text = strings.TrimSpace(strings.TrimPrefix(res.Status, fmt.Sprint(status)))
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		text = text + " (" + apiErr.Message + ")"
	}
	if text == "" {
		text = fmt.Sprintf("HTTP %d", status)
	}
	return service.Remote(text, status, err)
}

// prefixError prepends context to the message of a service error while
// keeping its kind.
func prefixError(prefix string, err error) error {
	var sErr *service.Error
	if errors.As(err, &sErr) {
		wrapped := *sErr
		wrapped.Message = prefix + ": " + sErr.Message
		return &wrapped
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
