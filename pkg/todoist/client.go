package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the production Todoist REST endpoint.
const DefaultBaseURL = "https://api.todoist.com/rest/v2"

const requestTimeout = 30 * time.Second

// Client wraps the Todoist REST API. Every method maps the HTTP response
// to the error taxonomy in errors.go and performs no implicit retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a client whose requests carry the given API token as a
// bearer credential.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, DefaultBaseURL)
}

// NewClientWithBaseURL is NewClient against a non-default endpoint; tests
// point it at a local server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = requestTimeout
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

func (c *Client) request(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cannot encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("cannot decode response from %s: %w", endpoint, err)
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 60 * time.Second
		if v, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = time.Duration(v) * time.Second
		}
		return &RateLimitError{RetryAfter: retryAfter}
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Message: "invalid API token"}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Endpoint: endpoint}
	default:
		msg, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Message: string(msg)}
	}
}

// ListTasks fetches all active tasks. Completed tasks are deliberately not
// fetched; syncing years of closed tasks back down is never wanted.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.request(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches one task by ID.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	var t Task
	if err := c.request(ctx, http.MethodGet, "/tasks/"+taskID, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask creates a task and returns it with its assigned ID.
func (c *Client) CreateTask(ctx context.Context, t Task) (*Task, error) {
	var created Task
	if err := c.request(ctx, http.MethodPost, "/tasks", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask overwrites the mutable fields of an existing task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, t Task) (*Task, error) {
	var updated Task
	if err := c.request(ctx, http.MethodPost, "/tasks/"+taskID, t, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.request(ctx, http.MethodDelete, "/tasks/"+taskID, nil, nil)
}

// CloseTask marks a task completed.
func (c *Client) CloseTask(ctx context.Context, taskID string) error {
	return c.request(ctx, http.MethodPost, "/tasks/"+taskID+"/close", nil, nil)
}

// ReopenTask marks a completed task active again.
func (c *Client) ReopenTask(ctx context.Context, taskID string) error {
	return c.request(ctx, http.MethodPost, "/tasks/"+taskID+"/reopen", nil, nil)
}

// ListLabels fetches all labels.
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	var labels []Label
	if err := c.request(ctx, http.MethodGet, "/labels", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// CreateLabel creates a label by name.
func (c *Client) CreateLabel(ctx context.Context, name string) (*Label, error) {
	var label Label
	body := map[string]string{"name": name}
	if err := c.request(ctx, http.MethodPost, "/labels", body, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// ListProjects fetches all projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.request(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project by name.
func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	var project Project
	body := map[string]string{"name": name}
	if err := c.request(ctx, http.MethodPost, "/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}
