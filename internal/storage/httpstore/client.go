// Package httpstore is a remote store client for the noor document service
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/storage"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Init checks the service is reachable
func (c *Client) Init() error {
	return c.Load()
}

// Load checks the service is reachable
func (c *Client) Load() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("document service health check returned %s", resp.Status)
	}
	return nil
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) userPath(id string) string {
	return "/api/users/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s %s returned %s: %s", resp.Request.Method, resp.Request.URL.Path, resp.Status, strings.TrimSpace(string(msg)))
}

func (c *Client) SaveUser(ctx context.Context, u models.UserRecord) error {
	u.Normalize()
	return c.put(ctx, u.Profile.ID, u)
}

// SaveDocument sends a partial document; the service merges it
func (c *Client) SaveDocument(ctx context.Context, id string, doc map[string]any) error {
	return c.put(ctx, id, doc)
}

func (c *Client) put(ctx context.Context, id string, body any) error {
	resp, err := c.do(ctx, http.MethodPut, c.userPath(id), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (c *Client) GetAllUsers(ctx context.Context) (map[string]models.UserRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var users map[string]models.UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for id, u := range users {
		u.Normalize()
		users[id] = u
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (models.UserRecord, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.userPath(id), nil)
	if err != nil {
		return models.UserRecord{}, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return models.UserRecord{}, false, nil
	default:
		return models.UserRecord{}, false, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.UserRecord{}, false, err
	}
	u, err := storage.DecodeUser(data)
	if err != nil {
		return models.UserRecord{}, false, err
	}
	return u, true, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.userPath(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}
