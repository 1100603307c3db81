package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Tiliavir/tempo/internal/model"
)

type mockHandler func(c *Client, path string, body []byte) (json.RawMessage, error)

// mockRoute matches on exact method plus path prefix. Routes are checked
// in order, so narrower prefixes must come first.
type mockRoute struct {
	method  string
	prefix  string
	handler mockHandler
}

var mockRoutes = []mockRoute{
	{http.MethodGet, "/projects", (*Client).mockGetProjects},
	{http.MethodPut, "/projects", (*Client).mockPutProjects},
	{http.MethodPost, "/time-logs", (*Client).mockCreateTimeLog},
	{http.MethodGet, "/time-logs", (*Client).mockListTimeLogs},
	{http.MethodPut, "/time-logs/", (*Client).mockAck},
	{http.MethodDelete, "/time-logs/", (*Client).mockAck},
}

func (c *Client) dispatchMock(method, path string, body []byte) (json.RawMessage, error) {
	for _, r := range mockRoutes {
		if r.method == method && strings.HasPrefix(path, r.prefix) {
			return r.handler(c, path, body)
		}
	}
	return nil, &UnroutedMockError{Method: method, Path: path}
}

// mockGetProjects serves the local catalog document verbatim.
func (c *Client) mockGetProjects(string, []byte) (json.RawMessage, error) {
	cat, err := c.store.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return json.Marshal(cat)
}

// mockPutProjects writes the request body through to the catalog
// document. This is the one mock route with a real side effect, so the
// refresh flow works end to end without a server.
func (c *Client) mockPutProjects(_ string, body []byte) (json.RawMessage, error) {
	var cat model.Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, fmt.Errorf("decoding catalog body: %w", err)
	}
	if err := c.store.SaveCatalog(cat); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"status":"success"}`), nil
}

func (c *Client) mockCreateTimeLog(string, []byte) (json.RawMessage, error) {
	resp := struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}{"success", fmt.Sprintf("log-%d", time.Now().Unix())}
	return json.Marshal(resp)
}

// mockListTimeLogs returns two fixed illustrative entries stamped with
// the requested date.
func (c *Client) mockListTimeLogs(path string, _ []byte) (json.RawMessage, error) {
	date := "1970-01-01"
	if u, err := url.Parse(path); err == nil && u.Query().Get("date") != "" {
		date = u.Query().Get("date")
	}
	resp := struct {
		Entries      []model.TimeLog `json:"entries"`
		TotalEntries int             `json:"total_entries"`
	}{
		Entries: []model.TimeLog{
			{ID: "log-1001", Date: date, Hours: 2, Minutes: 30, ProjectUUID: "mock-project-1", ProjectName: "Internal", Note: "Sprint planning"},
			{ID: "log-1002", Date: date, Hours: 1, Minutes: 45, ProjectUUID: "mock-project-2", ProjectName: "Client Alpha", Note: "Code review"},
		},
		TotalEntries: 2,
	}
	return json.Marshal(resp)
}

// mockAck acknowledges update and delete verbs without any side effect.
func (c *Client) mockAck(string, []byte) (json.RawMessage, error) {
	return json.RawMessage(`{"status":"success"}`), nil
}
