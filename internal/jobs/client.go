// Package jobs is a thin read client for the workflow engine that runs
// submitted scripts. The engine itself is an external collaborator; this
// module only ever asks it for a workflow's configuration.
package jobs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Workflow is the slice of a workflow run the script store cares about.
type Workflow struct {
	ID       string            `json:"id"`
	ConfDict map[string]string `json:"conf"`
}

// Provider fetches workflow info by id.
type Provider interface {
	Workflow(id string) (*Workflow, error)
}

// Client talks to the workflow engine's REST API.
type Client struct {
	BaseURL    string // e.g. http://oozie:11000/oozie
	HTTPClient *http.Client
}

// NewClient returns a workflow engine client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Workflow fetches a single workflow's info record.
func (c *Client) Workflow(id string) (*Workflow, error) {
	reqURL := fmt.Sprintf("%s/v1/job/%s?show=info", c.BaseURL, url.PathEscape(id))

	resp, err := c.HTTPClient.Get(reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jobs: unexpected status %d for workflow %s", resp.StatusCode, id)
	}

	var wf Workflow
	if err := json.NewDecoder(resp.Body).Decode(&wf); err != nil {
		return nil, fmt.Errorf("jobs: decoding workflow %s: %w", id, err)
	}
	if wf.ConfDict == nil {
		wf.ConfDict = map[string]string{}
	}
	return &wf, nil
}
