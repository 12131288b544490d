package hdfs

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client checks path existence over the WebHDFS REST API. It deliberately
// implements only what the script store consumes.
type Client struct {
	BaseURL    string // e.g. http://namenode:50070/webhdfs/v1
	User       string // user.name forwarded to WebHDFS, optional
	HTTPClient *http.Client
}

// NewClient returns a WebHDFS client rooted at baseURL.
func NewClient(baseURL, user string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		User:       user,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Exists reports whether path exists, via GETFILESTATUS. A 404 is a clean
// "no"; anything other than 200/404 is an error.
func (c *Client) Exists(path string) (bool, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	reqURL := fmt.Sprintf("%s%s?op=GETFILESTATUS", c.BaseURL, path)
	if c.User != "" {
		reqURL += "&user.name=" + c.User
	}

	resp, err := c.HTTPClient.Get(reqURL)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("webhdfs: unexpected status %d for %s", resp.StatusCode, path)
	}
}
