// Package hdfs holds the small amount of HDFS awareness the script store
// needs: URL splitting, filebrowser link rewriting and a WebHDFS existence
// probe.
package hdfs

import (
	"net/url"
	gopath "path"
	"strings"
)

// FileSystem is the filesystem handle the workflow-output inference runs
// against. Errors from Exists are treated by callers as "does not exist".
type FileSystem interface {
	Exists(path string) (bool, error)
}

// URLSplit splits an HDFS URL (hdfs://namenode:port/foo) or a bare path
// (/foo, foo) into scheme, netloc and path. Non-HDFS schemes fall back to
// standard URL parsing.
func URLSplit(rawurl string) (scheme, netloc, path string) {
	i := strings.Index(rawurl, "://")
	if i < 0 {
		// No scheme. Treat the entire argument as an HDFS path.
		return "hdfs", "", rawurl
	}

	scheme = rawurl[:i]
	if scheme != "hdfs" && scheme != "viewfs" {
		u, err := url.Parse(rawurl)
		if err != nil {
			return scheme, "", ""
		}
		return u.Scheme, u.Host, u.Path
	}

	rest := rawurl[i+3:]
	j := strings.Index(rest, "/")
	if j < 0 {
		// Everything is netloc. Assume path is root.
		return scheme, rest, "/"
	}
	return scheme, rest[:j], gopath.Clean(rest[j:])
}

// Link rewrites a filesystem URL into a filebrowser UI link. Empty input and
// URLs with no path component pass through unchanged. Relative paths resolve
// against the browsing user's home directory.
func Link(rawurl string) string {
	if rawurl == "" {
		return rawurl
	}

	_, _, p := URLSplit(rawurl)
	if p == "" {
		return rawurl
	}
	if strings.HasPrefix(p, "/") {
		return "/filebrowser/view" + p
	}
	return "/filebrowser/home_relative_view/" + p
}
