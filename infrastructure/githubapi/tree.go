package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/canstralian/CodeQualityAI/domain"
	"github.com/canstralian/CodeQualityAI/internal/fileutil"
)

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int    `json:"size"`
		URL  string `json:"url"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// ListFiles walks the repository and returns up to maxFiles blobs whose
// extension is in extensions (an empty slice means no filter). It uses a
// single recursive tree call and falls back to a directory-by-directory
// crawl of the contents API when the tree call fails.
func (c *Client) ListFiles(ctx context.Context, maxFiles int, extensions []string) ([]domain.FileEntry, error) {
	if maxFiles <= 0 {
		return []domain.FileEntry{}, nil
	}

	info, err := c.Info(ctx)
	if err != nil {
		return nil, err
	}
	branch := info.DefaultBranch

	endpoint := fmt.Sprintf("/repos/%s/%s/git/trees/%s", c.owner, c.repo, branch)
	params := url.Values{}
	params.Set("recursive", "1")

	raw, err := c.request(ctx, endpoint, params)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "Git Repository is empty") {
			logger.Warnf("Repository %s/%s is empty", c.owner, c.repo)
			return nil, &APIError{
				Kind:       KindEmptyRepository,
				StatusCode: apiErr.StatusCode,
				Endpoint:   endpoint,
				Message:    fmt.Sprintf("repository %s/%s appears to be empty", c.owner, c.repo),
			}
		}

		logger.Warnf("Tree API failed for %s/%s, falling back to contents crawl: %v", c.owner, c.repo, err)
		return c.crawlFiles(ctx, branch, maxFiles, extensions)
	}

	var tree treeResponse
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse tree response: %w", err)
	}

	if tree.Truncated {
		logger.Warnf("Tree listing for %s/%s was truncated by the API", c.owner, c.repo)
	}

	files := make([]domain.FileEntry, 0, maxFiles)
	for _, entry := range tree.Tree {
		if len(files) >= maxFiles {
			break
		}
		if entry.Type != "blob" {
			continue
		}
		if !matchesExtension(entry.Path, extensions) {
			continue
		}
		files = append(files, domain.FileEntry{
			Path: entry.Path,
			Size: entry.Size,
			URL:  entry.URL,
		})
	}

	logger.Debugf("Tree walk of %s/%s found %d matching files", c.owner, c.repo, len(files))
	return files, nil
}

type contentEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	HTMLURL  string `json:"html_url"`
}

// crawlFiles is the fallback traversal: a breadth-first walk over the
// contents API, one request per directory. Directories that fail to list are
// skipped so a single unreadable path does not abort the walk.
func (c *Client) crawlFiles(ctx context.Context, branch string, maxFiles int, extensions []string) ([]domain.FileEntry, error) {
	files := make([]domain.FileEntry, 0, maxFiles)
	queue := []string{""}

	for len(queue) > 0 && len(files) < maxFiles {
		dir := queue[0]
		queue = queue[1:]

		endpoint := fmt.Sprintf("/repos/%s/%s/contents", c.owner, c.repo)
		if dir != "" {
			endpoint += "/" + dir
		}
		params := url.Values{}
		params.Set("ref", branch)

		raw, err := c.request(ctx, endpoint, params)
		if err != nil {
			logger.Debugf("Skipping unreadable directory %q: %v", dir, err)
			continue
		}

		var entries []contentEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			logger.Debugf("Skipping directory %q with unexpected listing shape", dir)
			continue
		}

		for _, entry := range entries {
			if len(files) >= maxFiles {
				break
			}
			switch entry.Type {
			case "file":
				if matchesExtension(entry.Path, extensions) {
					files = append(files, domain.FileEntry{
						Path: entry.Path,
						Size: entry.Size,
						URL:  entry.HTMLURL,
					})
				}
			case "dir":
				queue = append(queue, entry.Path)
			}
		}
	}

	logger.Debugf("Contents crawl of %s/%s found %d matching files", c.owner, c.repo, len(files))
	return files, nil
}

func matchesExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}

	ext := fileutil.Extension(path)
	for _, allowed := range extensions {
		if ext == strings.ToLower(strings.TrimPrefix(allowed, ".")) {
			return true
		}
	}
	return false
}
