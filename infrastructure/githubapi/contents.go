package githubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	logger "github.com/sirupsen/logrus"
)

// largeFileMarker is the message GitHub returns when a file exceeds the
// contents API size ceiling and must be fetched through the blob API.
const largeFileMarker = "This API returns blobs up to 1 MB in size"

// FileContent fetches the decoded text of a file. Content that is absent
// rather than failed (the path is a directory or submodule, the body is
// empty, or the bytes are not valid UTF-8 text) is reported as ("", nil) so
// that an analysis run can skip the file and continue. Decoded content is
// cached per owner/repo/path for the lifetime of the client.
func (c *Client) FileContent(ctx context.Context, path string) (string, error) {
	cacheKey := c.owner + "/" + c.repo + "/" + path
	if content, ok := c.contentCache[cacheKey]; ok {
		logger.Debugf("Using cached content for %s", cacheKey)
		return content, nil
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, path)

	raw, err := c.request(ctx, endpoint, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, largeFileMarker) {
			logger.Infof("File %s exceeds the contents API limit, using the blob API", path)
			return c.largeFileContent(ctx, path, cacheKey)
		}
		return "", err
	}

	var file contentEntry
	if err := json.Unmarshal(raw, &file); err != nil {
		return "", fmt.Errorf("failed to parse file content response: %w", err)
	}

	if file.Type != "file" {
		logger.Warnf("Path %s is %q, not a file", path, file.Type)
		return "", nil
	}
	if file.Content == "" {
		logger.Warnf("File %s has no content", path)
		return "", nil
	}

	content, ok := decodeBase64Text(file.Content)
	if !ok {
		logger.Warnf("File %s is not decodable text, skipping", path)
		return "", nil
	}

	c.contentCache[cacheKey] = content
	return content, nil
}

// largeFileContent resolves the file's blob SHA through a metadata-only
// contents call, then fetches the raw blob. An unresolvable SHA or an empty
// blob is absent content, not an error.
func (c *Client) largeFileContent(ctx context.Context, path, cacheKey string) (string, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, path)
	params := url.Values{}
	params.Set("ref", info.DefaultBranch)

	raw, err := c.request(ctx, endpoint, params)
	if err != nil {
		return "", err
	}

	var meta contentEntry
	if err := json.Unmarshal(raw, &meta); err != nil || meta.SHA == "" {
		logger.Warnf("Could not resolve blob SHA for large file %s", path)
		return "", nil
	}

	blobEndpoint := fmt.Sprintf("/repos/%s/%s/git/blobs/%s", c.owner, c.repo, meta.SHA)
	raw, err = c.request(ctx, blobEndpoint, nil)
	if err != nil {
		return "", err
	}

	var blob struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.Unmarshal(raw, &blob); err != nil {
		return "", fmt.Errorf("failed to parse blob response: %w", err)
	}

	if blob.Content == "" {
		logger.Warnf("Blob for large file %s has no content", path)
		return "", nil
	}

	content, ok := decodeBase64Text(blob.Content)
	if !ok {
		logger.Warnf("Large file %s is not decodable text, skipping", path)
		return "", nil
	}

	c.contentCache[cacheKey] = content
	return content, nil
}

// ClearCache drops the cached repository info and file contents, forcing the
// next reads to hit the API again.
func (c *Client) ClearCache() {
	c.infoCache = nil
	c.contentCache = make(map[string]string)
}

// decodeBase64Text decodes the newline-wrapped base64 payload the GitHub API
// returns for file bodies. It reports false for undecodable input and for
// binary (non-UTF-8) results.
func decodeBase64Text(encoded string) (string, bool) {
	compact := strings.ReplaceAll(encoded, "\n", "")

	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}
