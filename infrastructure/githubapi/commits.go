package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/canstralian/CodeQualityAI/domain"
)

const (
	maxPerPage       = 100
	maxMessageLength = 80
)

type commitResponse struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// CommitHistory fetches up to limit commits from the default branch, newest
// first, paging through the API as needed. A limit of zero or less returns an
// empty slice without touching the network.
func (c *Client) CommitHistory(ctx context.Context, limit int) ([]domain.Commit, error) {
	if limit <= 0 {
		return []domain.Commit{}, nil
	}
	commits := make([]domain.Commit, 0, limit)

	endpoint := fmt.Sprintf("/repos/%s/%s/commits", c.owner, c.repo)
	perPage := min(limit, maxPerPage)

	for page := 1; len(commits) < limit; page++ {
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(perPage))
		params.Set("page", strconv.Itoa(page))

		raw, err := c.request(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}

		var pageData []commitResponse
		if err := json.Unmarshal(raw, &pageData); err != nil {
			return nil, fmt.Errorf("failed to parse commits response: %w", err)
		}

		if len(pageData) == 0 {
			break
		}

		for _, entry := range pageData {
			if len(commits) >= limit {
				break
			}
			commits = append(commits, entry.toDomain())
		}

		// A short page means the history is exhausted.
		if len(pageData) < perPage {
			break
		}
	}

	return commits, nil
}

func (r commitResponse) toDomain() domain.Commit {
	author := r.Commit.Author.Name
	if author == "" {
		author = "Unknown"
	}

	return domain.Commit{
		Hash:    r.SHA,
		Author:  author,
		Email:   r.Commit.Author.Email,
		Date:    r.Commit.Author.Date,
		Message: formatCommitMessage(r.Commit.Message),
		URL:     r.HTMLURL,
	}
}

// formatCommitMessage keeps only the subject line of a commit message and
// truncates it to maxMessageLength characters.
func formatCommitMessage(message string) string {
	subject, _, _ := strings.Cut(message, "\n")

	runes := []rune(subject)
	if len(runes) <= maxMessageLength {
		return subject
	}
	return string(runes[:maxMessageLength-3]) + "..."
}
