package domain

// RepositoryInfo holds the normalized metadata of a GitHub repository.
// It is built once per analysis run and never mutated afterwards.
type RepositoryInfo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	Watchers      int    `json:"watchers"`
	Language      string `json:"language"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	DefaultBranch string `json:"default_branch"`
	License       string `json:"license"`
	URL           string `json:"url"`
}

// Commit represents a single entry in a repository's commit history.
type Commit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Email   string `json:"email"`
	Date    string `json:"date"`    // ISO-8601, as returned by the API
	Message string `json:"message"` // first line, truncated to 80 characters
	URL     string `json:"url"`
}

// FileEntry represents a file discovered during tree traversal.
// Two entries are considered equal when their paths are equal.
type FileEntry struct {
	Path string `json:"path"`
	Size int    `json:"size"`
	URL  string `json:"url"`
}

// Severity classifies how serious an issue is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single finding reported by the analyzer for one line of code.
type Issue struct {
	Line     int      `json:"line"`
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Suggestion is an actionable improvement derived from a group of issues.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

// FileAnalysis is the analyzer output for a single file.
type FileAnalysis struct {
	Filename    string       `json:"filename"`
	Score       float64      `json:"score"` // 0..10, one decimal
	Issues      []Issue      `json:"issues"`
	Suggestions []Suggestion `json:"suggestions"`
}

// FileResult pairs a repository file with its analysis.
type FileResult struct {
	Path      string       `json:"path"`
	Extension string       `json:"extension"`
	Analysis  FileAnalysis `json:"analysis"`
}

// Report is the aggregate outcome of one analysis run.
type Report struct {
	Info         *RepositoryInfo `json:"info"`
	Commits      []Commit        `json:"commits"`
	Files        []FileEntry     `json:"files"`
	Results      []FileResult    `json:"results"`
	AverageScore float64         `json:"average_score"`
}

// User holds the GitHub account details of an authenticated dashboard user.
type User struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}
