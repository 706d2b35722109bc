// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations, no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/canstralian/CodeQualityAI/domain"
)

// ---------------------------------------------------------------------------
// SpyReader
// ---------------------------------------------------------------------------

// SpyReader implements domain.RepositoryReader as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyReader struct {
	// --- Info ---
	Repository *domain.RepositoryInfo
	InfoErr    error
	// spy: number of Info calls
	InfoCalls int

	// --- CommitHistory ---
	Commits    []domain.Commit
	CommitsErr error
	// spy: limits that were requested
	CommitLimits []int

	// --- ListFiles ---
	Files        []domain.FileEntry
	ListFilesErr error
	// spy: inputs received
	ListFilesCalls []ListFilesCall

	// --- FileContent ---
	Contents       map[string]string // path -> content
	ContentErrs    map[string]error  // path -> error
	FileContentErr error
	// spy: paths that were fetched
	FetchedPaths []string
}

// ListFilesCall records a single invocation of ListFiles.
type ListFilesCall struct {
	MaxFiles   int
	Extensions []string
}

var _ domain.RepositoryReader = (*SpyReader)(nil)

func (r *SpyReader) Info(_ context.Context) (*domain.RepositoryInfo, error) {
	r.InfoCalls++
	if r.InfoErr != nil {
		return nil, r.InfoErr
	}
	if r.Repository != nil {
		return r.Repository, nil
	}
	return &domain.RepositoryInfo{
		Name:          "fixture",
		FullName:      "octocat/fixture",
		DefaultBranch: "main",
	}, nil
}

func (r *SpyReader) CommitHistory(_ context.Context, limit int) ([]domain.Commit, error) {
	r.CommitLimits = append(r.CommitLimits, limit)
	return r.Commits, r.CommitsErr
}

func (r *SpyReader) ListFiles(
	_ context.Context,
	maxFiles int,
	extensions []string,
) ([]domain.FileEntry, error) {
	r.ListFilesCalls = append(
		r.ListFilesCalls,
		ListFilesCall{MaxFiles: maxFiles, Extensions: extensions},
	)
	return r.Files, r.ListFilesErr
}

func (r *SpyReader) FileContent(_ context.Context, path string) (string, error) {
	r.FetchedPaths = append(r.FetchedPaths, path)

	if r.ContentErrs != nil {
		if err, ok := r.ContentErrs[path]; ok {
			return "", err
		}
	}
	if r.Contents != nil {
		if content, ok := r.Contents[path]; ok {
			return content, nil
		}
	}
	if r.FileContentErr != nil {
		return "", r.FileContentErr
	}
	return "", fmt.Errorf("file not found: %s", path)
}

// ---------------------------------------------------------------------------
// StubAnalyzer
// ---------------------------------------------------------------------------

// StubAnalyzer implements domain.Analyzer with canned per-file results.
type StubAnalyzer struct {
	// Results maps a filename to its canned analysis. Files not in the map
	// get a clean analysis with DefaultScore.
	Results      map[string]domain.FileAnalysis
	DefaultScore float64

	// spy: calls received
	Calls []AnalyzeCall
}

// AnalyzeCall records a single invocation of Analyze.
type AnalyzeCall struct {
	Filename  string
	Extension string
	Depth     domain.Depth
}

var _ domain.Analyzer = (*StubAnalyzer)(nil)

func (a *StubAnalyzer) Analyze(
	_, filename, extension string,
	depth domain.Depth,
) domain.FileAnalysis {
	a.Calls = append(a.Calls, AnalyzeCall{
		Filename:  filename,
		Extension: extension,
		Depth:     depth,
	})

	if analysis, ok := a.Results[filename]; ok {
		return analysis
	}
	return domain.FileAnalysis{Filename: filename, Score: a.DefaultScore}
}

// ---------------------------------------------------------------------------
// SpyReporter
// ---------------------------------------------------------------------------

// SpyReporter implements domain.Reporter and records every notification.
type SpyReporter struct {
	Stages    []string
	Processed []ProcessedFile
	Warnings  []string
}

// ProcessedFile records a single FileProcessed notification.
type ProcessedFile struct {
	Path  string
	Index int
	Total int
}

var _ domain.Reporter = (*SpyReporter)(nil)

func (r *SpyReporter) Stage(name string) {
	r.Stages = append(r.Stages, name)
}

func (r *SpyReporter) FileProcessed(path string, index, total int) {
	r.Processed = append(r.Processed, ProcessedFile{Path: path, Index: index, Total: total})
}

func (r *SpyReporter) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
