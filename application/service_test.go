package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canstralian/CodeQualityAI/application"
	"github.com/canstralian/CodeQualityAI/domain"
	testdoubles "github.com/canstralian/CodeQualityAI/test"
)

// --- helpers ---

func defaultOptions() application.Options {
	return application.Options{
		MaxFiles:     10,
		FileTypes:    []string{"py", "js"},
		Depth:        domain.DepthStandard,
		CommitLimit:  50,
		ExcludedDirs: []string{"node_modules", "venv", ".git", "__pycache__", "dist", "build"},
	}
}

func buildReader(files []domain.FileEntry, contents map[string]string) *testdoubles.SpyReader {
	return &testdoubles.SpyReader{
		Repository: &domain.RepositoryInfo{
			Name:          "fixture",
			FullName:      "octocat/fixture",
			Language:      "Python",
			DefaultBranch: "main",
		},
		Commits:  []domain.Commit{{Hash: "abc123", Author: "Octocat"}},
		Files:    files,
		Contents: contents,
	}
}

// --- tests ---

func TestAnalysisService_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("should analyze every readable file and average the scores", func(t *testing.T) {
		t.Parallel()

		// given
		reader := buildReader(
			[]domain.FileEntry{{Path: "main.py"}, {Path: "app.js"}},
			map[string]string{"main.py": "print(1)", "app.js": "console.log(1)"},
		)
		stub := &testdoubles.StubAnalyzer{
			Results: map[string]domain.FileAnalysis{
				"main.py": {Filename: "main.py", Score: 8.0},
				"app.js":  {Filename: "app.js", Score: 9.0},
			},
		}
		service := application.NewAnalysisService(stub)

		// when
		report, err := service.Analyze(context.Background(), reader, defaultOptions(), nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "octocat/fixture", report.Info.FullName)
		assert.Len(t, report.Commits, 1)
		assert.Len(t, report.Results, 2)
		assert.InDelta(t, 8.5, report.AverageScore, 1e-9)
	})

	t.Run("should pass the configured limits to the reader", func(t *testing.T) {
		t.Parallel()

		// given
		reader := buildReader(nil, nil)
		service := application.NewAnalysisService(&testdoubles.StubAnalyzer{})

		// when
		_, err := service.Analyze(context.Background(), reader, defaultOptions(), nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []int{50}, reader.CommitLimits)
		require.Len(t, reader.ListFilesCalls, 1)
		assert.Equal(t, 10, reader.ListFilesCalls[0].MaxFiles)
		assert.Equal(t, []string{"py", "js"}, reader.ListFilesCalls[0].Extensions)
	})

	t.Run("should skip files under excluded directories without fetching them", func(t *testing.T) {
		t.Parallel()

		// given
		reader := buildReader(
			[]domain.FileEntry{
				{Path: "node_modules/lib/index.js"},
				{Path: "src/main.py"},
			},
			map[string]string{"src/main.py": "print(1)"},
		)
		service := application.NewAnalysisService(&testdoubles.StubAnalyzer{DefaultScore: 7})

		// when
		report, err := service.Analyze(context.Background(), reader, defaultOptions(), nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"src/main.py"}, reader.FetchedPaths)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "src/main.py", report.Results[0].Path)
	})

	t.Run("should skip files whose content is absent or failing and keep going", func(t *testing.T) {
		t.Parallel()

		// given
		reader := buildReader(
			[]domain.FileEntry{
				{Path: "empty.py"},
				{Path: "broken.py"},
				{Path: "good.py"},
			},
			map[string]string{"empty.py": "", "good.py": "print(1)"},
		)
		reader.ContentErrs = map[string]error{"broken.py": errors.New("fetch failed")}
		service := application.NewAnalysisService(&testdoubles.StubAnalyzer{DefaultScore: 6})
		reporter := &testdoubles.SpyReporter{}

		// when
		report, err := service.Analyze(context.Background(), reader, defaultOptions(), reporter)

		// then
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "good.py", report.Results[0].Path)
		require.Len(t, reporter.Warnings, 1)
		assert.Contains(t, reporter.Warnings[0], "broken.py")
	})

	t.Run("should abort when repository metadata cannot be fetched", func(t *testing.T) {
		t.Parallel()

		// given
		reader := &testdoubles.SpyReader{InfoErr: errors.New("boom")}
		service := application.NewAnalysisService(&testdoubles.StubAnalyzer{})

		// when
		_, err := service.Analyze(context.Background(), reader, defaultOptions(), nil)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "repository info")
		assert.Empty(t, reader.CommitLimits)
	})

	t.Run("should report stages and per-file progress in order", func(t *testing.T) {
		t.Parallel()

		// given
		reader := buildReader(
			[]domain.FileEntry{{Path: "a.py"}, {Path: "b.py"}},
			map[string]string{"a.py": "x = 1", "b.py": "y = 2"},
		)
		service := application.NewAnalysisService(&testdoubles.StubAnalyzer{DefaultScore: 5})
		reporter := &testdoubles.SpyReporter{}

		// when
		_, err := service.Analyze(context.Background(), reader, defaultOptions(), reporter)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"repository", "commits", "files", "analysis"}, reporter.Stages)
		assert.Equal(t, []testdoubles.ProcessedFile{
			{Path: "a.py", Index: 1, Total: 2},
			{Path: "b.py", Index: 2, Total: 2},
		}, reporter.Processed)
	})

	t.Run("should report a zero average when nothing was analyzed", func(t *testing.T) {
		t.Parallel()

		// given
		reader := buildReader(nil, nil)
		service := application.NewAnalysisService(&testdoubles.StubAnalyzer{})

		// when
		report, err := service.Analyze(context.Background(), reader, defaultOptions(), nil)

		// then
		require.NoError(t, err)
		assert.Empty(t, report.Results)
		assert.Zero(t, report.AverageScore)
	})
}
