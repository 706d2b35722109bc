package application

import (
	"context"
	"fmt"
	"math"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/canstralian/CodeQualityAI/domain"
	"github.com/canstralian/CodeQualityAI/internal/fileutil"
)

// AnalysisService orchestrates the full repository analysis flow:
// fetch metadata -> commit history -> file discovery -> per-file scoring.
type AnalysisService struct {
	analyzer domain.Analyzer
}

// NewAnalysisService creates a new service around the given analyzer.
func NewAnalysisService(analyzer domain.Analyzer) *AnalysisService {
	return &AnalysisService{analyzer: analyzer}
}

// Options holds runtime options for a single analysis run.
type Options struct {
	MaxFiles     int
	FileTypes    []string
	Depth        domain.Depth
	CommitLimit  int
	ExcludedDirs []string
}

// Analyze runs the whole pipeline against one repository. Failures of the
// repository itself (metadata, tree traversal) abort the run; failures of
// individual files are reported through rep and skipped.
func (s *AnalysisService) Analyze(
	ctx context.Context,
	reader domain.RepositoryReader,
	opts Options,
	rep domain.Reporter,
) (*domain.Report, error) {
	if rep == nil {
		rep = domain.NopReporter{}
	}

	rep.Stage("repository")
	info, err := reader.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository info: %w", err)
	}
	logger.Infof("Analyzing %s (%s)", info.FullName, info.Language)

	rep.Stage("commits")
	commits, err := reader.CommitHistory(ctx, opts.CommitLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commit history: %w", err)
	}
	logger.Infof("Fetched %d commits", len(commits))

	rep.Stage("files")
	files, err := reader.ListFiles(ctx, opts.MaxFiles, opts.FileTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to list repository files: %w", err)
	}
	logger.Infof("Found %d candidate files", len(files))

	rep.Stage("analysis")
	results := s.analyzeFiles(ctx, reader, files, opts, rep)

	report := &domain.Report{
		Info:         info,
		Commits:      commits,
		Files:        files,
		Results:      results,
		AverageScore: averageScore(results),
	}

	logger.Infof(
		"Analysis complete: %d/%d files analyzed, average score %.1f",
		len(results), len(files), report.AverageScore,
	)
	return report, nil
}

// analyzeFiles runs the analyzer over every eligible file. A file inside an
// excluded directory, with absent content, or failing to fetch is skipped.
func (s *AnalysisService) analyzeFiles(
	ctx context.Context,
	reader domain.RepositoryReader,
	files []domain.FileEntry,
	opts Options,
	rep domain.Reporter,
) []domain.FileResult {
	results := make([]domain.FileResult, 0, len(files))

	for i, file := range files {
		if inExcludedDir(file.Path, opts.ExcludedDirs) {
			logger.Debugf("Skipping %s: excluded directory", file.Path)
			continue
		}

		content, err := reader.FileContent(ctx, file.Path)
		if err != nil {
			rep.Warnf("skipping %s: %v", file.Path, err)
			logger.Warnf("Failed to fetch %s: %v", file.Path, err)
			continue
		}
		if content == "" {
			logger.Debugf("Skipping %s: no analyzable content", file.Path)
			continue
		}

		extension := fileutil.Extension(file.Path)
		analysis := s.analyzer.Analyze(content, file.Path, extension, opts.Depth)

		results = append(results, domain.FileResult{
			Path:      file.Path,
			Extension: extension,
			Analysis:  analysis,
		})
		rep.FileProcessed(file.Path, i+1, len(files))
	}

	return results
}

// inExcludedDir reports whether any path segment, except the file name
// itself, matches an excluded directory.
func inExcludedDir(path string, excluded []string) bool {
	if len(excluded) == 0 {
		return false
	}

	segments := strings.Split(path, "/")
	for _, segment := range segments[:len(segments)-1] {
		for _, dir := range excluded {
			if segment == dir {
				return true
			}
		}
	}
	return false
}

// averageScore is the mean of the per-file scores, rounded like the per-file
// scores are, or zero when nothing was analyzed.
func averageScore(results []domain.FileResult) float64 {
	if len(results) == 0 {
		return 0
	}

	var sum float64
	for _, result := range results {
		sum += result.Analysis.Score
	}
	avg := sum / float64(len(results))

	return math.Round(avg*10) / 10
}
