package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/canstralian/CodeQualityAI/application"
	"github.com/canstralian/CodeQualityAI/domain"
	"github.com/canstralian/CodeQualityAI/infrastructure/analyzer"
	"github.com/canstralian/CodeQualityAI/infrastructure/githubapi"
	"github.com/canstralian/CodeQualityAI/internal/repourl"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	maxFiles    int
	fileTypes   []string
	depthName   string
	commitLimit int
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var analyzeCmd = &cobra.Command{
	Use:   "analyze <repository>",
	Short: "Analyze a GitHub repository from the terminal",
	Long: `Fetch a repository through the GitHub REST API, run the quality
checks over its source files and print a per-file report.

The repository can be given as a full URL, an SSH remote or the
owner/repo shorthand:

  codequality analyze https://github.com/octocat/hello-world
  codequality analyze octocat/hello-world --types py,js --depth deep`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	analyzeCmd.Flags().IntVar(&maxFiles, "max-files", 0,
		"Maximum number of files to analyze (overrides the config file)")
	analyzeCmd.Flags().StringSliceVar(&fileTypes, "types", nil,
		"File extensions to analyze, e.g. py,js,go (overrides the config file)")
	analyzeCmd.Flags().StringVar(&depthName, "depth", "",
		"Analysis depth: basic, standard or deep (overrides the config file)")
	analyzeCmd.Flags().IntVar(&commitLimit, "commits", 0,
		"Number of commits to fetch (overrides the config file)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(command *cobra.Command, args []string) error {
	ctx := context.Background()

	owner, repo, err := repourl.Parse(args[0])
	if err != nil {
		return fmt.Errorf("cannot parse %q: %w", args[0], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := application.Options{
		MaxFiles:     cfg.Analysis.MaxFiles,
		FileTypes:    cfg.Analysis.FileTypes,
		Depth:        domain.ParseDepth(cfg.Analysis.Depth),
		CommitLimit:  cfg.Analysis.CommitLimit,
		ExcludedDirs: cfg.Analysis.ExcludedDirs,
	}
	if command.Flags().Changed("max-files") {
		opts.MaxFiles = maxFiles
	}
	if command.Flags().Changed("types") {
		opts.FileTypes = fileTypes
	}
	if command.Flags().Changed("depth") {
		opts.Depth = domain.ParseDepth(depthName)
	}
	if command.Flags().Changed("commits") {
		opts.CommitLimit = commitLimit
	}

	reader := githubapi.NewClient(owner, repo, githubapi.WithToken(cfg.GitHub.Token))
	service := application.NewAnalysisService(analyzer.NewPatternAnalyzer())

	reporter := newTerminalReporter()
	defer reporter.stop()

	report, err := service.Analyze(ctx, reader, opts, reporter)
	if err != nil {
		return err
	}
	reporter.stop()

	printReport(report, opts.Depth)

	return nil
}

// terminalReporter renders analysis progress with a spinner per stage and a
// progress bar across the per-file loop.
type terminalReporter struct {
	spinner  *pterm.SpinnerPrinter
	progress *pterm.ProgressbarPrinter
}

//nolint:exhaustruct // fields are created lazily as stages arrive
func newTerminalReporter() *terminalReporter {
	return &terminalReporter{}
}

//nolint:gochecknoglobals // fixed stage labels
var stageLabels = map[string]string{
	"repository": "Fetching repository metadata...",
	"commits":    "Fetching commit history...",
	"files":      "Listing repository files...",
	"analysis":   "Analyzing files...",
}

func (r *terminalReporter) Stage(name string) {
	r.stop()

	label, ok := stageLabels[name]
	if !ok {
		label = name
	}
	r.spinner, _ = pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(label)
}

func (r *terminalReporter) FileProcessed(path string, _, total int) {
	if r.progress == nil {
		if r.spinner != nil {
			_ = r.spinner.Stop()
			r.spinner = nil
		}
		r.progress, _ = pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Analyzing files...").
			Start()
	}
	r.progress.UpdateTitle(path)
	r.progress.Increment()
}

func (r *terminalReporter) Warnf(format string, args ...any) {
	pterm.Warning.Printf(format+"\n", args...)
}

func (r *terminalReporter) stop() {
	if r.spinner != nil {
		_ = r.spinner.Stop()
		r.spinner = nil
	}
	if r.progress != nil {
		_, _ = r.progress.Stop()
		r.progress = nil
	}
}

func printReport(report *domain.Report, depth domain.Depth) {
	printRepositoryCard(report.Info)
	printResultsTable(report.Results)
	printSummary(report, depth)
}

func printRepositoryCard(info *domain.RepositoryInfo) {
	pterm.Println()
	pterm.Info.Printf("📦 %s\n", info.FullName)
	pterm.Info.Printf("   ├─ %s\n", info.Description)
	pterm.Info.Printf("   ├─ ⭐ Stars: %d | Forks: %d | Watchers: %d\n",
		info.Stars, info.Forks, info.Watchers)
	pterm.Info.Printf("   ├─ Language: %s | License: %s\n", info.Language, info.License)
	pterm.Info.Printf("   └─ Default branch: %s\n", info.DefaultBranch)
	pterm.Println()
}

func printResultsTable(results []domain.FileResult) {
	data := pterm.TableData{{"File", "Score", "Issues", "Suggestions"}}
	for _, result := range results {
		data = append(data, []string{
			result.Path,
			fmt.Sprintf("%.1f", result.Analysis.Score),
			fmt.Sprintf("%d", len(result.Analysis.Issues)),
			fmt.Sprintf("%d", len(result.Analysis.Suggestions)),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Printf("Failed to render results: %v\n", err)
	}
}

func printSummary(report *domain.Report, depth domain.Depth) {
	issueCount := 0
	for _, result := range report.Results {
		issueCount += len(result.Analysis.Issues)
	}

	pterm.Println()
	pterm.Success.Println("✨ Analysis Complete!")
	pterm.Info.Printf("   ├─ Files analyzed: %d\n", len(report.Results))
	pterm.Info.Printf("   ├─ Issues found: %d\n", issueCount)
	pterm.Info.Printf("   ├─ Commits fetched: %d\n", len(report.Commits))
	pterm.Info.Printf("   ├─ Depth: %s\n", depth)
	pterm.Info.Printf("   └─ Average score: %.1f / 10\n", report.AverageScore)
}
