// Package analyzer implements the heuristic code-quality pass: regex-based
// pattern detection per language plus randomized maintainability findings.
package analyzer

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/canstralian/CodeQualityAI/domain"
)

const (
	basicDepthFactor = 0.7
	largeFileLines   = 300

	// docProximityLines is how close a documentation block must be to a
	// function definition to count as documenting it.
	docProximityLines = 3
)

// PatternAnalyzer scores source files with language-specific regex rules and
// a randomized heuristic pass. It is stateless apart from its random source,
// so one instance can analyze many files in sequence.
type PatternAnalyzer struct {
	rng *rand.Rand
}

var _ domain.Analyzer = (*PatternAnalyzer)(nil)

// Option configures a PatternAnalyzer.
type Option func(*PatternAnalyzer)

// WithRand replaces the random source, pinning the heuristic findings for
// tests.
func WithRand(rng *rand.Rand) Option {
	return func(a *PatternAnalyzer) { a.rng = rng }
}

// NewPatternAnalyzer creates an analyzer seeded from the wall clock.
func NewPatternAnalyzer(opts ...Option) *PatternAnalyzer {
	a := &PatternAnalyzer{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the pattern and heuristic passes over one file, applies the
// depth setting and derives a 0..10 quality score from the issue count.
func (a *PatternAnalyzer) Analyze(code, filename, extension string, depth domain.Depth) domain.FileAnalysis {
	issues := a.patternIssues(code, extension)
	issues = append(issues, a.heuristicIssues(code, extension)...)

	switch depth {
	case domain.DepthBasic:
		if keep := max(1, int(float64(len(issues))*basicDepthFactor)); keep < len(issues) {
			issues = issues[:keep]
		}
	case domain.DepthDeep:
		issues = append(issues, a.deepIssues(code)...)
	}

	return domain.FileAnalysis{
		Filename:    filename,
		Score:       qualityScore(len(issues)),
		Issues:      issues,
		Suggestions: buildSuggestions(issues, extension),
	}
}

// qualityScore starts from 10 and subtracts a per-issue penalty that shrinks
// as issues accumulate, so many findings degrade the score smoothly instead
// of pinning it to zero.
func qualityScore(issueCount int) float64 {
	penalty := 10.0 / float64(issueCount+10)
	score := 10.0 - penalty*float64(issueCount)

	score = math.Max(0, math.Min(10, score))
	return math.Round(score*10) / 10
}

// patternIssues runs the regex rules for the file's language.
func (a *PatternAnalyzer) patternIssues(code, extension string) []domain.Issue {
	if strings.TrimSpace(code) == "" {
		return nil
	}

	patterns := patternsFor(extension)
	var issues []domain.Issue

	for i, line := range strings.Split(code, "\n") {
		if utf8.RuneCountInString(line) > patterns.maxLineLength {
			issues = append(issues, domain.Issue{
				Line:     i + 1,
				Type:     "Long line",
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("Line exceeds %d characters", patterns.maxLineLength),
			})
		}
	}

	if patterns.functionPattern != nil {
		for _, match := range patterns.functionPattern.FindAllStringSubmatchIndex(code, -1) {
			name := submatchName(code, match)
			span := code[match[0]:match[1]]
			if lines := strings.Count(span, "\n"); lines > patterns.maxFunctionLines {
				issues = append(issues, domain.Issue{
					Line:     lineOf(code, match[0]),
					Type:     "Long function",
					Severity: domain.SeverityWarning,
					Message:  fmt.Sprintf("Function '%s' is %d lines long", name, lines),
				})
			}
		}
	}

	if patterns.nestedControl != nil {
		for _, match := range patterns.nestedControl.FindAllStringIndex(code, -1) {
			issues = append(issues, domain.Issue{
				Line:     lineOf(code, match[0]),
				Type:     "Complex code",
				Severity: domain.SeverityWarning,
				Message:  "Deeply nested control structures",
			})
		}
	}

	issues = append(issues, namingIssues(code, patterns)...)
	issues = append(issues, documentationIssues(code, patterns)...)

	for _, rule := range patterns.security {
		for _, match := range rule.pattern.FindAllStringIndex(code, -1) {
			issues = append(issues, domain.Issue{
				Line:     lineOf(code, match[0]),
				Type:     "Potential security issue",
				Severity: domain.SeverityError,
				Message:  "Potential security vulnerability: " + rule.kind,
			})
		}
	}

	return issues
}

func namingIssues(code string, patterns *languagePatterns) []domain.Issue {
	var issues []domain.Issue

	for _, rule := range patterns.naming {
		for _, match := range rule.pattern.FindAllStringSubmatchIndex(code, -1) {
			name := submatchName(code, match)
			if name == "" || followsConvention(rule.kind, name) {
				continue
			}
			issues = append(issues, domain.Issue{
				Line:     lineOf(code, match[0]),
				Type:     "Inconsistent naming",
				Severity: domain.SeverityInfo,
				Message: fmt.Sprintf("%s name '%s' doesn't follow naming conventions",
					capitalize(string(rule.kind)), name),
			})
		}
	}

	return issues
}

func followsConvention(kind nameKind, name string) bool {
	first := rune(name[0])
	switch kind {
	case nameClass:
		return unicode.IsUpper(first)
	case nameFunction:
		return unicode.IsLower(first) || first == '_'
	case nameConstant:
		return name == strings.ToUpper(name)
	default:
		return true
	}
}

// documentationIssues flags functions with no documentation block within
// docProximityLines of their definition.
func documentationIssues(code string, patterns *languagePatterns) []domain.Issue {
	if patterns.docPattern == nil || patterns.functionPattern == nil {
		return nil
	}

	var docLines []int
	for _, match := range patterns.docPattern.FindAllStringIndex(code, -1) {
		docLines = append(docLines, lineOf(code, match[0]))
	}

	var issues []domain.Issue
	for _, match := range patterns.functionPattern.FindAllStringSubmatchIndex(code, -1) {
		line := lineOf(code, match[0])

		documented := false
		for _, docLine := range docLines {
			if abs(docLine-line) <= docProximityLines {
				documented = true
				break
			}
		}
		if documented {
			continue
		}

		issues = append(issues, domain.Issue{
			Line:     line,
			Type:     "Missing documentation",
			Severity: domain.SeverityInfo,
			Message:  fmt.Sprintf("Function '%s' lacks documentation", submatchName(code, match)),
		})
	}

	return issues
}

// heuristicIssues simulates a deeper reviewer: it flags oversized files
// deterministically and sprinkles randomized duplication, bug and
// performance findings the way a sampling-based checker would.
func (a *PatternAnalyzer) heuristicIssues(code, extension string) []domain.Issue {
	if strings.TrimSpace(code) == "" {
		return nil
	}

	lineCount := strings.Count(code, "\n") + 1
	var issues []domain.Issue

	if lineCount > largeFileLines {
		issues = append(issues, domain.Issue{
			Line:     1,
			Type:     "File size",
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("File is very large (%d lines)", lineCount),
		})
	}

	if lineCount > 50 && a.rng.Float64() < 0.5 {
		issues = append(issues, domain.Issue{
			Line:     a.randBetween(10, min(40, lineCount-10)),
			Type:     "Code duplication",
			Severity: domain.SeverityWarning,
			Message:  "Similar code pattern detected elsewhere in the codebase",
		})
	}

	if isBugProneLanguage(extension) && a.rng.Float64() < 0.3 {
		issues = append(issues, domain.Issue{
			Line:     a.randBetween(1, lineCount),
			Type:     "Potential bug",
			Severity: domain.SeverityError,
			Message:  "Possible logical error or edge case not handled",
		})
	}

	if a.rng.Float64() < 0.3 {
		issues = append(issues, domain.Issue{
			Line:     a.randBetween(1, lineCount),
			Type:     "Performance issue",
			Severity: domain.SeverityWarning,
			Message:  "Inefficient algorithm or operation detected",
		})
	}

	return issues
}

var deepIssueTypes = []domain.Issue{
	{Type: "Code maintainability", Severity: domain.SeverityWarning,
		Message: "This code might be difficult to maintain due to complexity"},
	{Type: "Variable scope", Severity: domain.SeverityInfo,
		Message: "Consider reducing variable scope for better encapsulation"},
	{Type: "Error handling", Severity: domain.SeverityWarning,
		Message: "Improve error handling to handle edge cases"},
	{Type: "Code organization", Severity: domain.SeverityInfo,
		Message: "Consider reorganizing code for better readability"},
}

// deepIssues adds one to three extra findings proportional to file size.
func (a *PatternAnalyzer) deepIssues(code string) []domain.Issue {
	if strings.TrimSpace(code) == "" {
		return nil
	}

	lineCount := strings.Count(code, "\n") + 1
	count := min(3, max(1, lineCount/100))

	issues := make([]domain.Issue, 0, count)
	for i := 0; i < count; i++ {
		issue := deepIssueTypes[a.rng.Intn(len(deepIssueTypes))]
		issue.Line = a.randBetween(1, lineCount)
		issues = append(issues, issue)
	}

	return issues
}

func (a *PatternAnalyzer) randBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + a.rng.Intn(hi-lo+1)
}

func isBugProneLanguage(extension string) bool {
	return extension == "py" || extension == "js" || extension == "java"
}

func submatchName(code string, match []int) string {
	// First non-empty capture group; patterns with alternations capture
	// the name in different groups depending on the branch taken.
	for i := 2; i+1 < len(match); i += 2 {
		if match[i] >= 0 {
			return code[match[i]:match[i+1]]
		}
	}
	return "Unknown function"
}

func lineOf(code string, offset int) int {
	return strings.Count(code[:offset], "\n") + 1
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
