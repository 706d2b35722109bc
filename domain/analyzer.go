package domain

// Depth controls how thorough an analysis pass is.
type Depth string

const (
	DepthBasic    Depth = "basic"    // fewer issues reported
	DepthStandard Depth = "standard" // default
	DepthDeep     Depth = "deep"     // additional heuristic findings
)

// ParseDepth maps a user-supplied string onto a Depth, defaulting to standard.
func ParseDepth(raw string) Depth {
	switch Depth(raw) {
	case DepthBasic, DepthStandard, DepthDeep:
		return Depth(raw)
	default:
		return DepthStandard
	}
}

// Analyzer scores a single source file and reports issues and suggestions.
// Implementations may be heuristic or randomized; callers must not assume
// two runs over the same input produce identical findings.
type Analyzer interface {
	Analyze(code, filename, extension string, depth Depth) FileAnalysis
}
