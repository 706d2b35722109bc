package analyzer

import "regexp"

// languagePatterns holds the per-language heuristics used by the pattern
// pass. Rules are kept in slices so the scan order, and therefore the issue
// order, is stable.
type languagePatterns struct {
	maxLineLength    int
	maxFunctionLines int
	functionPattern  *regexp.Regexp
	nestedControl    *regexp.Regexp
	naming           []namingRule
	docPattern       *regexp.Regexp
	security         []securityRule
}

type namingRule struct {
	kind    nameKind
	pattern *regexp.Regexp
}

type nameKind string

const (
	nameClass    nameKind = "class"
	nameFunction nameKind = "function"
	nameConstant nameKind = "constant"
)

type securityRule struct {
	kind    string
	pattern *regexp.Regexp
}

var defaultPatterns = &languagePatterns{
	maxLineLength:    100,
	maxFunctionLines: 50,
}

var pythonPatterns = &languagePatterns{
	// PEP 8 recommends 79, Black uses 88.
	maxLineLength:    88,
	maxFunctionLines: 50,
	functionPattern:  regexp.MustCompile(`(?m)def\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\(.*\):`),
	nestedControl:    regexp.MustCompile(`(?m)(\s+if.*:.*\n\s+\s+if.*:|\s+for.*:.*\n\s+\s+for.*:|\s+while.*:.*\n\s+\s+while.*:)`),
	naming: []namingRule{
		{nameClass, regexp.MustCompile(`(?m)class\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*(\(.*\))?:`)},
		{nameFunction, regexp.MustCompile(`(?m)def\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\(.*\):`)},
		{nameConstant, regexp.MustCompile(`(?m)([A-Z_][A-Z0-9_]*)\s*=`)},
	},
	docPattern: regexp.MustCompile(`(?s)""".*?"""`),
	security: []securityRule{
		{"SQL Injection", regexp.MustCompile(`execute\(.*\+.*\)`)},
		{"Shell Injection", regexp.MustCompile(`os\.system\(.*\+.*\)|subprocess\.call\(.*shell\s*=\s*True.*\)`)},
		{"Hardcoded Credentials", regexp.MustCompile(`password\s*=\s*['"][^'"]*['"]|secret\s*=\s*['"][^'"]*['"]`)},
	},
}

var javascriptPatterns = &languagePatterns{
	maxLineLength:    100,
	maxFunctionLines: 50,
	functionPattern:  regexp.MustCompile(`(?m)function\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*\(.*\)|(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=\s*(?:function|\(.*\)\s*=>)`),
	nestedControl:    regexp.MustCompile(`(?m)(\s+if.*\{.*\n\s+\s+if.*\{|\s+for.*\{.*\n\s+\s+for.*\{|\s+while.*\{.*\n\s+\s+while.*\{)`),
	naming: []namingRule{
		{nameClass, regexp.MustCompile(`(?m)class\s+([a-zA-Z_$][a-zA-Z0-9_$]*)`)},
		{nameFunction, regexp.MustCompile(`(?m)function\s+([a-zA-Z_$][a-zA-Z0-9_$]*)|(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=\s*(?:function|\(.*\)\s*=>)`)},
		{nameConstant, regexp.MustCompile(`(?m)const\s+([A-Z_$][A-Z0-9_$]*)\s*=`)},
	},
	docPattern: regexp.MustCompile(`(?s)/\*\*.*?\*/`),
	security: []securityRule{
		{"Injection", regexp.MustCompile(`eval\(.*\+.*\)|new Function\(.*\+.*\)`)},
		{"DOM XSS", regexp.MustCompile(`\.innerHTML\s*=|\.outerHTML\s*=`)},
		{"Hardcoded Credentials", regexp.MustCompile(`password\s*[:=]\s*['"][^'"]*['"]|secret\s*[:=]\s*['"][^'"]*['"]`)},
	},
}

var javaPatterns = &languagePatterns{
	maxLineLength:    120,
	maxFunctionLines: 50,
	functionPattern:  regexp.MustCompile(`(?m)(?:public|private|protected|static|\s) +[\w<>\[\]]+\s+(\w+) *\([^)]*\) *(?:\{|throws)`),
	nestedControl:    regexp.MustCompile(`(?m)(\s+if.*\{.*\n\s+\s+if.*\{|\s+for.*\{.*\n\s+\s+for.*\{|\s+while.*\{.*\n\s+\s+while.*\{)`),
	naming: []namingRule{
		{nameClass, regexp.MustCompile(`(?m)class\s+([a-zA-Z_][a-zA-Z0-9_]*)`)},
		{nameFunction, regexp.MustCompile(`(?m)(?:public|private|protected|static|\s) +[\w<>\[\]]+\s+(\w+) *\([^)]*\) *(?:\{|throws)`)},
		{nameConstant, regexp.MustCompile(`(?m)static\s+final\s+[a-zA-Z_][a-zA-Z0-9_]*\s+([A-Z_][A-Z0-9_]*)\s*=`)},
	},
	docPattern: regexp.MustCompile(`(?s)/\*\*.*?\*/`),
	security: []securityRule{
		{"SQL Injection", regexp.MustCompile(`executeQuery\(.*\+.*\)|executeUpdate\(.*\+.*\)`)},
		{"Command Injection", regexp.MustCompile(`Runtime\.getRuntime\(\)\.exec\(.*\+.*\)`)},
		{"Hardcoded Credentials", regexp.MustCompile(`String\s+(?:\w+)?[Pp]assword\s*=\s*['"][^'"]*['"]`)},
	},
}

var goPatterns = &languagePatterns{
	maxLineLength:    120,
	maxFunctionLines: 60,
	functionPattern:  regexp.MustCompile(`(?m)func\s+(?:\([^)]*\)\s+)?([a-zA-Z_][a-zA-Z0-9_]*)\s*\(`),
	nestedControl:    regexp.MustCompile(`(?m)(\t+if .*\{\n\t+\tif .*\{|\t+for .*\{\n\t+\tfor .*\{)`),
	docPattern:       regexp.MustCompile(`(?m)^\s*//.*$`),
	security: []securityRule{
		{"Command Injection", regexp.MustCompile(`exec\.Command\([^)]*\+[^)]*\)`)},
		{"Hardcoded Credentials", regexp.MustCompile(`(?i)(password|secret|apikey)\s*[:=]+\s*"[^"]+"`)},
	},
}

// patternsFor maps a file extension to its heuristic set. Unknown languages
// get the default line and function limits only.
func patternsFor(extension string) *languagePatterns {
	switch extension {
	case "py":
		return pythonPatterns
	case "js", "jsx", "ts", "tsx":
		return javascriptPatterns
	case "java":
		return javaPatterns
	case "go":
		return goPatterns
	default:
		return defaultPatterns
	}
}
