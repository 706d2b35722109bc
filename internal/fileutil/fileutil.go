// Package fileutil provides small helpers shared by the tree walker and the
// code analyzer.
package fileutil

import "strings"

// Extension returns the lowercase file extension without the dot, or an
// empty string when the filename has none.
func Extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// languageNames maps file extensions to display names for the dashboard.
var languageNames = map[string]string{
	"py":   "Python",
	"js":   "JavaScript",
	"ts":   "TypeScript",
	"jsx":  "React JSX",
	"tsx":  "React TSX",
	"html": "HTML",
	"css":  "CSS",
	"java": "Java",
	"c":    "C",
	"cpp":  "C++",
	"cs":   "C#",
	"go":   "Go",
	"rb":   "Ruby",
	"php":  "PHP",
	"rs":   "Rust",
	"kt":   "Kotlin",
	"sh":   "Shell",
	"sql":  "SQL",
	"md":   "Markdown",
	"json": "JSON",
	"yml":  "YAML",
	"yaml": "YAML",
	"xml":  "XML",
	"toml": "TOML",
}

// LanguageFor returns the programming language name for an extension,
// or "Unknown" when the extension is not recognized.
func LanguageFor(extension string) string {
	if name, ok := languageNames[extension]; ok {
		return name
	}
	return "Unknown"
}
