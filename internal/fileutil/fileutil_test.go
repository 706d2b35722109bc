package fileutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canstralian/CodeQualityAI/internal/fileutil"
)

func TestExtension(t *testing.T) {
	t.Parallel()

	t.Run("should return the lowercase extension without the dot", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "py", fileutil.Extension("main.py"))
		assert.Equal(t, "go", fileutil.Extension("cmd/serve.GO"))
		assert.Equal(t, "tsx", fileutil.Extension("src/App.test.tsx"))
	})

	t.Run("should return empty for filenames without an extension", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, fileutil.Extension("Makefile"))
		assert.Empty(t, fileutil.Extension("trailing."))
		assert.Empty(t, fileutil.Extension(""))
	})
}

func TestLanguageFor(t *testing.T) {
	t.Parallel()

	t.Run("should map known extensions to display names", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Python", fileutil.LanguageFor("py"))
		assert.Equal(t, "React TSX", fileutil.LanguageFor("tsx"))
		assert.Equal(t, "Go", fileutil.LanguageFor("go"))
	})

	t.Run("should fall back to Unknown for unrecognized extensions", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Unknown", fileutil.LanguageFor("zig"))
		assert.Equal(t, "Unknown", fileutil.LanguageFor(""))
	})
}
