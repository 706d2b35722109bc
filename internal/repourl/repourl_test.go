package repourl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canstralian/CodeQualityAI/internal/repourl"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("should accept the accepted URL forms", func(t *testing.T) {
		t.Parallel()

		// given
		cases := []struct {
			input string
			owner string
			repo  string
		}{
			{"https://github.com/octocat/hello-world", "octocat", "hello-world"},
			{"https://github.com/octocat/hello-world/", "octocat", "hello-world"},
			{"https://github.com/octocat/hello-world.git", "octocat", "hello-world"},
			{"http://github.com/octocat/hello-world", "octocat", "hello-world"},
			{"github.com/octocat/hello-world", "octocat", "hello-world"},
			{"git@github.com:octocat/hello-world.git", "octocat", "hello-world"},
			{"octocat/hello-world", "octocat", "hello-world"},
		}

		for _, tc := range cases {
			// when
			owner, repo, err := repourl.Parse(tc.input)

			// then
			require.NoError(t, err, tc.input)
			assert.Equal(t, tc.owner, owner, tc.input)
			assert.Equal(t, tc.repo, repo, tc.input)
		}
	})

	t.Run("should reject URLs that do not name a repository", func(t *testing.T) {
		t.Parallel()

		// given
		cases := []string{
			"",
			"https://gitlab.com/octocat/hello-world",
			"just-a-word",
			"octocat/hello world",
		}

		for _, input := range cases {
			// when
			_, _, err := repourl.Parse(input)

			// then
			require.Error(t, err, input)
			assert.ErrorIs(t, err, repourl.ErrInvalidURL, input)
		}
	})
}
