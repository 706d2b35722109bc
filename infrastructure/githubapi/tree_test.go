package githubapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canstralian/CodeQualityAI/domain"
	"github.com/canstralian/CodeQualityAI/infrastructure/githubapi"
)

// --- helpers ---

func repoHandler(mux *http.ServeMux) {
	mux.HandleFunc("/repos/octocat/hello-world", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, repoBody)
	})
}

func paths(files []domain.FileEntry) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

// --- tests ---

func TestClient_ListFiles(t *testing.T) {
	t.Parallel()

	t.Run("should keep only blobs matching the extension filter", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		repoHandler(mux)
		mux.HandleFunc("/repos/octocat/hello-world/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("recursive"))
			writeJSON(w, http.StatusOK, `{"tree": [
				{"path": "main.py", "type": "blob", "size": 10},
				{"path": "src", "type": "tree", "size": 0},
				{"path": "src/app.js", "type": "blob", "size": 20},
				{"path": "README.md", "type": "blob", "size": 30},
				{"path": "src/util.py", "type": "blob", "size": 40}
			]}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		files, err := client.ListFiles(context.Background(), 10, []string{"py", "js"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"main.py", "src/app.js", "src/util.py"}, paths(files))
	})

	t.Run("should stop collecting once the file cap is reached", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		repoHandler(mux)
		mux.HandleFunc("/repos/octocat/hello-world/git/trees/main", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"tree": [
				{"path": "a.py", "type": "blob", "size": 1},
				{"path": "b.py", "type": "blob", "size": 1},
				{"path": "c.py", "type": "blob", "size": 1}
			]}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		files, err := client.ListFiles(context.Background(), 2, []string{"py"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a.py", "b.py"}, paths(files))
	})

	t.Run("should return every blob when no extension filter is given", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		repoHandler(mux)
		mux.HandleFunc("/repos/octocat/hello-world/git/trees/main", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"tree": [
				{"path": "main.py", "type": "blob", "size": 10},
				{"path": "README.md", "type": "blob", "size": 30}
			]}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		files, err := client.ListFiles(context.Background(), 10, nil)

		// then
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("should fall back to crawling directories when the tree API fails", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		repoHandler(mux)
		mux.HandleFunc("/repos/octocat/hello-world/git/trees/main", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"message": "tree unavailable"}`)
		})
		mux.HandleFunc("/repos/octocat/hello-world/contents", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `[
				{"path": "main.py", "type": "file", "size": 10},
				{"path": "src", "type": "dir"},
				{"path": "broken", "type": "dir"}
			]`)
		})
		mux.HandleFunc("/repos/octocat/hello-world/contents/src", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `[
				{"path": "src/app.py", "type": "file", "size": 20}
			]`)
		})
		mux.HandleFunc("/repos/octocat/hello-world/contents/broken", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"message": "boom"}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		files, err := client.ListFiles(context.Background(), 10, []string{"py"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"main.py", "src/app.py"}, paths(files))
	})

	t.Run("should report an empty repository distinctly", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		repoHandler(mux)
		mux.HandleFunc("/repos/octocat/hello-world/git/trees/main", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusConflict, `{"message": "Git Repository is empty."}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		_, err := client.ListFiles(context.Background(), 10, []string{"py"})

		// then
		require.Error(t, err)
		assert.True(t, githubapi.IsEmptyRepository(err))
	})
}
