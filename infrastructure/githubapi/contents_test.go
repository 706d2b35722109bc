package githubapi_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- tests ---

func TestClient_FileContent(t *testing.T) {
	t.Parallel()

	t.Run("should decode base64 file bodies, including wrapped lines", func(t *testing.T) {
		t.Parallel()

		// given
		source := "def main():\n    print(\"hello\")\n"
		encoded := base64.StdEncoding.EncodeToString([]byte(source))
		wrapped := encoded[:10] + `\n` + encoded[10:]

		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octocat/hello-world/contents/main.py", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"type": "file", "content": "`+wrapped+`", "encoding": "base64"}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		content, err := client.FileContent(context.Background(), "main.py")

		// then
		require.NoError(t, err)
		assert.Equal(t, source, content)
	})

	t.Run("should serve repeated reads of the same path from the cache", func(t *testing.T) {
		t.Parallel()

		// given
		var requests atomic.Int32
		encoded := base64.StdEncoding.EncodeToString([]byte("cached body"))
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octocat/hello-world/contents/main.py", func(w http.ResponseWriter, _ *http.Request) {
			requests.Add(1)
			writeJSON(w, http.StatusOK, `{"type": "file", "content": "`+encoded+`"}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		first, err1 := client.FileContent(context.Background(), "main.py")
		second, err2 := client.FileContent(context.Background(), "main.py")

		// then
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), requests.Load())
	})

	t.Run("should treat directories and submodules as absent content", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octocat/hello-world/contents/src", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"type": "dir", "content": ""}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		content, err := client.FileContent(context.Background(), "src")

		// then
		require.NoError(t, err)
		assert.Empty(t, content)
	})

	t.Run("should treat undecodable and binary bodies as absent content", func(t *testing.T) {
		t.Parallel()

		// given
		binary := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x00, 0x01})
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octocat/hello-world/contents/bad.py", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"type": "file", "content": "not-base64!!!"}`)
		})
		mux.HandleFunc("/repos/octocat/hello-world/contents/logo.png", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"type": "file", "content": "`+binary+`"}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		undecodable, err1 := client.FileContent(context.Background(), "bad.py")
		nonText, err2 := client.FileContent(context.Background(), "logo.png")

		// then
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Empty(t, undecodable)
		assert.Empty(t, nonText)
	})

	t.Run("should fetch oversized files through the blob API", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		repoHandler(mux)
		mux.HandleFunc("/repos/octocat/hello-world/contents/big.py", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("ref") == "main" {
				writeJSON(w, http.StatusOK, `{"type": "file", "sha": "blob-sha-1"}`)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", "4999")
			writeJSON(w, http.StatusForbidden, `{"message": "This API returns blobs up to 1 MB in size."}`)
		})
		mux.HandleFunc("/repos/octocat/hello-world/git/blobs/blob-sha-1", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"content": "aGVsbG8=", "encoding": "base64"}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		content, err := client.FileContent(context.Background(), "big.py")

		// then
		require.NoError(t, err)
		assert.Equal(t, "hello", content)
	})

	t.Run("should treat an unresolvable blob SHA as absent content", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		repoHandler(mux)
		mux.HandleFunc("/repos/octocat/hello-world/contents/big.py", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("ref") == "main" {
				writeJSON(w, http.StatusOK, `{"type": "file"}`)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", "4999")
			writeJSON(w, http.StatusForbidden, `{"message": "This API returns blobs up to 1 MB in size."}`)
		})
		client, _ := newTestClient(t, mux)

		// when
		content, err := client.FileContent(context.Background(), "big.py")

		// then
		require.NoError(t, err)
		assert.Empty(t, content)
	})
}
