package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimk/coursecompass/internal/pkg/apperrors"
)

func TestFetchCourses(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/website/ReadCourseDetails", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"SubjectGroupName": "Science", "SemesterName": "Third", "SubjectName": "Physics", "PaperName": "Mechanics I", "Credits": 4},
				{"SubjectGroupName": "Arts", "SemesterName": "Third", "SubjectName": "History", "PaperName": "Modern History"}
			]`))
		}))
		defer server.Close()

		client := NewClient(5 * time.Second)
		courses, err := client.FetchCourses(ctx, server.URL)
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, "Science", courses[0].SubjectGroupName())
		assert.Equal(t, "Third", courses[0].SemesterName())
		// Fields outside the known pair are preserved verbatim.
		assert.Equal(t, float64(4), courses[0]["Credits"])
	})

	t.Run("EmptyCatalog", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewClient(5 * time.Second)
		courses, err := client.FetchCourses(ctx, server.URL)
		require.NoError(t, err)
		assert.Empty(t, courses)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(5 * time.Second)
		_, err := client.FetchCourses(ctx, server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrCatalogFetch)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not": "an array"}`))
		}))
		defer server.Close()

		client := NewClient(5 * time.Second)
		_, err := client.FetchCourses(ctx, server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrCatalogFetch)
	})

	t.Run("UnreachableHost", func(t *testing.T) {
		client := NewClient(500 * time.Millisecond)
		_, err := client.FetchCourses(ctx, "http://127.0.0.1:1")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrCatalogFetch)
	})
}
