package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"social-prospector-go/internal/model"
	"social-prospector-go/internal/profile"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "video", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"vid1"},"snippet":{"title":"Kitchen remodel walkthrough"}},
			{"id":{"kind":"youtube#video","videoId":"vid2"},"snippet":{"title":"Basement tour"}}
		]}`))
	})
	mux.HandleFunc("/youtube/v3/commentThreads", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("videoId") {
		case "vid1":
			_, _ = w.Write([]byte(`{"items":[
				{"id":"cm1","snippet":{"topLevelComment":{"snippet":{
					"textDisplay":"Looking for a contractor in Denver",
					"authorDisplayName":"homeowner42",
					"publishedAt":"2024-05-01T10:00:00Z"}}}}
			]}`))
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"comments disabled"}}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCollect(t *testing.T) {
	srv := newTestServer(t)
	svc, err := NewService(context.Background(), "test-key",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	p := &profile.Profile{YouTubeQueries: []string{"kitchen remodel denver", "basement finishing"}}
	c := NewCollector(svc, p, 0)
	assert.Equal(t, "youtube", c.Name())

	got, err := c.Collect(context.Background())
	require.NoError(t, err)

	// both queries return the same videos; each video is read once
	require.Len(t, got, 1)
	cand := got[0]
	assert.Equal(t, model.PlatformYouTube, cand.Platform)
	assert.Equal(t, model.CategoryUnscoped, cand.Category)
	assert.Equal(t, "homeowner42", cand.Author)
	assert.Equal(t, "Looking for a contractor in Denver", cand.Text)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1&lc=cm1", cand.URL)
	assert.Equal(t, "YouTube: Kitchen remodel walkthrough", cand.SourceLabel)
	assert.True(t, cand.PostedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	assert.False(t, cand.Competitor)
}

func TestCollectSearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	svc, err := NewService(context.Background(), "test-key",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	c := NewCollector(svc, &profile.Profile{YouTubeQueries: []string{"deck builder"}}, 3)
	got, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"deck builder"`)
	assert.Empty(t, got)
}

func TestCommentURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", commentURL("abc", ""))
	assert.Equal(t, "https://www.youtube.com/watch?v=abc&lc=Ugx1", commentURL("abc", "Ugx1"))
}
