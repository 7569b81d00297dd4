package hn_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn-digest/hn"
	"hn-digest/models"
)

func newTestServer(t *testing.T, items map[int64]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[1, 2, 3, 4]`)
	})
	for id, body := range items {
		body := body
		mux.HandleFunc(fmt.Sprintf("/item/%d.json", id), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})
	}
	return httptest.NewServer(mux)
}

func TestFetchStoriesSortsByScoreAndSkipsInvalid(t *testing.T) {
	srv := newTestServer(t, map[int64]string{
		1: `{"id":1,"title":"Low","url":"https://a.example","score":10,"by":"u1","time":1,"type":"story"}`,
		2: `{"id":2,"title":"High","url":"https://b.example","score":300,"by":"u2","time":2,"type":"story"}`,
		3: `{"id":3,"title":"Dead","score":999,"by":"u3","time":3,"type":"story","dead":true}`,
		4: `null`,
	})
	defer srv.Close()

	client := hn.NewClient(hn.WithBaseURL(srv.URL))
	stories, err := client.FetchStories(context.Background(), models.StoryTypeTop, 10)
	require.NoError(t, err)

	require.Len(t, stories, 2)
	assert.Equal(t, int64(2), stories[0].ID)
	assert.Equal(t, int64(1), stories[1].ID)
}

func TestFetchStoriesAppliesCount(t *testing.T) {
	srv := newTestServer(t, map[int64]string{
		1: `{"id":1,"title":"A","score":10,"by":"u","time":1,"type":"story"}`,
		2: `{"id":2,"title":"B","score":20,"by":"u","time":2,"type":"story"}`,
	})
	defer srv.Close()

	client := hn.NewClient(hn.WithBaseURL(srv.URL))
	stories, err := client.FetchStories(context.Background(), models.StoryTypeTop, 2)
	require.NoError(t, err)
	assert.Len(t, stories, 2)
}

func TestFetchStoriesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := hn.NewClient(hn.WithBaseURL(srv.URL))
	_, err := client.FetchStories(context.Background(), models.StoryTypeTop, 10)
	assert.ErrorIs(t, err, hn.ErrUnreachable)
}

func TestFetchStoriesUnreachableServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := hn.NewClient(hn.WithBaseURL(url))
	_, err := client.FetchStories(context.Background(), models.StoryTypeTop, 10)
	assert.ErrorIs(t, err, hn.ErrUnreachable)
}

func TestStorySkipsNonStoryItems(t *testing.T) {
	srv := newTestServer(t, map[int64]string{
		1: `{"id":1,"text":"a comment","score":0,"by":"u","time":1,"type":"comment"}`,
	})
	defer srv.Close()

	client := hn.NewClient(hn.WithBaseURL(srv.URL))
	story, err := client.Story(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, story)
}

func TestStoryTypeEndpoints(t *testing.T) {
	assert.Equal(t, "/topstories.json", models.StoryTypeTop.Endpoint())
	assert.Equal(t, "/askstories.json", models.StoryTypeAsk.Endpoint())

	_, err := models.ParseStoryType("weird")
	assert.Error(t, err)
}
