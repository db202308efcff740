package mediahost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchmedia/notifier/internal/media"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", time.Second, nil)
}

func TestItemByID(t *testing.T) {
	itemID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/"+itemID.String(), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		json.NewEncoder(w).Encode(media.Item{ID: itemID, Kind: media.KindMovie, Name: "Heat"})
	})

	item, err := client.ItemByID(context.Background(), itemID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Heat", item.Name)
	assert.Equal(t, media.KindMovie, item.Kind)
}

func TestItemByIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	item, err := client.ItemByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestItemByIDServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ItemByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestEpisodesOf(t *testing.T) {
	seriesID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/"+seriesID.String()+"/episodes", r.URL.Path)
		json.NewEncoder(w).Encode([]media.Item{
			{ID: uuid.New(), Kind: media.KindEpisode, Name: "One"},
			{ID: uuid.New(), Kind: media.KindEpisode, Name: "Two"},
		})
	})

	episodes, err := client.EpisodesOf(context.Background(), seriesID)
	require.NoError(t, err)
	assert.Len(t, episodes, 2)
}

func TestItemsByKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "Movie,Episode", r.URL.Query().Get("kinds"))
		json.NewEncoder(w).Encode([]media.Item{{ID: uuid.New(), Kind: media.KindMovie}})
	})

	items, err := client.ItemsByKind(context.Background(), media.KindMovie, media.KindEpisode)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListUsers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		json.NewEncoder(w).Encode([]media.User{{ID: uuid.New(), Name: "alice"}})
	})

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Name)
}

func TestUserItemData(t *testing.T) {
	userID, itemID := uuid.New(), uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/"+userID.String()+"/items/"+itemID.String()+"/data", r.URL.Path)
		json.NewEncoder(w).Encode(media.UserItemData{Played: true, PlaybackPositionTicks: 77})
	})

	data, err := client.UserItemData(context.Background(), userID, itemID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.True(t, data.Played)
	assert.Equal(t, int64(77), data.PlaybackPositionTicks)
}

func TestUserItemDataNoRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	data, err := client.UserItemData(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, data)
}
