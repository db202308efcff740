package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/finchmedia/notifier/internal/media"
)

// seriesFixture builds a series with two episodes registered in the catalog.
func seriesFixture(cat *fakeCatalog) (seriesID uuid.UUID, ep1, ep2 media.Item) {
	seriesID = uuid.New()
	ep1 = media.Item{ID: uuid.New(), Kind: media.KindEpisode, Name: "Pilot", SeriesID: &seriesID, RuntimeTicks: 1000}
	ep2 = media.Item{ID: uuid.New(), Kind: media.KindEpisode, Name: "Two", SeriesID: &seriesID, RuntimeTicks: 1000}
	if cat.episodes == nil {
		cat.episodes = make(map[uuid.UUID][]media.Item)
	}
	cat.episodes[seriesID] = []media.Item{ep1, ep2}
	return seriesID, ep1, ep2
}

// playedMovie registers a played movie with the given genres for the user.
func playedMovie(cat *fakeCatalog, hist *fakeHistory, userID uuid.UUID, genres ...string) {
	movie := media.Item{ID: uuid.New(), Kind: media.KindMovie, Genres: genres}
	cat.library = append(cat.library, movie)
	hist.setPlayed(userID, movie.ID)
}

func TestHasWatchedSeries(t *testing.T) {
	cat := &fakeCatalog{}
	hist := &fakeHistory{}
	seriesID, ep1, ep2 := seriesFixture(cat)

	played := uuid.New()
	hist.setPlayed(played, ep1.ID)

	partial := uuid.New()
	hist.set(partial, ep2.ID, &media.UserItemData{PlaybackPositionTicks: 42})

	fresh := uuid.New()

	a := NewAnalyzer(cat, hist, discardLogger())
	assert.True(t, a.HasWatchedSeries(context.Background(), played, seriesID))
	assert.True(t, a.HasWatchedSeries(context.Background(), partial, seriesID))
	assert.False(t, a.HasWatchedSeries(context.Background(), fresh, seriesID))
}

func TestHasWatchedSeriesFailsClosed(t *testing.T) {
	cat := &fakeCatalog{err: errors.New("catalog down")}
	a := NewAnalyzer(cat, &fakeHistory{}, discardLogger())
	assert.False(t, a.HasWatchedSeries(context.Background(), uuid.New(), uuid.New()))
}

func TestIsActivelyWatchingSeries(t *testing.T) {
	cat := &fakeCatalog{}
	hist := &fakeHistory{}
	seriesID, ep1, ep2 := seriesFixture(cat)

	inProgress := uuid.New()
	hist.set(inProgress, ep1.ID, &media.UserItemData{PlaybackPositionTicks: 500})

	// Position at the full runtime means finished, not in progress.
	finished := uuid.New()
	hist.set(finished, ep1.ID, &media.UserItemData{Played: true, PlaybackPositionTicks: ep1.RuntimeTicks})

	// Played flag alone, with position reset to zero, is not "actively
	// watching" either.
	playedOnly := uuid.New()
	hist.setPlayed(playedOnly, ep2.ID)

	a := NewAnalyzer(cat, hist, discardLogger())
	assert.True(t, a.IsActivelyWatchingSeries(context.Background(), inProgress, seriesID))
	assert.False(t, a.IsActivelyWatchingSeries(context.Background(), finished, seriesID))
	assert.False(t, a.IsActivelyWatchingSeries(context.Background(), playedOnly, seriesID))
}

func TestFavoriteGenres(t *testing.T) {
	cat := &fakeCatalog{}
	hist := &fakeHistory{}
	userID := uuid.New()

	playedMovie(cat, hist, userID, "Action", "Drama")
	playedMovie(cat, hist, userID, "Action")
	playedMovie(cat, hist, userID, "Action", "Drama")

	a := NewAnalyzer(cat, hist, discardLogger())
	favorites := a.FavoriteGenres(context.Background(), userID, 3)

	assert.Contains(t, favorites, "Action")
	assert.NotContains(t, favorites, "Drama") // only 2 plays
}

func TestFavoriteGenresIgnoresUnplayed(t *testing.T) {
	cat := &fakeCatalog{}
	hist := &fakeHistory{}
	userID := uuid.New()

	for range 3 {
		movie := media.Item{ID: uuid.New(), Kind: media.KindMovie, Genres: []string{"Horror"}}
		cat.library = append(cat.library, movie)
	}

	a := NewAnalyzer(cat, hist, discardLogger())
	assert.Empty(t, a.FavoriteGenres(context.Background(), userID, 3))
}

func TestMovieRelevanceScore(t *testing.T) {
	cat := &fakeCatalog{}
	hist := &fakeHistory{}
	userID := uuid.New()

	for range 3 {
		playedMovie(cat, hist, userID, "Action")
		playedMovie(cat, hist, userID, "Thriller")
	}

	a := NewAnalyzer(cat, hist, discardLogger())

	both := media.Item{Kind: media.KindMovie, Genres: []string{"Action", "Thriller", "Romance"}}
	one := media.Item{Kind: media.KindMovie, Genres: []string{"Action"}}
	none := media.Item{Kind: media.KindMovie, Genres: []string{"Romance"}}

	assert.Equal(t, 2, a.MovieRelevanceScore(context.Background(), userID, both))
	assert.Equal(t, 1, a.MovieRelevanceScore(context.Background(), userID, one))
	assert.Equal(t, 0, a.MovieRelevanceScore(context.Background(), userID, none))

	// A user with no favorites scores every movie at zero.
	assert.Equal(t, 0, a.MovieRelevanceScore(context.Background(), uuid.New(), both))
}

func TestShouldNotifyLevels(t *testing.T) {
	cat := &fakeCatalog{}
	hist := &fakeHistory{}
	userID := uuid.New()
	for range 3 {
		playedMovie(cat, hist, userID, "Action")
	}
	a := NewAnalyzer(cat, hist, discardLogger())

	actionMovie := media.Item{Kind: media.KindMovie, Genres: []string{"Action"}}
	doubleMatch := media.Item{Kind: media.KindMovie, Genres: []string{"Action", "Drama"}}

	t.Run("disabled never notifies", func(t *testing.T) {
		assert.False(t, a.ShouldNotify(context.Background(), userID, actionMovie, LevelDisabled))
	})

	t.Run("all always notifies", func(t *testing.T) {
		assert.True(t, a.ShouldNotify(context.Background(), uuid.New(), actionMovie, LevelAll))
	})

	t.Run("relevant movie needs any genre overlap", func(t *testing.T) {
		assert.True(t, a.ShouldNotify(context.Background(), userID, actionMovie, LevelRelevant))
		assert.False(t, a.ShouldNotify(context.Background(), uuid.New(), actionMovie, LevelRelevant))
	})

	t.Run("highly relevant movie needs two overlaps", func(t *testing.T) {
		assert.False(t, a.ShouldNotify(context.Background(), userID, actionMovie, LevelHighlyRelevant))

		for range 3 {
			playedMovie(cat, hist, userID, "Drama")
		}
		assert.True(t, a.ShouldNotify(context.Background(), userID, doubleMatch, LevelHighlyRelevant))
	})
}

func TestShouldNotifySeries(t *testing.T) {
	cat := &fakeCatalog{}
	hist := &fakeHistory{}
	seriesID, ep1, _ := seriesFixture(cat)

	watcher := uuid.New()
	hist.setPlayed(watcher, ep1.ID)

	active := uuid.New()
	hist.set(active, ep1.ID, &media.UserItemData{PlaybackPositionTicks: 500})

	a := NewAnalyzer(cat, hist, discardLogger())
	episode := media.Item{Kind: media.KindEpisode, SeriesID: &seriesID}

	assert.True(t, a.ShouldNotify(context.Background(), watcher, episode, LevelRelevant))
	assert.False(t, a.ShouldNotify(context.Background(), watcher, episode, LevelHighlyRelevant))
	assert.True(t, a.ShouldNotify(context.Background(), active, episode, LevelHighlyRelevant))
	assert.False(t, a.ShouldNotify(context.Background(), uuid.New(), episode, LevelRelevant))

	// Episodes with no series link cannot be scored.
	orphan := media.Item{Kind: media.KindEpisode}
	assert.False(t, a.ShouldNotify(context.Background(), watcher, orphan, LevelRelevant))
}

func TestShouldNotifyUnscoredKinds(t *testing.T) {
	a := NewAnalyzer(&fakeCatalog{}, &fakeHistory{}, discardLogger())
	album := media.Item{Kind: media.KindMusicAlbum, Name: "In Rainbows"}

	// Albums have no relevance model and only pass at the "all" level.
	assert.True(t, a.ShouldNotify(context.Background(), uuid.New(), album, LevelAll))
	assert.False(t, a.ShouldNotify(context.Background(), uuid.New(), album, LevelRelevant))
	assert.False(t, a.ShouldNotify(context.Background(), uuid.New(), album, LevelHighlyRelevant))
}

func TestShouldNotifyFailsClosedOnHistoryError(t *testing.T) {
	cat := &fakeCatalog{}
	hist := &fakeHistory{}
	userID := uuid.New()
	for range 3 {
		playedMovie(cat, hist, userID, "Action")
	}
	// History errors hide all watch state, so nothing qualifies as relevant.
	hist.err = errors.New("history down")

	a := NewAnalyzer(cat, hist, discardLogger())
	movie := media.Item{Kind: media.KindMovie, Genres: []string{"Action"}}
	assert.False(t, a.ShouldNotify(context.Background(), userID, movie, LevelRelevant))
}
