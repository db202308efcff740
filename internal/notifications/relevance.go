package notifications

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finchmedia/notifier/internal/media"
)

// Analyzer derives notification relevance from a user's watch history.
// It is stateless per call: favorite genres are recomputed on every
// evaluation rather than cached, which is acceptable because the analyzer
// only runs on the add-event path.
//
// Every collaborator failure is logged and treated as "not relevant" —
// suppressing a notification is preferred over over-notifying.
type Analyzer struct {
	catalog media.Catalog
	history media.History
	logger  *slog.Logger
}

// NewAnalyzer creates an Analyzer over the catalog and watch-history ports.
func NewAnalyzer(catalog media.Catalog, history media.History, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{catalog: catalog, history: history, logger: logger}
}

// HasWatchedSeries reports whether the user has played any episode of the
// series, or has nonzero playback position on one.
func (a *Analyzer) HasWatchedSeries(ctx context.Context, userID, seriesID uuid.UUID) bool {
	episodes, err := a.catalog.EpisodesOf(ctx, seriesID)
	if err != nil {
		a.logger.Warn("relevance: list episodes failed", "series_id", seriesID, "error", err)
		return false
	}

	for _, ep := range episodes {
		data := a.userData(ctx, userID, ep.ID)
		if data == nil {
			continue
		}
		if data.Played || data.PlaybackPositionTicks > 0 {
			return true
		}
	}
	return false
}

// IsActivelyWatchingSeries reports whether the user has an episode of the
// series in progress: partially watched, not finished, not unstarted.
func (a *Analyzer) IsActivelyWatchingSeries(ctx context.Context, userID, seriesID uuid.UUID) bool {
	episodes, err := a.catalog.EpisodesOf(ctx, seriesID)
	if err != nil {
		a.logger.Warn("relevance: list episodes failed", "series_id", seriesID, "error", err)
		return false
	}

	for _, ep := range episodes {
		data := a.userData(ctx, userID, ep.ID)
		if data == nil {
			continue
		}
		if data.PlaybackPositionTicks > 0 && data.PlaybackPositionTicks < ep.RuntimeTicks {
			return true
		}
	}
	return false
}

// FavoriteGenres aggregates genre counts across the user's fully played
// movies and episodes. A genre qualifies once its count reaches
// minWatchCount (<= 0 uses the default of 3).
func (a *Analyzer) FavoriteGenres(ctx context.Context, userID uuid.UUID, minWatchCount int) map[string]struct{} {
	if minWatchCount <= 0 {
		minWatchCount = minGenreWatchCount
	}

	favorites := make(map[string]struct{})
	items, err := a.catalog.ItemsByKind(ctx, media.KindMovie, media.KindEpisode)
	if err != nil {
		a.logger.Warn("relevance: list watched candidates failed", "user_id", userID, "error", err)
		return favorites
	}

	counts := make(map[string]int)
	for _, item := range items {
		data := a.userData(ctx, userID, item.ID)
		if data == nil || !data.Played {
			continue
		}
		for _, genre := range item.Genres {
			counts[genre]++
		}
	}

	for genre, count := range counts {
		if count >= minWatchCount {
			favorites[genre] = struct{}{}
		}
	}
	return favorites
}

// MovieRelevanceScore counts how many of the movie's genres intersect the
// user's favorite genres. Zero when the user has no qualifying genres.
func (a *Analyzer) MovieRelevanceScore(ctx context.Context, userID uuid.UUID, movie media.Item) int {
	favorites := a.FavoriteGenres(ctx, userID, minGenreWatchCount)
	if len(favorites) == 0 {
		return 0
	}

	score := 0
	for _, genre := range movie.Genres {
		if _, ok := favorites[genre]; ok {
			score++
		}
	}
	return score
}

// ShouldNotify is the per-user decision for one added item at a verbosity
// level. Movies use genre-overlap scoring; episodes and seasons use series
// watch state. Kinds outside the decision table (albums among them) only
// notify at LevelAll.
func (a *Analyzer) ShouldNotify(ctx context.Context, userID uuid.UUID, item media.Item, level Level) bool {
	switch level {
	case LevelDisabled:
		return false
	case LevelAll:
		return true
	}

	switch item.Kind {
	case media.KindMovie:
		score := a.MovieRelevanceScore(ctx, userID, item)
		if level == LevelHighlyRelevant {
			return score >= 2
		}
		return score > 0

	case media.KindEpisode, media.KindSeason:
		if item.SeriesID == nil {
			return false
		}
		if level == LevelHighlyRelevant {
			return a.IsActivelyWatchingSeries(ctx, userID, *item.SeriesID)
		}
		return a.HasWatchedSeries(ctx, userID, *item.SeriesID)
	}

	return false
}

// userData fetches watch state for one user/item pair, logging and
// swallowing lookup failures.
func (a *Analyzer) userData(ctx context.Context, userID, itemID uuid.UUID) *media.UserItemData {
	data, err := a.history.UserItemData(ctx, userID, itemID)
	if err != nil {
		a.logger.Warn("relevance: user data lookup failed",
			"user_id", userID, "item_id", itemID, "error", err)
		return nil
	}
	return data
}
