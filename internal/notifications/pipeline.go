package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchmedia/notifier/internal/media"
)

// Creator is the write side of the store the pipeline needs.
type Creator interface {
	Create(ctx context.Context, n *Notification) error
}

// Scorer decides per-user relevance. Satisfied by *Analyzer.
type Scorer interface {
	ShouldNotify(ctx context.Context, userID uuid.UUID, item media.Item, level Level) bool
}

// IntakeConfig is the configuration snapshot handed to the pipeline at
// construction. A zero value leaves every category disabled, so intake is
// inert rather than crashing when configuration is unavailable.
type IntakeConfig struct {
	Levels        Levels
	RetentionDays int
	SettleDelay   time.Duration
}

// Intake turns catalog item-added events into persisted notifications.
// Each event is handled on its own goroutine after a settle delay; the
// suppression map is the only shared mutable state.
type Intake struct {
	catalog media.Catalog
	users   media.Directory
	scorer  Scorer
	store   Creator
	cfg     IntakeConfig
	logger  *slog.Logger
	recent  *seriesMarks

	// ctx bounds the lifetime of in-flight event processing. Events cut off
	// by shutdown are accepted lost work, not redelivered.
	ctx context.Context
}

// NewIntake wires the pipeline. The context bounds background processing;
// cancel it to stop accepting and processing events.
func NewIntake(
	ctx context.Context,
	catalog media.Catalog,
	users media.Directory,
	scorer Scorer,
	store Creator,
	cfg IntakeConfig,
	logger *slog.Logger,
) *Intake {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	return &Intake{
		catalog: catalog,
		users:   users,
		scorer:  scorer,
		store:   store,
		cfg:     cfg,
		logger:  logger,
		recent:  newSeriesMarks(),
		ctx:     ctx,
	}
}

// ItemAdded is the inbound port the host catalog pushes add-events through.
// It returns immediately; classification and fan-out run in the background
// after the settle delay so item metadata has time to land.
func (in *Intake) ItemAdded(itemID uuid.UUID) {
	go func() {
		select {
		case <-time.After(in.cfg.SettleDelay):
		case <-in.ctx.Done():
			return
		}
		in.handleItemAdded(in.ctx, itemID)
	}()
}

// classification is the outcome of mapping an added item onto a
// notification.
type classification struct {
	typ     Type
	level   Level
	title   string
	message string
}

func (in *Intake) handleItemAdded(ctx context.Context, itemID uuid.UUID) {
	item, err := in.catalog.ItemByID(ctx, itemID)
	if err != nil {
		in.logger.Error("intake: item lookup failed", "item_id", itemID, "error", err)
		return
	}
	if item == nil {
		// Removed again before the settle delay elapsed.
		in.logger.Warn("intake: item not found after settle delay", "item_id", itemID)
		return
	}

	class, ok := in.classify(item)
	if !ok {
		return
	}

	users, err := in.users.ListUsers(ctx)
	if err != nil {
		in.logger.Error("intake: user listing failed", "item_id", itemID, "error", err)
		return
	}

	created := 0
	for _, user := range users {
		if !in.scorer.ShouldNotify(ctx, user.ID, *item, class.level) {
			in.logger.Debug("intake: user below relevance level",
				"user_id", user.ID, "title", class.title, "level", class.level)
			continue
		}

		now := time.Now().UTC()
		n := &Notification{
			ID:        uuid.New(),
			UserID:    user.ID,
			Type:      class.typ,
			Title:     class.title,
			Message:   class.message,
			ItemID:    &item.ID,
			CreatedAt: now,
			ExpiresAt: now.Add(Retention(in.cfg.RetentionDays)),
		}
		if err := in.store.Create(ctx, n); err != nil {
			// One failed write must not abort the rest of the fan-out.
			in.logger.Error("intake: create notification failed",
				"user_id", user.ID, "title", class.title, "error", err)
			continue
		}
		created++
		in.logger.Info("intake: notification created",
			"notification_id", n.ID, "user_id", user.ID,
			"type", n.Type, "title", n.Title, "level", class.level)
	}

	in.logger.Info("intake: fan-out complete",
		"item_id", itemID, "type", class.typ, "users", len(users), "created", created)

	in.recent.sweep(time.Now().Add(-suppressionMaxAge))
}

// classify maps an item onto a notification type, title, and message, and
// applies the level short-circuit plus per-series burst suppression.
// Suppression is recorded at classification time, before fan-out, so a
// burst collapses even when no user ends up qualifying.
func (in *Intake) classify(item *media.Item) (classification, bool) {
	switch item.Kind {
	case media.KindMovie:
		if in.cfg.Levels.Movie == LevelDisabled {
			return classification{}, false
		}
		return classification{
			typ:     TypeNewMovie,
			level:   in.cfg.Levels.Movie,
			title:   item.Name,
			message: addedMessage(labelWithYear(item.Name, item.ProductionYear)),
		}, true

	case media.KindEpisode:
		if in.cfg.Levels.Series == LevelDisabled {
			return classification{}, false
		}
		if item.SeriesID == nil {
			in.logger.Warn("intake: episode has no series linked", "episode", item.Name)
			return classification{}, false
		}
		if in.recent.recentlyNotified(*item.SeriesID, suppressionWindow) {
			in.logger.Debug("intake: suppressing bulk episode add", "series", item.SeriesName)
			return classification{}, false
		}
		in.recent.mark(*item.SeriesID)
		label := fmt.Sprintf("%s S%02dE%02d - %s",
			item.SeriesName, item.SeasonNumber, item.EpisodeNumber, item.Name)
		return classification{
			typ:     TypeNewEpisode,
			level:   in.cfg.Levels.Series,
			title:   item.SeriesName,
			message: addedMessage(label),
		}, true

	case media.KindSeason:
		if in.cfg.Levels.Series == LevelDisabled {
			return classification{}, false
		}
		if item.SeriesID == nil {
			in.logger.Warn("intake: season has no series linked", "season", item.Name)
			return classification{}, false
		}
		if strings.Contains(item.Name, unknownSeasonMarker) {
			// Transient scan artifact, not a real season.
			in.logger.Debug("intake: skipping placeholder season", "season", item.Name)
			return classification{}, false
		}
		if in.recent.recentlyNotified(*item.SeriesID, suppressionWindow) {
			in.logger.Debug("intake: suppressing bulk season add", "series", item.SeriesName)
			return classification{}, false
		}
		in.recent.mark(*item.SeriesID)
		label := fmt.Sprintf("%s Season %d", item.SeriesName, item.SeasonNumber)
		return classification{
			typ:     TypeNewSeason,
			level:   in.cfg.Levels.Series,
			title:   item.SeriesName,
			message: addedMessage(label),
		}, true

	case media.KindMusicAlbum:
		if in.cfg.Levels.Music == LevelDisabled {
			return classification{}, false
		}
		artist := unknownArtist
		if len(item.AlbumArtists) > 0 {
			artist = item.AlbumArtists[0]
		}
		label := labelWithYear(fmt.Sprintf("%s - %s", artist, item.Name), item.ProductionYear)
		return classification{
			typ:     TypeNewAlbum,
			level:   in.cfg.Levels.Music,
			title:   item.Name,
			message: addedMessage(label),
		}, true
	}

	// Series creations, books, and anything else are not classified.
	return classification{}, false
}

func addedMessage(label string) string {
	return fmt.Sprintf("%s has been added to the library", label)
}

func labelWithYear(label string, year int) string {
	if year > 0 {
		return fmt.Sprintf("%s (%d)", label, year)
	}
	return label
}
