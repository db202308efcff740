// Package notifications generates, stores, and expires per-user
// notifications triggered by additions to the media catalog.
//
// Pipeline: settle delay → resolve & classify item → per-series burst
// suppression → per-user relevance filter → persist. The store enforces
// retention at read time and a maintenance ticker physically deletes
// expired rows.
package notifications

import (
	"time"

	"github.com/google/uuid"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// DefaultRetentionDays is used when the configured retention is <= 0.
	DefaultRetentionDays = 7

	// DefaultSettleDelay gives the catalog time to finish metadata
	// resolution before an added item is classified.
	DefaultSettleDelay = 2 * time.Second

	// suppressionWindow collapses bulk episode/season adds for one series
	// into a single notification.
	suppressionWindow = 5 * time.Minute

	// suppressionMaxAge bounds the suppression map; entries older than this
	// are dropped after each fan-out.
	suppressionMaxAge = time.Hour

	// pageSize caps ListForUser results.
	pageSize = 100

	// minGenreWatchCount is how many played items a genre needs before it
	// counts as a favorite.
	minGenreWatchCount = 3
)

// unknownSeasonMarker flags placeholder seasons produced by library scans.
// Their names contain "Unknown" and they never yield notifications.
const unknownSeasonMarker = "Unknown"

// unknownArtist labels albums with no artist attribution.
const unknownArtist = "Unknown Artist"

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Type identifies what kind of addition a notification describes.
type Type string

const (
	TypeNewMovie      Type = "NewMovie"
	TypeNewEpisode    Type = "NewEpisode"
	TypeNewSeason     Type = "NewSeason"
	TypeNewSeries     Type = "NewSeries"
	TypeNewAlbum      Type = "NewAlbum"
	TypeLibraryUpdate Type = "LibraryUpdate"
	TypeCustom        Type = "Custom"
)

// Level controls how aggressively a category generates notifications.
type Level int

const (
	LevelDisabled Level = iota
	LevelAll
	LevelRelevant
	LevelHighlyRelevant
)

var levelNames = map[Level]string{
	LevelDisabled:       "disabled",
	LevelAll:            "all",
	LevelRelevant:       "relevant",
	LevelHighlyRelevant: "highly_relevant",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "disabled"
}

// ParseLevel maps a config string to a Level. Unrecognized values fall back
// to the given default so a typo disables a category rather than crashing.
func ParseLevel(s string, fallback Level) Level {
	for level, name := range levelNames {
		if name == s {
			return level
		}
	}
	return fallback
}

// Notification is the persisted record of one media addition for one user.
// Append-only except for ReadAt and DeliveredAt.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Type        Type       `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	ItemID      *uuid.UUID `json:"itemId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
}

// Read reports whether the notification has been consumed.
func (n *Notification) Read() bool { return n.ReadAt != nil }

// Levels holds the per-category verbosity settings. A snapshot is handed to
// the intake pipeline at construction; there is no ambient lookup.
type Levels struct {
	Movie  Level
	Series Level
	Music  Level
	Book   Level
}

// Retention computes the expiry window from a configured day count,
// falling back to the default for zero or negative values.
func Retention(days int) time.Duration {
	if days <= 0 {
		days = DefaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}
