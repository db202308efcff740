// Package media defines the catalog item model and the collaborator ports
// the notification core depends on: the host catalog, its user directory,
// and its per-user watch-history service. Implementations live outside the
// core (see internal/mediahost for the HTTP client).
package media

import (
	"context"

	"github.com/google/uuid"
)

// Kind classifies a catalog item.
type Kind string

const (
	KindMovie      Kind = "Movie"
	KindEpisode    Kind = "Episode"
	KindSeason     Kind = "Season"
	KindSeries     Kind = "Series"
	KindMusicAlbum Kind = "MusicAlbum"
)

// Item is a catalog entry. Fields that only apply to some kinds are left
// zero-valued for the others (SeriesID is nil for movies and albums,
// AlbumArtists is empty outside music, and so on).
type Item struct {
	ID             uuid.UUID  `json:"id"`
	Kind           Kind       `json:"kind"`
	Name           string     `json:"name"`
	ProductionYear int        `json:"productionYear,omitempty"`
	SeriesID       *uuid.UUID `json:"seriesId,omitempty"`
	SeriesName     string     `json:"seriesName,omitempty"`
	SeasonNumber   int        `json:"seasonNumber,omitempty"`
	EpisodeNumber  int        `json:"episodeNumber,omitempty"`
	Genres         []string   `json:"genres,omitempty"`
	AlbumArtists   []string   `json:"albumArtists,omitempty"`
	RuntimeTicks   int64      `json:"runtimeTicks,omitempty"`
}

// User is a member of the host's user directory.
type User struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserItemData is one user's watch state for one item.
type UserItemData struct {
	Played                bool  `json:"played"`
	PlaybackPositionTicks int64 `json:"playbackPositionTicks"`
}

// Catalog resolves items from the host media catalog.
type Catalog interface {
	// ItemByID returns the item, or nil when it no longer exists.
	ItemByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// EpisodesOf returns every episode under a series.
	EpisodesOf(ctx context.Context, seriesID uuid.UUID) ([]Item, error)
	// ItemsByKind returns all items of the given kinds across the library.
	ItemsByKind(ctx context.Context, kinds ...Kind) ([]Item, error)
}

// Directory lists the users notifications fan out to.
type Directory interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// History exposes per-user watch state.
type History interface {
	// UserItemData returns the user's watch state for an item, or nil when
	// the user has no record for it.
	UserItemData(ctx context.Context, userID, itemID uuid.UUID) (*UserItemData, error)
}
