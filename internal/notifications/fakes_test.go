package notifications

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/finchmedia/notifier/internal/media"
)

// fakeCatalog serves items from memory.
type fakeCatalog struct {
	items    map[uuid.UUID]*media.Item
	episodes map[uuid.UUID][]media.Item
	library  []media.Item
	err      error
}

func (f *fakeCatalog) ItemByID(_ context.Context, id uuid.UUID) (*media.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[id], nil
}

func (f *fakeCatalog) EpisodesOf(_ context.Context, seriesID uuid.UUID) ([]media.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.episodes[seriesID], nil
}

func (f *fakeCatalog) ItemsByKind(_ context.Context, kinds ...media.Kind) ([]media.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[media.Kind]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}
	var result []media.Item
	for _, item := range f.library {
		if wanted[item.Kind] {
			result = append(result, item)
		}
	}
	return result, nil
}

// fakeHistory holds watch state keyed by (user, item).
type fakeHistory struct {
	data map[uuid.UUID]map[uuid.UUID]*media.UserItemData
	err  error
}

func (f *fakeHistory) UserItemData(_ context.Context, userID, itemID uuid.UUID) (*media.UserItemData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[userID][itemID], nil
}

func (f *fakeHistory) setPlayed(userID, itemID uuid.UUID) {
	f.set(userID, itemID, &media.UserItemData{Played: true})
}

func (f *fakeHistory) set(userID, itemID uuid.UUID, data *media.UserItemData) {
	if f.data == nil {
		f.data = make(map[uuid.UUID]map[uuid.UUID]*media.UserItemData)
	}
	if f.data[userID] == nil {
		f.data[userID] = make(map[uuid.UUID]*media.UserItemData)
	}
	f.data[userID][itemID] = data
}

// fakeDirectory lists a fixed user set.
type fakeDirectory struct {
	users []media.User
	err   error
}

func (f *fakeDirectory) ListUsers(context.Context) ([]media.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

// fakeCreator records created notifications, optionally failing per user.
type fakeCreator struct {
	mu      sync.Mutex
	created []*Notification
	failFor map[uuid.UUID]error
}

func (f *fakeCreator) Create(_ context.Context, n *Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[n.UserID]; ok {
		return err
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeCreator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeCreator) all() []*Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Notification(nil), f.created...)
}

// allowAll scores every user as notifiable unless the level is disabled.
type allowAll struct{}

func (allowAll) ShouldNotify(_ context.Context, _ uuid.UUID, _ media.Item, level Level) bool {
	return level != LevelDisabled
}
