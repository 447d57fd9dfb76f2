package library

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexbrowse/internal/cache"
	"plexbrowse/internal/plex"
)

type fakeUpstream struct {
	mu         sync.Mutex
	calls      map[string]int
	err        error
	refreshErr error
	refreshed  []string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{calls: make(map[string]int)}
}

func (f *fakeUpstream) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeUpstream) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeUpstream) Sections(ctx context.Context) (*plex.MediaContainer, error) {
	if err := f.record("sections"); err != nil {
		return nil, err
	}
	return &plex.MediaContainer{Directory: []plex.Directory{{Key: "1", Title: "Movies", Type: "movie"}}}, nil
}

func (f *fakeUpstream) SectionAll(ctx context.Context, sectionID string) (*plex.MediaContainer, error) {
	if err := f.record("all:" + sectionID); err != nil {
		return nil, err
	}
	return &plex.MediaContainer{Title1: "Movies", Metadata: []plex.Metadata{{RatingKey: "10", Title: "Alien", Type: "movie"}}}, nil
}

func (f *fakeUpstream) Children(ctx context.Context, ratingKey string) (*plex.MediaContainer, error) {
	if err := f.record("children:" + ratingKey); err != nil {
		return nil, err
	}
	return &plex.MediaContainer{ParentTitle: "Parent", GrandparentTitle: "Grandparent", Metadata: []plex.Metadata{{RatingKey: "11", Title: "Child", Index: 3}}}, nil
}

func (f *fakeUpstream) RefreshSection(ctx context.Context, sectionID, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.refreshed = append(f.refreshed, sectionID+"|"+path)
	return nil
}

func newTestService(up Upstream) (*Service, *cache.Cache) {
	c := cache.New("library-test")
	return NewService(up, c, time.Minute, zerolog.Nop()), c
}

func TestService_CachesListings(t *testing.T) {
	up := newFakeUpstream()
	svc, _ := newTestService(up)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sections, err := svc.Sections(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Section{{ID: "1", Title: "Movies", Type: "movie"}}, sections)

		items, err := svc.SectionItems(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Movies", items.Title)
	}

	assert.Equal(t, 1, up.count("sections"))
	assert.Equal(t, 1, up.count("all:1"))
}

func TestService_SeasonsAndEpisodesUseSeparateKeys(t *testing.T) {
	up := newFakeUpstream()
	svc, c := newTestService(up)
	ctx := context.Background()

	seasons, err := svc.ShowSeasons(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Parent", seasons.Title)

	episodes, err := svc.SeasonEpisodes(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Grandparent", episodes.ShowTitle)
	assert.Equal(t, "Parent", episodes.SeasonTitle)

	assert.Equal(t, 2, up.count("children:42"))
	assert.Equal(t, 2, c.Len())
}

func TestService_RefreshClearsCache(t *testing.T) {
	up := newFakeUpstream()
	svc, c := newTestService(up)
	ctx := context.Background()

	_, err := svc.Sections(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	require.NoError(t, svc.Refresh(ctx, "5", "/movies/new"))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, []string{"5|/movies/new"}, up.refreshed)

	_, err = svc.Sections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, up.count("sections"))
}

func TestService_RefreshFailureKeepsCache(t *testing.T) {
	up := newFakeUpstream()
	up.refreshErr = errors.New("refused")
	svc, c := newTestService(up)
	ctx := context.Background()

	_, err := svc.Sections(ctx)
	require.NoError(t, err)

	assert.Error(t, svc.Refresh(ctx, "5", ""))
	assert.Equal(t, 1, c.Len())
}

func TestService_UpstreamErrorNotCached(t *testing.T) {
	up := newFakeUpstream()
	up.err = errors.New("down")
	svc, c := newTestService(up)
	ctx := context.Background()

	_, err := svc.Sections(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())

	up.mu.Lock()
	up.err = nil
	up.mu.Unlock()

	_, err = svc.Sections(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, up.count("sections"))
}
