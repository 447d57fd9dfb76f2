package library

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"plexbrowse/internal/cache"
	"plexbrowse/internal/plex"
)

// Upstream is the subset of the Plex client the service reads from.
type Upstream interface {
	Sections(ctx context.Context) (*plex.MediaContainer, error)
	SectionAll(ctx context.Context, sectionID string) (*plex.MediaContainer, error)
	Children(ctx context.Context, ratingKey string) (*plex.MediaContainer, error)
	RefreshSection(ctx context.Context, sectionID, path string) error
}

// Service serves normalized library listings, caching each one for ttl.
type Service struct {
	upstream Upstream
	cache    *cache.Cache
	ttl      time.Duration
	logger   zerolog.Logger

	sectionItems   func(ctx context.Context, sectionID string) (SectionItems, error)
	showSeasons    func(ctx context.Context, showID string) (ShowSeasons, error)
	seasonEpisodes func(ctx context.Context, seasonID string) (SeasonEpisodes, error)
}

func NewService(upstream Upstream, c *cache.Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	s := &Service{
		upstream: upstream,
		cache:    c,
		ttl:      ttl,
		logger:   logger.With().Str("component", "library").Logger(),
	}

	s.sectionItems = cache.Memoize(c, "section_items", ttl, func(ctx context.Context, id string) (SectionItems, error) {
		mc, err := s.upstream.SectionAll(ctx, id)
		if err != nil {
			return SectionItems{}, err
		}
		return NewSectionItems(id, mc), nil
	})
	s.showSeasons = cache.Memoize(c, "show_seasons", ttl, func(ctx context.Context, id string) (ShowSeasons, error) {
		mc, err := s.upstream.Children(ctx, id)
		if err != nil {
			return ShowSeasons{}, err
		}
		return NewShowSeasons(id, mc), nil
	})
	s.seasonEpisodes = cache.Memoize(c, "season_episodes", ttl, func(ctx context.Context, id string) (SeasonEpisodes, error) {
		mc, err := s.upstream.Children(ctx, id)
		if err != nil {
			return SeasonEpisodes{}, err
		}
		return NewSeasonEpisodes(id, mc), nil
	})

	return s
}

func (s *Service) Sections(ctx context.Context) ([]Section, error) {
	return cache.Fetch(s.cache, cache.Key("sections"), s.ttl, func() ([]Section, error) {
		mc, err := s.upstream.Sections(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return Sections(mc), nil
	})
}

func (s *Service) SectionItems(ctx context.Context, sectionID string) (SectionItems, error) {
	return s.sectionItems(ctx, sectionID)
}

func (s *Service) ShowSeasons(ctx context.Context, showID string) (ShowSeasons, error) {
	return s.showSeasons(ctx, showID)
}

func (s *Service) SeasonEpisodes(ctx context.Context, seasonID string) (SeasonEpisodes, error) {
	return s.seasonEpisodes(ctx, seasonID)
}

// Refresh triggers a rescan of a section and, once the server accepts it,
// drops every cached listing.
func (s *Service) Refresh(ctx context.Context, sectionID, path string) error {
	if err := s.upstream.RefreshSection(ctx, sectionID, path); err != nil {
		return err
	}

	s.cache.Clear()
	s.logger.Info().
		Str("section_id", sectionID).
		Str("path", path).
		Msg("library refresh triggered, cache cleared")

	return nil
}

func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info().Msg("cache cleared")
}

func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}
