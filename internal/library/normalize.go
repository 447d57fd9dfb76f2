package library

import "plexbrowse/internal/plex"

// Sections flattens the Directory entries of /library/sections.
func Sections(mc *plex.MediaContainer) []Section {
	if mc == nil {
		return []Section{}
	}

	sections := make([]Section, 0, len(mc.Directory))
	for _, d := range mc.Directory {
		sections = append(sections, Section{
			ID:    d.Key,
			Title: d.Title,
			Type:  d.Type,
		})
	}
	return sections
}

// Items flattens the Metadata entries of a section listing.
func Items(mc *plex.MediaContainer) []Item {
	if mc == nil {
		return []Item{}
	}

	items := make([]Item, 0, len(mc.Metadata))
	for _, m := range mc.Metadata {
		items = append(items, Item{
			ID:    m.RatingKey,
			Title: m.Title,
			Type:  m.Type,
			Path:  filePath(m),
		})
	}
	return items
}

// Seasons flattens the children of a show.
func Seasons(mc *plex.MediaContainer) []Season {
	if mc == nil {
		return []Season{}
	}

	seasons := make([]Season, 0, len(mc.Metadata))
	for _, m := range mc.Metadata {
		seasons = append(seasons, Season{
			ID:    m.RatingKey,
			Title: m.Title,
			Index: m.Index,
		})
	}
	return seasons
}

// Episodes flattens the children of a season.
func Episodes(mc *plex.MediaContainer) []Episode {
	if mc == nil {
		return []Episode{}
	}

	episodes := make([]Episode, 0, len(mc.Metadata))
	for _, m := range mc.Metadata {
		episodes = append(episodes, Episode{
			ID:    m.RatingKey,
			Title: m.Title,
			Index: m.Index,
			Path:  filePath(m),
		})
	}
	return episodes
}

// filePath picks the first media part's file. Entries without media fall
// back to their first location, which is how shows report their folder.
func filePath(m plex.Metadata) string {
	if len(m.Media) > 0 {
		if parts := m.Media[0].Part; len(parts) > 0 {
			return parts[0].File
		}
		return ""
	}
	if len(m.Location) > 0 {
		return m.Location[0].Path
	}
	return ""
}

// NewSectionItems wraps a section listing with the section's title.
func NewSectionItems(sectionID string, mc *plex.MediaContainer) SectionItems {
	out := SectionItems{Items: Items(mc), SectionID: sectionID}
	if mc != nil {
		out.Title = mc.Title1
	}
	return out
}

// NewShowSeasons wraps a show's seasons with the show title.
func NewShowSeasons(showID string, mc *plex.MediaContainer) ShowSeasons {
	out := ShowSeasons{Seasons: Seasons(mc), ShowID: showID}
	if mc != nil {
		out.Title = mc.ParentTitle
	}
	return out
}

// NewSeasonEpisodes wraps a season's episodes with show and season titles.
func NewSeasonEpisodes(seasonID string, mc *plex.MediaContainer) SeasonEpisodes {
	out := SeasonEpisodes{Episodes: Episodes(mc), SeasonID: seasonID}
	if mc != nil {
		out.ShowTitle = mc.GrandparentTitle
		out.SeasonTitle = mc.ParentTitle
	}
	return out
}
