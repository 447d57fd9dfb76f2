package library

type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Item is a movie or show inside a section.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Path  string `json:"path,omitempty"`
}

type Season struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Index int    `json:"index"`
}

type Episode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Index int    `json:"index"`
	Path  string `json:"path,omitempty"`
}

type SectionItems struct {
	Title     string `json:"title"`
	Items     []Item `json:"items"`
	SectionID string `json:"section_id"`
}

type ShowSeasons struct {
	Title   string   `json:"title"`
	Seasons []Season `json:"seasons"`
	ShowID  string   `json:"show_id"`
}

type SeasonEpisodes struct {
	ShowTitle   string    `json:"show_title"`
	SeasonTitle string    `json:"season_title"`
	Episodes    []Episode `json:"episodes"`
	SeasonID    string    `json:"season_id"`
}
