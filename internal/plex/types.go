package plex

// Response wraps the MediaContainer returned by every library endpoint.
type Response struct {
	MediaContainer MediaContainer `json:"MediaContainer"`
}

// MediaContainer is the outer object around a list of library entries.
// Only the fields the browser needs are decoded.
type MediaContainer struct {
	Size             int         `json:"size,omitempty"`
	Title1           string      `json:"title1,omitempty"`
	Title2           string      `json:"title2,omitempty"`
	ParentTitle      string      `json:"parentTitle,omitempty"`
	GrandparentTitle string      `json:"grandparentTitle,omitempty"`
	Directory        []Directory `json:"Directory,omitempty"`
	Metadata         []Metadata  `json:"Metadata,omitempty"`
}

// Directory is a library section in /library/sections.
type Directory struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Metadata is a movie, show, season or episode.
type Metadata struct {
	RatingKey string     `json:"ratingKey"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	Index     int        `json:"index,omitempty"`
	Media     []Media    `json:"Media,omitempty"`
	Location  []Location `json:"Location,omitempty"`
}

type Media struct {
	Part []Part `json:"Part,omitempty"`
}

type Part struct {
	File string `json:"file,omitempty"`
}

// Location is a show's folder on disk.
type Location struct {
	Path string `json:"path,omitempty"`
}
