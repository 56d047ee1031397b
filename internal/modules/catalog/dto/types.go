package dto

type LoginInput struct {
	Username string
	Password string
}

type IdentityOutput struct {
	Token    string
	UserID   string
	Username string
}

type ItemOutput struct {
	ID           string
	Kind         string
	Title        string
	Label        string
	ParentID     string
	SeriesName   string
	PositionSecs float64
	RuntimeSecs  float64
	Watched      bool
	Finished     bool
}

type MarkerOutput struct {
	Kind      string
	StartSecs float64
	EndSecs   float64
	// FromChapters is true when the marker was reinterpreted from chapter
	// titles rather than served as segment data.
	FromChapters bool
}

type SearchInput struct {
	Query string
	// Kinds limits the result to these item kinds; empty means no limit.
	Kinds []string
}

type SetWatchedInput struct {
	ItemID  string
	Watched bool
}

// StreamOutput is a resolved playback target. The URL embeds the api key, so
// no extra auth is needed to open it.
type StreamOutput struct {
	URL             string
	PlaySessionID   string
	MediaSourceID   string
	StartOffsetSecs float64
}

type ProgressInput struct {
	ItemID        string
	PositionSecs  float64
	Paused        bool
	PlaySessionID string
	MediaSourceID string
}
