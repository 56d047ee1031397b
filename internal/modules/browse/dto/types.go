package dto

type EntryOutput struct {
	ID       string
	Kind     string
	Title    string
	Label    string
	Watched  bool
	Finished bool
}

type SectionOutput struct {
	Title string
	Start int
}

type NodeOutput struct {
	Kind     string
	Title    string
	Depth    int
	Entries  []EntryOutput
	Sections []SectionOutput
	Selected int
}

// PlayRequestOutput is emitted when opening a playable entry: navigation does
// not push a frame, it hands the item off for playback.
type PlayRequestOutput struct {
	ItemID     string
	Title      string
	ResumeSecs float64
}

type OpenOutput struct {
	// Play is non-nil when the selection resolved to a playable item.
	Play *PlayRequestOutput
	Node NodeOutput
}
