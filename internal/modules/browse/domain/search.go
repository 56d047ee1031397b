package domain

// PartitionSearch orders search results for display: movies and shows first,
// then episodes, each group keeping the order the server returned. The
// returned sections mark the two groups when both are present.
func PartitionSearch(features, episodes []Entry) ([]Entry, []Section) {
	entries := make([]Entry, 0, len(features)+len(episodes))
	var sections []Section
	if len(features) > 0 {
		sections = append(sections, Section{Title: "Movies & Shows", Start: 0})
		entries = append(entries, features...)
	}
	if len(episodes) > 0 {
		sections = append(sections, Section{Title: "Episodes", Start: len(entries)})
		entries = append(entries, episodes...)
	}
	return entries, sections
}
