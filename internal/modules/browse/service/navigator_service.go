package service

import (
	"context"
	"fmt"
	"sync"

	"jellyterm/internal/modules/browse/domain"
	browseout "jellyterm/internal/modules/browse/port/out"
	apperrors "jellyterm/internal/platform/errors"
)

// NavigatorService owns the browse stack. All operations mutate the stack
// under one lock so the rest of the program only ever observes snapshots;
// a failed fetch never mutates the stack.
type NavigatorService struct {
	catalog browseout.Catalog

	mu        sync.Mutex
	stack     *domain.Stack
	homeStale bool
}

func NewNavigatorService(catalog browseout.Catalog) *NavigatorService {
	return &NavigatorService{catalog: catalog}
}

// Start fetches the Home sections and installs the root frame.
func (s *NavigatorService) Start(ctx context.Context) (*domain.Node, error) {
	home := &domain.Node{Kind: domain.NodeHome, Title: "Home"}
	entries, sections, err := s.fetchHome(ctx)
	if err != nil {
		return nil, err
	}
	home.Replace(entries, sections)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack = domain.NewStack(home)
	s.homeStale = false
	return cloneNode(home), nil
}

func (s *NavigatorService) Snapshot() (*domain.Node, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil {
		return &domain.Node{Kind: domain.NodeHome, Title: "Home"}, 0
	}
	return cloneNode(s.stack.Current()), s.stack.Depth()
}

func (s *NavigatorService) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil {
		return 0
	}
	return s.stack.Depth()
}

func (s *NavigatorService) MoveSelection(delta int) *domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil {
		return &domain.Node{Kind: domain.NodeHome, Title: "Home"}
	}
	s.stack.Current().MoveSelection(delta)
	return cloneNode(s.stack.Current())
}

// PlayRequest hands a playable selection off without pushing a frame.
type PlayRequest struct {
	Entry domain.Entry
}

// Open dispatches on the selected entry's kind: containers push a child
// listing, playables return a PlayRequest and leave the stack untouched.
func (s *NavigatorService) Open(ctx context.Context) (*PlayRequest, *domain.Node, error) {
	s.mu.Lock()
	if s.stack == nil {
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: navigator not started", apperrors.ErrInvalidInput)
	}
	entry, ok := s.stack.Current().SelectedEntry()
	s.mu.Unlock()
	if !ok {
		return nil, nil, fmt.Errorf("%w: nothing selected", apperrors.ErrInvalidInput)
	}

	switch entry.Kind {
	case domain.EntryLibrary, domain.EntryShow, domain.EntrySeason:
		node, err := s.openContainer(ctx, entry)
		if err != nil {
			return nil, nil, err
		}
		return nil, node, nil
	case domain.EntryEpisode, domain.EntryMovie:
		return &PlayRequest{Entry: entry}, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: cannot open kind %q", apperrors.ErrInvalidInput, entry.Kind)
}

func (s *NavigatorService) openContainer(ctx context.Context, entry domain.Entry) (*domain.Node, error) {
	entries, err := s.catalog.Children(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	node := &domain.Node{
		Kind:     nodeKindFor(entry.Kind),
		Title:    entry.Title,
		ParentID: entry.ID,
	}
	node.Replace(entries, nil)
	node.Selected = 0
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack.Push(node)
	return cloneNode(node), nil
}

func nodeKindFor(kind domain.EntryKind) domain.NodeKind {
	switch kind {
	case domain.EntryShow:
		return domain.NodeShowSeasons
	case domain.EntrySeason:
		return domain.NodeSeasonEpisodes
	default:
		return domain.NodeLibraryList
	}
}

// Back pops a frame. At the root it reports ErrAtRoot and changes nothing.
// Callers re-fetch the revealed node afterwards so user state is fresh on
// navigation return.
func (s *NavigatorService) Back() (*domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil || !s.stack.Pop() {
		if s.stack != nil {
			return cloneNode(s.stack.Current()), apperrors.ErrAtRoot
		}
		return nil, apperrors.ErrAtRoot
	}
	return cloneNode(s.stack.Current()), nil
}

// Refresh re-fetches the current node's listing in place. Selection is
// preserved by identity when possible; a fetch failure leaves the node as it
// was.
func (s *NavigatorService) Refresh(ctx context.Context) (*domain.Node, error) {
	s.mu.Lock()
	if s.stack == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: navigator not started", apperrors.ErrInvalidInput)
	}
	current := s.stack.Current()
	kind, parentID, query := current.Kind, current.ParentID, current.Query
	s.mu.Unlock()

	entries, sections, err := s.fetchFor(ctx, kind, parentID, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current = s.stack.Current()
	// The stack may have moved while the fetch was in flight; only apply a
	// result that still describes the current frame.
	if current.Kind != kind || current.ParentID != parentID || current.Query != query {
		return cloneNode(current), nil
	}
	current.Replace(entries, sections)
	if kind == domain.NodeHome {
		s.homeStale = false
	}
	return cloneNode(current), nil
}

func (s *NavigatorService) fetchFor(ctx context.Context, kind domain.NodeKind, parentID, query string) ([]domain.Entry, []domain.Section, error) {
	switch kind {
	case domain.NodeHome:
		return s.fetchHome(ctx)
	case domain.NodeSearchResults:
		return s.fetchSearch(ctx, query)
	default:
		entries, err := s.catalog.Children(ctx, parentID)
		return entries, nil, err
	}
}

// Search pushes a SearchResults frame: two parallel catalog queries
// concatenated movies/shows first, episodes second.
func (s *NavigatorService) Search(ctx context.Context, query string) (*domain.Node, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrInvalidInput)
	}
	entries, sections, err := s.fetchSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	node := &domain.Node{
		Kind:  domain.NodeSearchResults,
		Title: "Search: " + query,
		Query: query,
	}
	node.Replace(entries, sections)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stack == nil {
		return nil, fmt.Errorf("%w: navigator not started", apperrors.ErrInvalidInput)
	}
	s.stack.Push(node)
	return cloneNode(node), nil
}

func (s *NavigatorService) fetchSearch(ctx context.Context, query string) ([]domain.Entry, []domain.Section, error) {
	type result struct {
		group   browseout.SearchGroup
		entries []domain.Entry
		err     error
	}
	results := make(chan result, 2)
	for _, group := range []browseout.SearchGroup{browseout.GroupFeatures, browseout.GroupEpisodes} {
		go func(group browseout.SearchGroup) {
			entries, err := s.catalog.Search(ctx, query, group)
			results <- result{group: group, entries: entries, err: err}
		}(group)
	}
	var features, episodes []domain.Entry
	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			return nil, nil, res.err
		}
		if res.group == browseout.GroupFeatures {
			features = res.entries
		} else {
			episodes = res.entries
		}
	}
	entries, sections := domain.PartitionSearch(features, episodes)
	return entries, sections, nil
}

// ToggleWatched flips the selected entry's watched state optimistically,
// pushes the change to the server, then refreshes the lists it staled.
func (s *NavigatorService) ToggleWatched(ctx context.Context) (*domain.Node, error) {
	s.mu.Lock()
	if s.stack == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: navigator not started", apperrors.ErrInvalidInput)
	}
	current := s.stack.Current()
	entry, ok := current.SelectedEntry()
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: nothing selected", apperrors.ErrInvalidInput)
	}
	target := !entry.Watched
	current.Entries[current.Selected].Watched = target
	current.Entries[current.Selected].Finished = target
	s.mu.Unlock()

	if err := s.catalog.SetWatched(ctx, entry.ID, target); err != nil {
		s.mu.Lock()
		// Roll the optimistic flip back if the entry is still in place.
		current = s.stack.Current()
		for i := range current.Entries {
			if current.Entries[i].ID == entry.ID {
				current.Entries[i].Watched = entry.Watched
				current.Entries[i].Finished = entry.Finished
			}
		}
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.homeStale = s.stack.Current().Kind != domain.NodeHome
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// RefreshAfterPlayback re-fetches the current node once a playback session
// ends; Home's curated sections are marked stale for refresh on return.
func (s *NavigatorService) RefreshAfterPlayback(ctx context.Context) (*domain.Node, error) {
	s.mu.Lock()
	if s.stack == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: navigator not started", apperrors.ErrInvalidInput)
	}
	s.homeStale = s.stack.Current().Kind != domain.NodeHome
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// HomeStale reports whether Home needs a re-fetch on navigation return.
func (s *NavigatorService) HomeStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.homeStale
}

func (s *NavigatorService) fetchHome(ctx context.Context) ([]domain.Entry, []domain.Section, error) {
	resume, err := s.catalog.ContinueWatching(ctx)
	if err != nil {
		return nil, nil, err
	}
	nextUp, err := s.catalog.NextUp(ctx)
	if err != nil {
		return nil, nil, err
	}
	libraries, err := s.catalog.Libraries(ctx)
	if err != nil {
		return nil, nil, err
	}

	var entries []domain.Entry
	var sections []domain.Section
	if len(resume) > 0 {
		sections = append(sections, domain.Section{Title: "Continue Watching", Start: 0})
		entries = append(entries, resume...)
	}
	if len(nextUp) > 0 {
		sections = append(sections, domain.Section{Title: "Next Up", Start: len(entries)})
		entries = append(entries, nextUp...)
	}
	sections = append(sections, domain.Section{Title: "Your Libraries", Start: len(entries)})
	entries = append(entries, libraries...)
	return entries, sections, nil
}

func cloneNode(node *domain.Node) *domain.Node {
	clone := *node
	clone.Entries = append([]domain.Entry(nil), node.Entries...)
	clone.Sections = append([]domain.Section(nil), node.Sections...)
	return &clone
}
