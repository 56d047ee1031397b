package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jellyterm/internal/modules/catalog/domain"
	catalogout "jellyterm/internal/modules/catalog/port/out"
	apperrors "jellyterm/internal/platform/errors"
	"jellyterm/internal/platform/ticks"
)

const (
	clientName    = "jellyterm"
	clientVersion = "1.0"
	listLimit     = 300
	sectionLimit  = 30
	searchLimit   = 100
)

// JellyfinServer implements the remote catalog boundary against the Jellyfin
// REST API. All failures leave this package as platform error kinds.
type JellyfinServer struct {
	base     string
	token    string
	userID   string
	deviceID string
	client   *http.Client
}

func NewJellyfinServer(baseURL, token, userID, deviceID string, timeout time.Duration) catalogout.Server {
	return &JellyfinServer{
		base:     strings.TrimRight(baseURL, "/"),
		token:    token,
		userID:   userID,
		deviceID: deviceID,
		client:   &http.Client{Timeout: timeout},
	}
}

// ─── wire types ──────────────────────────────────────────────────────────────

type wireUserData struct {
	PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
	Played                bool  `json:"Played"`
}

type wireChapter struct {
	Name               string `json:"Name"`
	StartPositionTicks int64  `json:"StartPositionTicks"`
}

type wireItem struct {
	ID                string        `json:"Id"`
	Name              string        `json:"Name"`
	Type              string        `json:"Type"`
	ParentID          string        `json:"ParentId"`
	SeriesName        string        `json:"SeriesName"`
	IndexNumber       int           `json:"IndexNumber"`
	ParentIndexNumber int           `json:"ParentIndexNumber"`
	RunTimeTicks      int64         `json:"RunTimeTicks"`
	IsFolder          bool          `json:"IsFolder"`
	UserData          *wireUserData `json:"UserData"`
	Chapters          []wireChapter `json:"Chapters"`
}

type wireItemPage struct {
	Items []wireItem `json:"Items"`
}

type wireSegment struct {
	Type       string `json:"Type"`
	StartTicks int64  `json:"StartTicks"`
	EndTicks   int64  `json:"EndTicks"`
}

type wireSegmentPage struct {
	Items []wireSegment `json:"Items"`
}

type wireAuthResponse struct {
	AccessToken string `json:"AccessToken"`
	User        struct {
		ID   string `json:"Id"`
		Name string `json:"Name"`
	} `json:"User"`
}

type wireMediaSource struct {
	ID              string `json:"Id"`
	DirectStreamURL string `json:"DirectStreamUrl"`
	TranscodingURL  string `json:"TranscodingUrl"`
}

type wirePlaybackInfo struct {
	PlaySessionID string            `json:"PlaySessionId"`
	MediaSources  []wireMediaSource `json:"MediaSources"`
}

// ─── boundary operations ─────────────────────────────────────────────────────

func (s *JellyfinServer) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	payload := map[string]string{"Username": username, "Pw": password}
	var resp wireAuthResponse
	if err := s.post(ctx, "/Users/AuthenticateByName", nil, payload, &resp); err != nil {
		return domain.Identity{}, err
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return domain.Identity{}, fmt.Errorf("%w: authentication response missing token or user id", apperrors.ErrAuth)
	}
	return domain.Identity{Token: resp.AccessToken, UserID: resp.User.ID, Username: resp.User.Name}, nil
}

func (s *JellyfinServer) Libraries(ctx context.Context) ([]domain.Item, error) {
	var page wireItemPage
	if err := s.get(ctx, "/Users/"+s.userID+"/Views", nil, &page); err != nil {
		return nil, err
	}
	return mapItems(page.Items), nil
}

func (s *JellyfinServer) Children(ctx context.Context, parentID string) ([]domain.Item, error) {
	params := url.Values{
		"ParentId":  {parentID},
		"UserId":    {s.userID},
		"Recursive": {"false"},
		"Fields":    {"UserData"},
		"Limit":     {strconv.Itoa(listLimit)},
	}
	var page wireItemPage
	if err := s.get(ctx, "/Users/"+s.userID+"/Items", params, &page); err != nil {
		return nil, err
	}
	return mapItems(page.Items), nil
}

func (s *JellyfinServer) Resume(ctx context.Context) ([]domain.Item, error) {
	params := url.Values{
		"UserId": {s.userID},
		"Limit":  {strconv.Itoa(sectionLimit)},
		"Fields": {"UserData"},
	}
	var page wireItemPage
	if err := s.get(ctx, "/Users/"+s.userID+"/Items/Resume", params, &page); err != nil {
		return nil, err
	}
	return mapItems(page.Items), nil
}

func (s *JellyfinServer) NextUp(ctx context.Context) ([]domain.Item, error) {
	params := url.Values{
		"UserId": {s.userID},
		"Limit":  {strconv.Itoa(sectionLimit)},
		"Fields": {"UserData"},
	}
	var page wireItemPage
	if err := s.get(ctx, "/Shows/NextUp", params, &page); err != nil {
		return nil, err
	}
	return mapItems(page.Items), nil
}

func (s *JellyfinServer) Search(ctx context.Context, query string, kinds []domain.ItemKind) ([]domain.Item, error) {
	params := url.Values{
		"UserId":           {s.userID},
		"SearchTerm":       {query},
		"IncludeItemTypes": {includeTypes(kinds)},
		"Recursive":        {"true"},
		"Limit":            {strconv.Itoa(searchLimit)},
		"Fields":           {"UserData"},
	}
	var page wireItemPage
	if err := s.get(ctx, "/Users/"+s.userID+"/Items", params, &page); err != nil {
		return nil, err
	}
	return mapItems(page.Items), nil
}

func (s *JellyfinServer) Item(ctx context.Context, itemID string) (domain.Item, error) {
	params := url.Values{"Fields": {"UserData"}}
	var item wireItem
	if err := s.get(ctx, "/Users/"+s.userID+"/Items/"+itemID, params, &item); err != nil {
		return domain.Item{}, err
	}
	return mapItem(item), nil
}

func (s *JellyfinServer) Segments(ctx context.Context, itemID string) ([]domain.Marker, error) {
	var page wireSegmentPage
	if err := s.get(ctx, "/MediaSegments/"+itemID, nil, &page); err != nil {
		return nil, err
	}
	markers := make([]domain.Marker, 0, len(page.Items))
	for _, seg := range page.Items {
		kind, ok := domain.ParseMarkerKind(seg.Type)
		if !ok {
			continue
		}
		markers = append(markers, domain.Marker{
			Kind:  kind,
			Start: ticks.ToDuration(seg.StartTicks),
			End:   ticks.ToDuration(seg.EndTicks),
		})
	}
	return markers, nil
}

func (s *JellyfinServer) Chapters(ctx context.Context, itemID string) ([]domain.Chapter, error) {
	params := url.Values{"Fields": {"Chapters"}}
	var item wireItem
	if err := s.get(ctx, "/Users/"+s.userID+"/Items/"+itemID, params, &item); err != nil {
		return nil, err
	}
	chapters := make([]domain.Chapter, 0, len(item.Chapters))
	for _, ch := range item.Chapters {
		chapters = append(chapters, domain.Chapter{
			Title: ch.Name,
			Start: ticks.ToDuration(ch.StartPositionTicks),
		})
	}
	return chapters, nil
}

func (s *JellyfinServer) ResolveStream(ctx context.Context, itemID string, startOffset time.Duration) (domain.StreamTarget, error) {
	payload := map[string]any{"UserId": s.userID, "AutoOpenLiveStream": false}
	var info wirePlaybackInfo
	if err := s.post(ctx, "/Items/"+itemID+"/PlaybackInfo", nil, payload, &info); err != nil {
		return domain.StreamTarget{}, err
	}
	var source wireMediaSource
	if len(info.MediaSources) > 0 {
		source = info.MediaSources[0]
	}
	streamURL := s.buildStreamURL(itemID, source, info.PlaySessionID, startOffset)
	return domain.StreamTarget{
		URL:           streamURL,
		PlaySessionID: info.PlaySessionID,
		MediaSourceID: source.ID,
		StartOffset:   startOffset,
	}, nil
}

// buildStreamURL prefers the server-provided direct or transcoding URL and
// falls back to the static video endpoint, then makes sure the session,
// source, start-offset and auth query parameters are always present.
func (s *JellyfinServer) buildStreamURL(itemID string, source wireMediaSource, playSessionID string, startOffset time.Duration) string {
	raw := source.DirectStreamURL
	if raw == "" {
		raw = source.TranscodingURL
	}
	if raw == "" {
		raw = "/Videos/" + itemID + "/stream?Static=true"
	}
	if strings.HasPrefix(raw, "/") {
		raw = s.base + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := parsed.Query()
	if startOffset > 0 && q.Get("StartTimeTicks") == "" {
		q.Set("StartTimeTicks", strconv.FormatInt(ticks.FromDuration(startOffset), 10))
	}
	if source.ID != "" && q.Get("MediaSourceId") == "" {
		q.Set("MediaSourceId", source.ID)
	}
	if playSessionID != "" && q.Get("PlaySessionId") == "" {
		q.Set("PlaySessionId", playSessionID)
	}
	if s.token != "" && q.Get("api_key") == "" {
		q.Set("api_key", s.token)
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

func (s *JellyfinServer) ReportStarted(ctx context.Context, report domain.ProgressReport) error {
	return s.post(ctx, "/Sessions/Playing", nil, progressPayload(report, true), nil)
}

func (s *JellyfinServer) ReportProgress(ctx context.Context, report domain.ProgressReport) error {
	return s.post(ctx, "/Sessions/Playing/Progress", nil, progressPayload(report, true), nil)
}

func (s *JellyfinServer) ReportStopped(ctx context.Context, report domain.ProgressReport) error {
	return s.post(ctx, "/Sessions/Playing/Stopped", nil, progressPayload(report, false), nil)
}

func (s *JellyfinServer) SetWatched(ctx context.Context, itemID string, watched bool) error {
	path := "/Users/" + s.userID + "/PlayedItems/" + itemID
	method := http.MethodPost
	if !watched {
		method = http.MethodDelete
	}
	return s.do(ctx, method, path, nil, nil, nil)
}

func progressPayload(report domain.ProgressReport, canSeek bool) map[string]any {
	payload := map[string]any{
		"ItemId":        report.ItemID,
		"PositionTicks": ticks.FromDuration(report.Position),
		"IsPaused":      report.Paused,
		"PlayMethod":    "DirectStream",
	}
	if canSeek {
		payload["CanSeek"] = true
	}
	if report.MediaSourceID != "" {
		payload["MediaSourceId"] = report.MediaSourceID
	}
	if report.PlaySessionID != "" {
		payload["PlaySessionId"] = report.PlaySessionID
	}
	return payload
}

// ─── transport plumbing ──────────────────────────────────────────────────────

func (s *JellyfinServer) get(ctx context.Context, path string, params url.Values, out any) error {
	return s.do(ctx, http.MethodGet, path, params, nil, out)
}

func (s *JellyfinServer) post(ctx context.Context, path string, params url.Values, payload, out any) error {
	return s.do(ctx, http.MethodPost, path, params, payload, out)
}

func (s *JellyfinServer) do(ctx context.Context, method, path string, params url.Values, payload, out any) error {
	target := s.base + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("X-MediaBrowser-Token", s.token)
	}
	req.Header.Set("X-Emby-Authorization", fmt.Sprintf(
		`MediaBrowser Client=%q, Device=%q, DeviceId=%q, Version=%q`,
		clientName, clientName, s.deviceID, clientVersion,
	))

	resp, err := s.client.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode, method, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", apperrors.ErrNetwork, method, path, err)
	}
	return nil
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
}

func classifyStatus(status int, method, path string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s %s returned %d", apperrors.ErrAuth, method, path, status)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, method, path)
	default:
		return fmt.Errorf("%w: %s %s returned %d", apperrors.ErrNetwork, method, path, status)
	}
}

// ─── wire mapping ────────────────────────────────────────────────────────────

func mapItems(items []wireItem) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, mapItem(item))
	}
	return out
}

func mapItem(item wireItem) domain.Item {
	mapped := domain.Item{
		ID:           item.ID,
		Kind:         mapKind(item),
		Title:        item.Name,
		ParentID:     item.ParentID,
		SeriesName:   item.SeriesName,
		SeasonIndex:  item.ParentIndexNumber,
		EpisodeIndex: item.IndexNumber,
		RunTime:      ticks.ToDuration(item.RunTimeTicks),
	}
	if item.UserData != nil {
		mapped.Position = ticks.ToDuration(item.UserData.PlaybackPositionTicks)
		mapped.Watched = item.UserData.Played
	}
	return mapped
}

func mapKind(item wireItem) domain.ItemKind {
	switch item.Type {
	case "CollectionFolder", "UserView", "Folder", "BoxSet":
		return domain.KindLibrary
	case "Series":
		return domain.KindShow
	case "Season":
		return domain.KindSeason
	case "Episode":
		return domain.KindEpisode
	case "Movie":
		return domain.KindMovie
	}
	// Servers grow item types; folders still navigate, leaves still play.
	if item.IsFolder {
		return domain.KindLibrary
	}
	return domain.KindMovie
}

func includeTypes(kinds []domain.ItemKind) string {
	if len(kinds) == 0 {
		return "Movie,Series,Episode"
	}
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case domain.KindMovie:
			names = append(names, "Movie")
		case domain.KindShow:
			names = append(names, "Series")
		case domain.KindEpisode:
			names = append(names, "Episode")
		case domain.KindSeason:
			names = append(names, "Season")
		case domain.KindLibrary:
			// Library views are not searchable item types.
		}
	}
	return strings.Join(names, ",")
}
