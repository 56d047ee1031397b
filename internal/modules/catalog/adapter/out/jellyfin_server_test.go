package out_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	out "jellyterm/internal/modules/catalog/adapter/out"
	"jellyterm/internal/modules/catalog/domain"
	apperrors "jellyterm/internal/platform/errors"
)

func TestStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, apperrors.ErrAuth},
		{http.StatusForbidden, apperrors.ErrAuth},
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusInternalServerError, apperrors.ErrNetwork},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))
		server := out.NewJellyfinServer(srv.URL, "tok", "uid", "dev", time.Second)
		_, err := server.Libraries(context.Background())
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: err = %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestTimeoutClassifiedAsTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	server := out.NewJellyfinServer(srv.URL, "tok", "uid", "dev", 20*time.Millisecond)
	if _, err := server.Libraries(context.Background()); !errors.Is(err, apperrors.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestAuthHeadersSent(t *testing.T) {
	t.Parallel()

	var gotToken, gotEmby string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-MediaBrowser-Token")
		gotEmby = r.Header.Get("X-Emby-Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"Items": []any{}})
	}))
	defer srv.Close()

	server := out.NewJellyfinServer(srv.URL, "secret", "uid", "device-1", time.Second)
	if _, err := server.Libraries(context.Background()); err != nil {
		t.Fatalf("Libraries: %v", err)
	}
	if gotToken != "secret" {
		t.Fatalf("token header = %q", gotToken)
	}
	for _, fragment := range []string{`Client="jellyterm"`, `DeviceId="device-1"`} {
		if !strings.Contains(gotEmby, fragment) {
			t.Fatalf("auth header %q missing %q", gotEmby, fragment)
		}
	}
}

func TestChildrenMapsWireItems(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := map[string]any{"Items": []map[string]any{
			{
				"Id": "ep-1", "Name": "Secrets", "Type": "Episode",
				"SeriesName": "Dark", "ParentIndexNumber": 1, "IndexNumber": 2,
				"RunTimeTicks": int64(24 * 60 * 10_000_000),
				"UserData":     map[string]any{"PlaybackPositionTicks": int64(60 * 10_000_000), "Played": true},
			},
			{"Id": "lib-1", "Name": "Shows", "Type": "CollectionFolder"},
			{"Id": "x-1", "Name": "Oddity", "Type": "MusicVideo", "IsFolder": false},
		}}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	server := out.NewJellyfinServer(srv.URL, "tok", "uid", "dev", time.Second)
	items, err := server.Children(context.Background(), "parent")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d", len(items))
	}
	ep := items[0]
	if ep.Kind != domain.KindEpisode || ep.Position != time.Minute || !ep.Watched {
		t.Fatalf("episode = %+v", ep)
	}
	if ep.RunTime != 24*time.Minute || ep.SeasonIndex != 1 || ep.EpisodeIndex != 2 {
		t.Fatalf("episode = %+v", ep)
	}
	if items[1].Kind != domain.KindLibrary {
		t.Fatalf("folder kind = %q", items[1].Kind)
	}
	// Unknown leaf types stay playable.
	if items[2].Kind != domain.KindMovie {
		t.Fatalf("unknown kind = %q", items[2].Kind)
	}
}

func TestSegmentsMapTicksAndSkipUnknownTypes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := map[string]any{"Items": []map[string]any{
			{"Type": "Intro", "StartTicks": int64(0), "EndTicks": int64(30 * 10_000_000)},
			{"Type": "Commercial", "StartTicks": int64(0), "EndTicks": int64(10_000_000)},
			{"Type": "Outro", "StartTicks": int64(1200 * 10_000_000), "EndTicks": int64(1260 * 10_000_000)},
		}}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	server := out.NewJellyfinServer(srv.URL, "tok", "uid", "dev", time.Second)
	markers, err := server.Segments(context.Background(), "ep-1")
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("markers = %+v, want intro and outro only", markers)
	}
	if markers[0].Kind != domain.MarkerIntro || markers[0].End != 30*time.Second {
		t.Fatalf("intro = %+v", markers[0])
	}
	if markers[1].Kind != domain.MarkerOutro || markers[1].Start != 20*time.Minute {
		t.Fatalf("outro = %+v", markers[1])
	}
}

func TestResolveStreamFallsBackToStaticEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"PlaySessionId": "ps-1",
			"MediaSources":  []map[string]any{{"Id": "ms-1"}},
		})
	}))
	defer srv.Close()

	server := out.NewJellyfinServer(srv.URL, "secret", "uid", "dev", time.Second)
	target, err := server.ResolveStream(context.Background(), "ep-1", 90*time.Second)
	if err != nil {
		t.Fatalf("ResolveStream: %v", err)
	}

	parsed, err := url.Parse(target.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if parsed.Path != "/Videos/ep-1/stream" {
		t.Fatalf("path = %q", parsed.Path)
	}
	q := parsed.Query()
	if q.Get("Static") != "true" || q.Get("api_key") != "secret" {
		t.Fatalf("query = %v", q)
	}
	if q.Get("StartTimeTicks") != "900000000" {
		t.Fatalf("StartTimeTicks = %q", q.Get("StartTimeTicks"))
	}
	if q.Get("MediaSourceId") != "ms-1" || q.Get("PlaySessionId") != "ps-1" {
		t.Fatalf("query = %v", q)
	}
	if target.MediaSourceID != "ms-1" || target.PlaySessionID != "ps-1" {
		t.Fatalf("target = %+v", target)
	}
}

func TestResolveStreamPrefersDirectURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"PlaySessionId": "ps-1",
			"MediaSources": []map[string]any{{
				"Id":              "ms-1",
				"DirectStreamUrl": "/Videos/ep-1/stream.mkv?Static=true&api_key=embedded",
			}},
		})
	}))
	defer srv.Close()

	server := out.NewJellyfinServer(srv.URL, "secret", "uid", "dev", time.Second)
	target, err := server.ResolveStream(context.Background(), "ep-1", 0)
	if err != nil {
		t.Fatalf("ResolveStream: %v", err)
	}
	parsed, _ := url.Parse(target.URL)
	if parsed.Path != "/Videos/ep-1/stream.mkv" {
		t.Fatalf("path = %q", parsed.Path)
	}
	// The embedded key wins; no duplicate is appended.
	if got := parsed.Query()["api_key"]; len(got) != 1 || got[0] != "embedded" {
		t.Fatalf("api_key = %v", got)
	}
	if parsed.Query().Get("StartTimeTicks") != "" {
		t.Fatal("zero offset must not add StartTimeTicks")
	}
}

func TestSetWatchedUsesPostAndDelete(t *testing.T) {
	t.Parallel()

	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
	}))
	defer srv.Close()

	server := out.NewJellyfinServer(srv.URL, "tok", "uid", "dev", time.Second)
	if err := server.SetWatched(context.Background(), "ep-1", true); err != nil {
		t.Fatalf("SetWatched(true): %v", err)
	}
	if err := server.SetWatched(context.Background(), "ep-1", false); err != nil {
		t.Fatalf("SetWatched(false): %v", err)
	}
	want := []string{"POST /Users/uid/PlayedItems/ep-1", "DELETE /Users/uid/PlayedItems/ep-1"}
	if len(methods) != 2 || methods[0] != want[0] || methods[1] != want[1] {
		t.Fatalf("methods = %v, want %v", methods, want)
	}
}

func TestProgressReportPayload(t *testing.T) {
	t.Parallel()

	var paths []string
	var payloads []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		payloads = append(payloads, payload)
	}))
	defer srv.Close()

	server := out.NewJellyfinServer(srv.URL, "tok", "uid", "dev", time.Second)
	report := domain.ProgressReport{
		ItemID:        "ep-1",
		Position:      90 * time.Second,
		Paused:        true,
		PlaySessionID: "ps-1",
		MediaSourceID: "ms-1",
	}
	if err := server.ReportProgress(context.Background(), report); err != nil {
		t.Fatalf("ReportProgress: %v", err)
	}
	if err := server.ReportStopped(context.Background(), report); err != nil {
		t.Fatalf("ReportStopped: %v", err)
	}

	if paths[0] != "/Sessions/Playing/Progress" || paths[1] != "/Sessions/Playing/Stopped" {
		t.Fatalf("paths = %v", paths)
	}
	progress := payloads[0]
	if progress["PositionTicks"] != float64(900000000) {
		t.Fatalf("PositionTicks = %v", progress["PositionTicks"])
	}
	if progress["IsPaused"] != true || progress["PlaySessionId"] != "ps-1" {
		t.Fatalf("payload = %v", progress)
	}
}
