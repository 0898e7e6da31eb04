package radarr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"einsync/internal/radarr"
)

func TestNewRequiresURLAndKey(t *testing.T) {
	if _, err := radarr.New("", "key"); err == nil {
		t.Fatal("expected error when url missing")
	}
	if _, err := radarr.New("http://localhost:7878", ""); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestMissingFiltersByHasFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/movie" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "key" {
			t.Fatalf("X-Api-Key = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Vikram","year":2022,"hasFile":false,"originalLanguage":{"id":26,"name":"Tamil"}},
			{"id":2,"title":"Kantara","year":2022,"hasFile":true},
			{"id":3,"title":"Jai Bhim","year":2021,"hasFile":false}
		]`))
	}))
	t.Cleanup(server.Close)

	client, err := radarr.New(server.URL, "key")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	missing, err := client.Missing(context.Background())
	if err != nil {
		t.Fatalf("Missing returned error: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("got %d missing, want 2", len(missing))
	}
	if missing[0].ID != 1 || missing[1].ID != 3 {
		t.Fatalf("unexpected order: %#v", missing)
	}
	if got := missing[0].OriginalLanguageName(); got != "tamil" {
		t.Errorf("OriginalLanguageName = %q", got)
	}
	if got := missing[1].OriginalLanguageName(); got != "" {
		t.Errorf("OriginalLanguageName = %q, want empty", got)
	}
}

func TestRescanMovieScopesCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/command" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Name     string  `json:"name"`
			MovieIDs []int64 `json:"movieIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode command: %v", err)
		}
		if body.Name != "RescanMovie" {
			t.Errorf("name = %q", body.Name)
		}
		if len(body.MovieIDs) != 1 || body.MovieIDs[0] != 42 {
			t.Errorf("movieIds = %v", body.MovieIDs)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	client, err := radarr.New(server.URL, "key")
	if err != nil {
		t.Fatal(err)
	}
	if err := client.RescanMovie(context.Background(), 42); err != nil {
		t.Fatalf("RescanMovie returned error: %v", err)
	}
}

func TestRescanLibraryOmitsMovieIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode command: %v", err)
		}
		if _, present := body["movieIds"]; present {
			t.Error("library rescan must not scope movieIds")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	client, err := radarr.New(server.URL, "key")
	if err != nil {
		t.Fatal(err)
	}
	if err := client.RescanLibrary(context.Background()); err != nil {
		t.Fatalf("RescanLibrary returned error: %v", err)
	}
}

func TestMoviesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := radarr.New(server.URL, "bad")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Movies(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
