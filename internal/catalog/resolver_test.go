package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"einsync/internal/catalog"
)

func watchPage(pageID, pingables, title string, premium bool) string {
	marker := ""
	if premium {
		marker = `<div class="PGPremiumMovieWatch">`
	}
	return fmt.Sprintf(`<html data-pageid=%q><body>%s
<section id="UIVideoPlayer" data-ejpingables=%q data-content-title=%q></section>
<section id="UIMovieSummary"><ul><li><div class="info"><p>2022</p></div></li></ul></section>
</body></html>`, pageID, marker, pingables, title)
}

func writeLinks(t *testing.T, w http.ResponseWriter, links map[string]string) {
	t.Helper()
	payload := map[string]any{
		"Event": "UIVideoPlayer.PingOutcome",
		"Data":  map[string]string{"EJLinks": obfuscate(t, links)},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("encode ajax response: %v", err)
	}
}

func TestResolveSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage("csrf123", "PING", "Vikram", false))
	})
	mux.HandleFunc("/ajax/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("xEvent"); got != "UIVideoPlayer.PingOutcome" {
			t.Errorf("xEvent = %q", got)
		}
		if got := r.FormValue("gorilla.csrf.Token"); got != "csrf123" {
			t.Errorf("csrf token = %q", got)
		}
		xJSON := r.FormValue("xJson")
		if !strings.Contains(xJSON, `"EJOutcomes":"PING"`) || !strings.Contains(xJSON, `"NativeHLS":false`) {
			t.Errorf("xJson = %q", xJSON)
		}
		writeLinks(t, w, map[string]string{
			"MP4Link": "https://cdn.example.com/v.mp4",
			"HLSLink": "https://cdn.example.com/v.m3u8",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	bundle, err := client.Resolve(context.Background(), server.URL+"/movie/watch/11aa/?lang=tamil")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if bundle.Title != "Vikram" || bundle.Year != "2022" {
		t.Errorf("bundle = %#v", bundle)
	}
	if bundle.ProgressiveURL != "https://cdn.example.com/v.mp4" {
		t.Errorf("ProgressiveURL = %q", bundle.ProgressiveURL)
	}
	if bundle.AdaptiveURL != "https://cdn.example.com/v.m3u8" {
		t.Errorf("AdaptiveURL = %q", bundle.AdaptiveURL)
	}
	if bundle.Premium {
		t.Error("Premium = true, want false")
	}
	if bundle.Partition != "tamil" {
		t.Errorf("Partition = %q", bundle.Partition)
	}
}

func TestResolvePriorityHintMarksPremium(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage("id", "PING", "Vikram", false))
	})
	mux.HandleFunc("/ajax/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		writeLinks(t, w, map[string]string{"MP4Link": "https://cdn.example.com/v.mp4?p=priority"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	bundle, err := client.Resolve(context.Background(), server.URL+"/movie/watch/11aa/?lang=tamil")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !bundle.Premium {
		t.Error("priority hint should mark the bundle premium")
	}
}

func TestResolveLoginRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html data-pageid="id"><body><p>Please log in</p></body></html>`)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.Resolve(context.Background(), server.URL+"/movie/watch/11aa/?lang=tamil")
	if !errors.Is(err, catalog.ErrLoginRequired) {
		t.Fatalf("err = %v, want ErrLoginRequired", err)
	}
}

func TestResolveNoLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage("id", "PING", "Vikram", false))
	})
	mux.HandleFunc("/ajax/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Event":"UIVideoPlayer.PingOutcome","Data":{"EJLinks":""}}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.Resolve(context.Background(), server.URL+"/movie/watch/11aa/?lang=tamil")
	if !errors.Is(err, catalog.ErrNoLinks) {
		t.Fatalf("err = %v, want ErrNoLinks", err)
	}
}

func TestResolveUnexpectedFormat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage("id", "PING", "Vikram", false))
	})
	mux.HandleFunc("/ajax/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Event":"weird","Data":42}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.Resolve(context.Background(), server.URL+"/movie/watch/11aa/?lang=tamil")
	if !errors.Is(err, catalog.ErrUnexpectedFormat) {
		t.Fatalf("err = %v, want ErrUnexpectedFormat", err)
	}
}

func TestResolveRedirectLoopIsBounded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/premium/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage("id", "PING", "Vikram", true))
	})
	mux.HandleFunc("/ajax/premium/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		// Always redirects back to itself.
		fmt.Fprint(w, `{"Event":"redirect","Data":"/premium/movie/watch/11aa/?lang=tamil"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server, catalog.WithMaxRedirects(3))
	_, err := client.Resolve(context.Background(), server.URL+"/premium/movie/watch/11aa/?lang=tamil")
	if !errors.Is(err, catalog.ErrRedirectLoop) {
		t.Fatalf("err = %v, want ErrRedirectLoop", err)
	}
}

func TestResolveFollowsPremiumRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage("id", "PING", "Vikram", false))
	})
	mux.HandleFunc("/ajax/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Event":"redirect","Data":"/premium/movie/watch/11aa/?lang=tamil"}`)
	})
	mux.HandleFunc("/premium/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage("id", "PING", "Vikram", true))
	})
	mux.HandleFunc("/ajax/premium/movie/watch/11aa/", func(w http.ResponseWriter, r *http.Request) {
		writeLinks(t, w, map[string]string{"MP4Link": "https://cdn.example.com/hq.mp4"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	bundle, err := client.Resolve(context.Background(), server.URL+"/movie/watch/11aa/?lang=tamil")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if bundle.ProgressiveURL != "https://cdn.example.com/hq.mp4" {
		t.Errorf("ProgressiveURL = %q", bundle.ProgressiveURL)
	}
	if !bundle.Premium {
		t.Error("premium page marker should mark the bundle premium")
	}
}
