package watchlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"bestprice_client/api"
	"bestprice_client/config"
	"bestprice_client/httputil"
	"bestprice_client/models"
)

type stubAuth struct{ authenticated bool }

func (s *stubAuth) IsAuthenticated() bool { return s.authenticated }

type watchlistServer struct {
	mu       sync.Mutex
	items    []models.WatchlistItem
	getCount int
	block    chan struct{} // when set, GET blocks until closed

	server *httptest.Server
}

func newWatchlistServer(t *testing.T) *watchlistServer {
	t.Helper()
	s := &watchlistServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/user/watchlist", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.mu.Lock()
			s.getCount++
			block := s.block
			items := append([]models.WatchlistItem(nil), s.items...)
			s.mu.Unlock()
			if block != nil {
				<-block
			}
			json.NewEncoder(w).Encode(items)
		case http.MethodPost:
			var body struct {
				OfferID      int64  `json:"offer_id"`
				ProductTitle string `json:"product_title"`
				ProductURL   string `json:"product_url"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			item := models.WatchlistItem{
				ID:           body.OfferID + 1000,
				OfferID:      body.OfferID,
				ProductTitle: body.ProductTitle,
				ProductURL:   body.ProductURL,
				CreatedAt:    time.Now(),
			}
			s.mu.Lock()
			s.items = append(s.items, item)
			s.mu.Unlock()
			json.NewEncoder(w).Encode(item)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})
	mux.HandleFunc("/user/watchlist/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/user/watchlist/"), 10, 64)
		s.mu.Lock()
		kept := s.items[:0]
		for _, item := range s.items {
			if item.OfferID != id {
				kept = append(kept, item)
			}
		}
		s.items = kept
		s.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"message": "Item removed from watchlist"})
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *watchlistServer) gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCount
}

func newTestSync(s *watchlistServer, auth AuthState) *Synchronizer {
	hc := httputil.NewClient(&config.APIConfig{
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
	})
	return NewSynchronizer(api.NewClient(s.server.URL, hc, nil), auth)
}

func TestAdd_DuplicateCollapsesToOneEntry(t *testing.T) {
	s := newWatchlistServer(t)
	watch := newTestSync(s, &stubAuth{authenticated: true})
	ctx := context.Background()

	offer := &models.Offer{ID: 42, Title: "Widget", URL: "https://example.com/w"}
	if _, err := watch.Add(ctx, offer); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := watch.Add(ctx, offer); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if !watch.IsWatched(42) {
		t.Fatal("expected offer 42 watched")
	}
	if n := watch.Len(); n != 1 {
		t.Fatalf("expected exactly one entry for offer 42, got %d", n)
	}
}

func TestRemove_AbsentIDIsLocalNoOp(t *testing.T) {
	s := newWatchlistServer(t)
	watch := newTestSync(s, &stubAuth{authenticated: true})
	ctx := context.Background()

	if _, err := watch.Add(ctx, &models.Offer{ID: 1, Title: "A"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := watch.Remove(ctx, 999); err != nil {
		t.Fatalf("remove of absent id must not fail locally: %v", err)
	}
	if watch.Len() != 1 || !watch.IsWatched(1) {
		t.Fatal("remove of absent id must not disturb the set")
	}
}

func TestMutationsRequireAuth(t *testing.T) {
	s := newWatchlistServer(t)
	watch := newTestSync(s, &stubAuth{authenticated: false})
	ctx := context.Background()

	if _, err := watch.Add(ctx, &models.Offer{ID: 5}); err != ErrLoginRequired {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if err := watch.Remove(ctx, 5); err != ErrLoginRequired {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if s.gets() != 0 {
		t.Fatal("unauthenticated mutations must not reach the network")
	}
}

func TestEnsureLoaded_FetchesOncePerSession(t *testing.T) {
	s := newWatchlistServer(t)
	s.items = []models.WatchlistItem{{ID: 1, OfferID: 10, ProductTitle: "Saved"}}
	watch := newTestSync(s, &stubAuth{authenticated: true})
	ctx := context.Background()

	if err := watch.EnsureLoaded(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := watch.EnsureLoaded(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if s.gets() != 1 {
		t.Fatalf("expected a single fetch per session, got %d", s.gets())
	}
	if !watch.IsWatched(10) {
		t.Fatal("expected loaded item watched")
	}
}

func TestEnsureLoaded_ConcurrentCallsIssueOneRequest(t *testing.T) {
	s := newWatchlistServer(t)
	release := make(chan struct{})
	s.block = release
	watch := newTestSync(s, &stubAuth{authenticated: true})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watch.EnsureLoaded(ctx)
	}()

	// Wait for the fetch to be in flight, then re-enter.
	for i := 0; i < 100 && s.gets() == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if err := watch.EnsureLoaded(ctx); err != nil {
		t.Fatalf("re-entrant call failed: %v", err)
	}

	close(release)
	wg.Wait()

	if s.gets() != 1 {
		t.Fatalf("expected one in-flight request, got %d", s.gets())
	}
}

func TestSignOutClearsAndRearms(t *testing.T) {
	s := newWatchlistServer(t)
	s.items = []models.WatchlistItem{{ID: 1, OfferID: 10, ProductTitle: "Saved"}}
	auth := &stubAuth{authenticated: true}
	watch := newTestSync(s, auth)
	ctx := context.Background()

	if err := watch.EnsureLoaded(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	auth.authenticated = false
	watch.OnAuthChange(false)

	if watch.Len() != 0 {
		t.Fatal("sign-out must clear the set")
	}

	auth.authenticated = true
	if err := watch.EnsureLoaded(ctx); err != nil {
		t.Fatalf("reload after sign-in failed: %v", err)
	}
	if s.gets() != 2 {
		t.Fatalf("expected the guard re-armed after sign-out, got %d fetches", s.gets())
	}
}
