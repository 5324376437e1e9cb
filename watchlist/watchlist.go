package watchlist

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"bestprice_client/api"
	"bestprice_client/models"
)

// ErrLoginRequired is returned by mutations attempted without a session.
// No network call is made in that case.
var ErrLoginRequired = errors.New("please log in to manage your watchlist")

// AuthState answers whether the user currently has a session. Implemented
// by session.Manager.
type AuthState interface {
	IsAuthenticated() bool
}

type loadState int

const (
	stateUnloaded loadState = iota
	stateLoading
	stateLoaded
)

// Synchronizer maintains the signed-in user's saved-offer set. The set is
// fetched at most once per authentication session; add and remove are
// write-through: the local set changes only after the server confirms, so
// there is no rollback path and no background reconciliation.
type Synchronizer struct {
	client *api.Client
	auth   AuthState

	mu    sync.Mutex
	state loadState
	items map[int64]models.WatchlistItem // keyed by offer id
}

func NewSynchronizer(client *api.Client, auth AuthState) *Synchronizer {
	return &Synchronizer{
		client: client,
		auth:   auth,
		items:  make(map[int64]models.WatchlistItem),
	}
}

// OnAuthChange resets the set when the session ends so the next login
// re-arms the single fetch. Wire it to session.Manager.OnChange.
func (s *Synchronizer) OnAuthChange(authenticated bool) {
	if authenticated {
		return
	}

	s.mu.Lock()
	s.state = stateUnloaded
	s.items = make(map[int64]models.WatchlistItem)
	s.mu.Unlock()

	log.Println("Watchlist: cleared on sign-out")
}

// EnsureLoaded fetches the watchlist once per session. Re-entrant calls
// during the fetch or after it are no-ops. A failed fetch clears the set
// and re-arms so a later call can retry.
func (s *Synchronizer) EnsureLoaded(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.mu.Lock()
		s.state = stateUnloaded
		s.items = make(map[int64]models.WatchlistItem)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	if s.state != stateUnloaded {
		s.mu.Unlock()
		return nil
	}
	s.state = stateLoading
	s.mu.Unlock()

	items, err := s.client.Watchlist(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = stateUnloaded
		s.items = make(map[int64]models.WatchlistItem)
		return err
	}

	s.items = make(map[int64]models.WatchlistItem, len(items))
	for _, item := range items {
		s.items[item.OfferID] = item
	}
	s.state = stateLoaded

	log.Printf("Watchlist: loaded %d items", len(items))
	return nil
}

// Add saves an offer. The server-returned entry is merged keyed by offer
// id, so a double add collapses to one entry.
func (s *Synchronizer) Add(ctx context.Context, offer *models.Offer) (*models.WatchlistItem, error) {
	if !s.auth.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	item, err := s.client.AddWatchlist(ctx, offer)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.items[item.OfferID] = *item
	s.mu.Unlock()

	return item, nil
}

// Remove deletes a saved offer. Removing an id that is not in the local
// set still issues the delete but leaves local state untouched either way
// on failure.
func (s *Synchronizer) Remove(ctx context.Context, offerID int64) error {
	if !s.auth.IsAuthenticated() {
		return ErrLoginRequired
	}

	if err := s.client.RemoveWatchlist(ctx, offerID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.items, offerID)
	s.mu.Unlock()

	return nil
}

// IsWatched is a pure lookup; display surfaces call it per offer without a
// network round-trip.
func (s *Synchronizer) IsWatched(offerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[offerID]
	return ok
}

// Items returns the saved offers ordered by offer id for stable display.
func (s *Synchronizer) Items() []models.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.WatchlistItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].OfferID < items[j].OfferID })
	return items
}

// Len returns the number of saved offers.
func (s *Synchronizer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
