package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// OAuthState is what the login start leaves behind for its callback.
type OAuthState struct {
	Provider     string
	CodeVerifier string
	CreatedAt    time.Time
}

// OAuthStateRepository keeps pending login states until the callback
// consumes them or they expire.
type OAuthStateRepository struct {
	cache *cache.Cache
}

func NewOAuthStateRepository(ttl time.Duration) *OAuthStateRepository {
	return &OAuthStateRepository{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *OAuthStateRepository) Save(state string, s *OAuthState) {
	r.cache.Set(state, s, cache.DefaultExpiration)
}

// Take returns the state and removes it so a callback cannot be replayed.
func (r *OAuthStateRepository) Take(state string) (*OAuthState, bool) {
	x, found := r.cache.Get(state)
	if !found {
		return nil, false
	}
	r.cache.Delete(state)
	s, ok := x.(*OAuthState)
	return s, ok
}
