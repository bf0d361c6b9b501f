package history

import "nichelens-be/pkg/identity"

// Resolver picks the active backend from the session. Nothing else branches
// on backend type.
type Resolver struct {
	Local  Store
	Remote func(s identity.Session) Store
}

func NewResolver(local Store, backendURL string) *Resolver {
	return &Resolver{
		Local: local,
		Remote: func(s identity.Session) Store {
			return NewRemoteStore(backendURL, s.Token, s.OwnerID)
		},
	}
}

func (r *Resolver) For(s identity.Session) Store {
	if s.UsesRemote() && r.Remote != nil {
		return r.Remote(s)
	}
	return r.Local
}
