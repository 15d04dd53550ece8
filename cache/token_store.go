package cache

import "context"

// TokenStore persists the raw bearer token under its own key so a restart
// can resume the session even when the snapshot entry has aged out. The
// token carries its own expiry claim, so no TTL is applied here.
type TokenStore struct {
	store Store
}

// NewTokenStore creates a TokenStore over store.
func NewTokenStore(store Store) *TokenStore {
	return &TokenStore{store: store}
}

// Load returns the persisted token, or the empty string on miss or
// storage failure.
func (t *TokenStore) Load(ctx context.Context) string {
	data, err := t.store.Get(ctx, TokenKey)
	if err != nil {
		return ""
	}
	return string(data)
}

// Save persists the token.
func (t *TokenStore) Save(ctx context.Context, tok string) error {
	return t.store.Set(ctx, TokenKey, []byte(tok), 0)
}

// Clear deletes the persisted token. Idempotent.
func (t *TokenStore) Clear(ctx context.Context) error {
	return t.store.Delete(ctx, TokenKey)
}
