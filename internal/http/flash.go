package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const flashCookie = "dompet_flash"

// Notice kinds, matching the CSS classes in the templates.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot notice shown on the next page render.
type Flash struct {
	Kind    string
	Message string
}

// flashStore keeps pending notices server side, keyed by a random cookie.
type flashStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

func newFlashStore(ttl time.Duration) *flashStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &flashStore{cache: gocache.New(ttl, 2*ttl), ttl: ttl}
}

// Add queues a notice for the client, issuing a cookie when it has none.
func (f *flashStore) Add(w http.ResponseWriter, r *http.Request, kind, message string) {
	id := f.sessionID(r)
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
		// Later Adds in the same request must see the new id.
		r.AddCookie(&http.Cookie{Name: flashCookie, Value: id})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []Flash
	if v, ok := f.cache.Get(id); ok {
		pending = v.([]Flash)
	}
	pending = append(pending, Flash{Kind: kind, Message: message})
	f.cache.Set(id, pending, gocache.DefaultExpiration)
}

// Pop returns and forgets the client's pending notices.
func (f *flashStore) Pop(r *http.Request) []Flash {
	id := f.sessionID(r)
	if id == "" {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.cache.Get(id)
	if !ok {
		return nil
	}
	f.cache.Delete(id)
	return v.([]Flash)
}

// sessionID returns the first flash cookie holding a valid uuid.
func (f *flashStore) sessionID(r *http.Request) string {
	for _, c := range r.Cookies() {
		if c.Name != flashCookie {
			continue
		}
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	return ""
}
