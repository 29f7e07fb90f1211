package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	TokenHeader    = "X-CSRF-Token"
	TokenFormField = "csrf_token"
)

// CSRFTokenStore issues one-shot tokens that expire after ttl.
type CSRFTokenStore struct {
	ttl    time.Duration
	now    func() time.Time
	tokens map[string]time.Time
	mutex  sync.Mutex

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewCSRFTokenStore starts a goroutine that sweeps expired tokens every
// interval. Call Close to stop it.
func NewCSRFTokenStore(ttl, interval time.Duration) *CSRFTokenStore {
	store := &CSRFTokenStore{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]time.Time),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go store.cleanup(interval)
	return store
}

func (store *CSRFTokenStore) cleanup(interval time.Duration) {
	defer close(store.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-store.stop:
			return
		case <-ticker.C:
			store.sweep()
		}
	}
}

func (store *CSRFTokenStore) sweep() {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	now := store.now()
	for token, expiry := range store.tokens {
		if now.After(expiry) {
			delete(store.tokens, token)
		}
	}
}

func (store *CSRFTokenStore) Close() {
	store.once.Do(func() { close(store.stop) })
	<-store.done
}

func (store *CSRFTokenStore) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(bytes)

	store.mutex.Lock()
	store.tokens[token] = store.now().Add(store.ttl)
	store.mutex.Unlock()

	return token, nil
}

// ConsumeToken reports whether token is live and removes it.
func (store *CSRFTokenStore) ConsumeToken(token string) bool {
	if token == "" {
		return false
	}

	store.mutex.Lock()
	defer store.mutex.Unlock()

	expiry, exists := store.tokens[token]
	if !exists {
		return false
	}
	delete(store.tokens, token)

	return !store.now().After(expiry)
}

func (store *CSRFTokenStore) size() int {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return len(store.tokens)
}

// CSRFMiddleware rejects unsafe requests that do not carry a live token in
// the X-CSRF-Token header or the csrf_token form field.
func CSRFMiddleware(store *CSRFTokenStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(TokenHeader)
			if token == "" {
				token = r.FormValue(TokenFormField)
			}

			if !store.ConsumeToken(token) {
				logger.Debug("csrf token rejected",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				http.Error(w, "Invalid or missing CSRF token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func CSRFTokenHandler(store *CSRFTokenStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := store.GenerateToken()
		if err != nil {
			logger.Error("generate csrf token", zap.Error(err))
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{TokenFormField: token})
	}
}
