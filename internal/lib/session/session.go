// Package session хранит участника запроса в подписанной cookie.
package session

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/magabrotheeeer/webshop/internal/config"
	"github.com/magabrotheeeer/webshop/internal/models"
)

const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyRole     = "role"
)

// ErrNoSession в запросе нет действующей сессии.
var ErrNoSession = errors.New("no session")

// Manager сохраняет и читает участника из cookie-сессии.
type Manager struct {
	store *sessions.CookieStore
	name  string
}

// New создаёт Manager с cookie HttpOnly и SameSite=Lax.
func New(cfg config.Session) *Manager {
	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   cfg.MaxAge,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, name: cfg.SessionName}
}

// Save записывает участника в сессию.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, p models.Principal) error {
	const op = "session.Save"
	s, _ := m.store.Get(r, m.name)
	s.Values[keyUserID] = p.UserID
	s.Values[keyUsername] = p.Username
	s.Values[keyRole] = int(p.Role)
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load возвращает участника из сессии или ErrNoSession.
func (m *Manager) Load(r *http.Request) (*models.Principal, error) {
	s, err := m.store.Get(r, m.name)
	if err != nil || s.IsNew {
		return nil, ErrNoSession
	}
	id, ok := s.Values[keyUserID].(int64)
	if !ok {
		return nil, ErrNoSession
	}
	username, _ := s.Values[keyUsername].(string)
	role, _ := s.Values[keyRole].(int)
	if !models.Role(role).Valid() {
		return nil, ErrNoSession
	}
	return &models.Principal{UserID: id, Username: username, Role: models.Role(role)}, nil
}

// Clear завершает сессию, выставляя просроченную cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	const op = "session.Clear"
	s, _ := m.store.Get(r, m.name)
	s.Values = map[any]any{}
	s.Options.MaxAge = -1
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
