package sessions

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessionCookieName = "sho-session"

	userIDSessionKey = "userID"
	cartIDSessionKey = "cartID"
)

type SessionStore interface {
	GetUserID(r *http.Request) string
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearUserID(w http.ResponseWriter, r *http.Request) error

	GetCartID(r *http.Request) string
	SetCartID(w http.ResponseWriter, r *http.Request, cartID string) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
	log   *zap.Logger
}

func NewCookieSessionStore(log *zap.Logger, secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store, log: log}
}

// getSession never fails: a cookie that no longer decodes (rotated keys)
// yields a fresh session.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		c.log.Debug("discarding undecodable session cookie", zap.Error(err))
	}
	return session
}

func (c *CookieSessionStore) getString(r *http.Request, key string) string {
	value, ok := c.getSession(r).Values[key].(string)
	if !ok {
		return ""
	}
	return value
}

func (c *CookieSessionStore) setValue(w http.ResponseWriter, r *http.Request, key string, value interface{}) error {
	session := c.getSession(r)
	if value == nil {
		delete(session.Values, key)
	} else {
		session.Values[key] = value
	}
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	return c.getString(r, userIDSessionKey)
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	return c.setValue(w, r, userIDSessionKey, userID)
}

func (c *CookieSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	return c.setValue(w, r, userIDSessionKey, nil)
}

func (c *CookieSessionStore) GetCartID(r *http.Request) string {
	return c.getString(r, cartIDSessionKey)
}

func (c *CookieSessionStore) SetCartID(w http.ResponseWriter, r *http.Request, cartID string) error {
	return c.setValue(w, r, cartIDSessionKey, cartID)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
