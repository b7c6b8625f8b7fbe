package app

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

const filePathKey = "file_path"

// sessionId returns the id carried by the request's session cookie.
func (a App) sessionId(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(a.Config.Session.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	if _, err = uuid.Parse(cookie.Value); err != nil {
		return "", false
	}

	return cookie.Value, true
}

// startSession reuses the request's session if the server already holds a
// dataset for it, otherwise it begins a new one. Ids the server never issued
// are not adopted. The cookie is only written once setCookie is called.
func (a App) startSession(r *http.Request) (id string, setCookie func(http.ResponseWriter), err error) {
	if id, ok := a.sessionId(r); ok {
		_, err := a.SessionRepo.Get(r.Context(), id, filePathKey)
		if err == nil {
			return id, func(http.ResponseWriter) {}, nil
		} else if !errors.Is(err, ErrSessionValueNotFound) {
			return "", nil, err
		}
	}

	id = uuid.New().String()
	return id, func(w http.ResponseWriter) {
		http.SetCookie(w, &http.Cookie{
			Name:     a.Config.Session.CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}, nil
}
