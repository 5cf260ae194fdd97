package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/protomem/daily-diet/internal/model"
)

const (
	_sessionCookieName   = "sessionId"
	_sessionCookiePath   = "/"
	_sessionCookieMaxAge = 86400 // 24h
)

func userIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "userId"))
	return model.ID(id.String()), err
}

func mealIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "mealId"))
	return model.ID(id.String()), err
}

func sessionTokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(_sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// setSessionCookie (re)issues the session token. No HttpOnly/Secure flags,
// matching the service's long-standing cookie policy.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:   _sessionCookieName,
		Value:  token,
		Path:   _sessionCookiePath,
		MaxAge: _sessionCookieMaxAge,
	})
}
