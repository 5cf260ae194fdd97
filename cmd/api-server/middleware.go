package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/protomem/daily-diet/internal/ctxstore"
	"github.com/protomem/daily-diet/internal/database"
	"github.com/protomem/daily-diet/internal/model"
	"github.com/protomem/daily-diet/internal/response"
	"github.com/rs/cors"

	"github.com/tomasen/realip"
)

const (
	_traceIDKey     = ctxstore.Key("traceId")
	_sessionUserKey = ctxstore.Key("sessionUser")
)

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := genTraceID()
		ctx := ctxstore.With(r.Context(), _traceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.MustFrom[string](r.Context(), _traceIDKey)
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, _traceIDKey.String(), tid)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}

// requireSession resolves the sessionId cookie to a user row and stores the
// user in the request context. Gate for every meal and metrics route.
func (app *application) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := app.logger.With(
			_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
		)

		token, ok := sessionTokenFromRequest(r)
		if !ok {
			app.errorMessage(w, r, http.StatusUnauthorized, model.ErrUnauthenticated.Error(), nil)
			return
		}

		dao := database.NewUserDAO(logger, app.db)

		user, err := dao.GetBySessionToken(ctx, token)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
				return
			}

			app.serverError(w, r, err)
			return
		}

		ctx = ctxstore.With(ctx, _sessionUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
