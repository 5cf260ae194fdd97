package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slices"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/api/v1/status", app.handleStatus)

	mux.Route("/diet", func(mux chi.Router) {
		mux.Post("/user", app.handleRegisterUser)
		mux.Get("/user/{userId}", app.handleResumeSession)

		mux.Group(func(mux chi.Router) {
			mux.Use(app.requireSession)

			mux.Post("/meal", app.handleCreateMeal)
			mux.Put("/meal/{mealId}", app.handleUpdateMeal)
			mux.Delete("/meal/{mealId}", app.handleDeleteMeal)
			mux.Get("/meal/{mealId}", app.handleGetMeal)

			mux.Get("/meals/{userId}", app.handleListMeals)
			mux.Get("/metrics/{userId}", app.handleMetrics)
		})
	})

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	slices.Sort(parsedRoutes)
	return parsedRoutes
}
