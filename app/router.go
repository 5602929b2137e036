package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// entry service
	router.HandlerFunc(http.MethodPost, "/v1/entries", app.createEntryHandler)
	router.HandlerFunc(http.MethodGet, "/v1/entries", app.listEntriesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/entries/:id", app.getEntryHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/entries/:id", app.updateEntryHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/entries/:id", app.deleteEntryHandler)
	router.HandlerFunc(http.MethodGet, "/v1/diary/:date", app.listEntriesByDateHandler)

	// image service
	router.HandlerFunc(http.MethodPost, "/v1/entries/:id/images", app.uploadImageHandler)
	router.HandlerFunc(http.MethodGet, "/v1/images/:id", app.getImageHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/images/:id", app.deleteImageHandler)

	return app.recoverPanic(app.rateLimit(app.logRequest(app.enableCORS(router))))
}
