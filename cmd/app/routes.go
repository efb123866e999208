package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	// a known path with the wrong method is still an unknown endpoint
	router.HandleMethodNotAllowed = false
	router.NotFound = http.HandlerFunc(app.unknownEndpointResponse)

	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthCheckHandler)

	router.HandlerFunc(http.MethodGet, "/api/blogs", app.getBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.authenticate(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/api/blogs/:id", app.updateBlogHandler)
	router.HandlerFunc(http.MethodDelete, "/api/blogs/:id", app.authenticate(app.deleteBlogHandler))

	router.HandlerFunc(http.MethodGet, "/api/users", app.getUsersHandler)
	router.HandlerFunc(http.MethodPost, "/api/users", app.createUserHandler)

	router.HandlerFunc(http.MethodPost, "/api/login", app.loginUserHandler)

	return app.recoverPanic(app.logRequest(app.enableCORS(app.rateLimit(router))))
}
