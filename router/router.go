package router

import (
	"go-forum-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-forum-api/docs"
)

func NewRouter(
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	destinationHandler *handler.DestinationHandler,
	authMiddleware func(http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Auth endpoints. Refresh and logout authenticate via the session
	// cookies, not the access token.
	mux.Handle("POST /api/register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /api/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/accessToken", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /api/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))

	// Destinations. Listing is public, writes require a valid access token.
	mux.Handle("GET /api/destinations", handler.ErrorHandlingMiddleware(destinationHandler.List))
	mux.Handle("POST /api/destinations", authMiddleware(handler.ErrorHandlingMiddleware(destinationHandler.Create)))
	mux.Handle("PUT /api/destinations/{id}", authMiddleware(handler.ErrorHandlingMiddleware(destinationHandler.Update)))
	mux.Handle("DELETE /api/destinations/{id}", authMiddleware(handler.ErrorHandlingMiddleware(destinationHandler.Delete)))

	// Admin routes.
	mux.Handle("GET /api/admin/users",
		authMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.ListUsers))))
	mux.Handle("PUT /api/admin/users/{id}/role",
		authMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole))))

	return mux
}
