package main

import (
	"log/slog"
	"net/http"

	"github.com/neartasks/platform/internal/handlers"
	"github.com/neartasks/platform/internal/middleware"
	"github.com/neartasks/platform/internal/session"
	"github.com/neartasks/platform/internal/storage"
)

// RegisterRoutes adds the /api/v1 endpoints to the mux. Every route runs
// behind session auth; permission checks beyond identity belong to the
// lifecycle engine.
func RegisterRoutes(
	mux *http.ServeMux,
	sessions *session.Manager,
	blobs *storage.Client,
	sessionSecret []byte,
	logger *slog.Logger,
) {
	th := &handlers.TaskHandler{Sessions: sessions, Logger: logger}
	ph := &handlers.PlatformHandler{Sessions: sessions, Blobs: blobs, Logger: logger}

	auth := middleware.SessionAuth(sessionSecret)

	mux.Handle("GET /api/v1/tasks", auth(http.HandlerFunc(th.ListTasks)))
	mux.Handle("POST /api/v1/tasks", auth(http.HandlerFunc(th.CreateTask)))
	mux.Handle("GET /api/v1/tasks/{id}", auth(http.HandlerFunc(th.GetTask)))
	mux.Handle("DELETE /api/v1/tasks/{id}", auth(http.HandlerFunc(th.Delete)))
	mux.Handle("POST /api/v1/tasks/{id}/apply", auth(http.HandlerFunc(th.Apply)))
	mux.Handle("POST /api/v1/tasks/{id}/assign", auth(http.HandlerFunc(th.Assign)))
	mux.Handle("POST /api/v1/tasks/{id}/unassign", auth(http.HandlerFunc(th.Unassign)))
	mux.Handle("POST /api/v1/tasks/{id}/result", auth(http.HandlerFunc(th.SubmitResult)))
	mux.Handle("POST /api/v1/tasks/{id}/complete", auth(http.HandlerFunc(th.Complete)))

	mux.Handle("GET /api/v1/platform/fee", auth(http.HandlerFunc(ph.GetFee)))
	mux.Handle("GET /api/v1/ratings/{account}", auth(http.HandlerFunc(ph.GetRating)))
	mux.Handle("GET /api/v1/account", auth(http.HandlerFunc(ph.GetAccount)))
	mux.Handle("POST /api/v1/uploads", auth(http.HandlerFunc(ph.Upload)))
}
