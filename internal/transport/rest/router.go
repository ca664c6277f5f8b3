package rest

import "net/http"

// Handlers groups everything the router serves. Changes and Metrics are optional.
type Handlers struct {
	Health   *HealthHandler
	Terms    *TermHandler
	Collab   *CollabHandler
	Versions *VersionHandler
	Reviews  *ReviewHandler
	Changes  *ChangeHandler
	Metrics  http.Handler
}

// NewRouter registers every route on a new ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Terms.
	mux.HandleFunc("GET /terms", h.Terms.List)
	mux.HandleFunc("POST /terms", h.Terms.Add)
	mux.HandleFunc("POST /terms/search", h.Terms.Search)
	mux.HandleFunc("GET /terms/{id}", h.Terms.Get)
	mux.HandleFunc("PUT /terms/{id}", h.Terms.Update)
	mux.HandleFunc("DELETE /terms/{id}", h.Terms.Delete)
	mux.HandleFunc("GET /terms/{id}/history", h.Terms.History)
	mux.HandleFunc("GET /facets", h.Terms.Facets)
	mux.HandleFunc("POST /translate", h.Terms.Translate)
	mux.HandleFunc("POST /merge", h.Terms.Merge)
	mux.HandleFunc("POST /import", h.Terms.Import)
	mux.HandleFunc("POST /flush", h.Terms.Flush)

	// Collaboration.
	mux.HandleFunc("GET /terms/{id}/lock", h.Collab.LockHolder)
	mux.HandleFunc("POST /terms/{id}/lock", h.Collab.AcquireLock)
	mux.HandleFunc("DELETE /terms/{id}/lock", h.Collab.ReleaseLock)
	mux.HandleFunc("GET /locks", h.Collab.ActiveLocks)
	mux.HandleFunc("GET /locks/conflicts", h.Collab.Conflicts)
	mux.HandleFunc("POST /collaborators", h.Collab.Register)
	mux.HandleFunc("GET /collaborators/active", h.Collab.ActiveCollaborators)
	mux.HandleFunc("GET /collaborators/{id}", h.Collab.Collaborator)
	mux.HandleFunc("POST /activities", h.Collab.RecordActivity)
	mux.HandleFunc("GET /activities", h.Collab.ActivityLog)
	mux.HandleFunc("GET /sync", h.Collab.SyncStatus)

	// Versions.
	mux.HandleFunc("GET /versions", h.Versions.List)
	mux.HandleFunc("POST /versions", h.Versions.Create)
	mux.HandleFunc("GET /versions/compare", h.Versions.Compare)
	mux.HandleFunc("GET /versions/{id}", h.Versions.Get)
	mux.HandleFunc("POST /versions/{id}/restore", h.Versions.Restore)

	// Reviews and conflict resolution.
	mux.HandleFunc("POST /reviews", h.Reviews.Create)
	mux.HandleFunc("GET /reviews/pending", h.Reviews.Pending)
	mux.HandleFunc("GET /reviews/{id}", h.Reviews.Get)
	mux.HandleFunc("POST /reviews/{id}/comments", h.Reviews.AddComment)
	mux.HandleFunc("PUT /reviews/{id}/status", h.Reviews.SetStatus)
	mux.HandleFunc("GET /terms/{id}/reviews", h.Reviews.ForTerm)
	mux.HandleFunc("POST /conflicts/resolutions", h.Reviews.Resolve)
	mux.HandleFunc("GET /conflicts/resolutions", h.Reviews.Resolutions)

	if h.Changes != nil {
		mux.HandleFunc("GET /changes", h.Changes.Recent)
	}

	return mux
}
