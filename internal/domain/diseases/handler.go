package diseases

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-care-platform/internal/domain/pets"
	"pet-care-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/disease-archives", func(dr chi.Router) {
		dr.Post("/", createArchiveHandler(svc))
		dr.Get("/", listArchivesHandler(svc))
		dr.Get("/{archiveID}", getArchiveHandler(svc))
		dr.Delete("/{archiveID}", deleteArchiveHandler(svc))
		dr.Post("/{archiveID}/comments", addCommentHandler(svc))
		dr.Get("/{archiveID}/comments", listCommentsHandler(svc))
	})
}

type archiveResponse struct {
	ID           string    `json:"id"`
	AuthorUserID string    `json:"author_user_id"`
	Title        string    `json:"title"`
	Species      string    `json:"species,omitempty"`
	Symptoms     []string  `json:"symptoms,omitempty"`
	Body         string    `json:"body"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func createArchiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			Title    string   `json:"title"`
			Species  string   `json:"species"`
			Symptoms []string `json:"symptoms"`
			Body     string   `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Title:    req.Title,
			Species:  pets.Species(strings.TrimSpace(req.Species)),
			Symptoms: req.Symptoms,
			Body:     req.Body,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toArchiveResponse(a))
	}
}

func listArchivesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offset, _ := strconv.Atoi(q.Get("offset"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		items, err := svc.List(r.Context(), ListFilter{
			Species: pets.Species(strings.TrimSpace(q.Get("species"))),
			Query:   strings.TrimSpace(q.Get("q")),
			Offset:  offset,
			Limit:   limit,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "unknown species", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]archiveResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toArchiveResponse(a))
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": out})
	}
}

func getArchiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "archiveID"))
		if err != nil {
			http.Error(w, "archive not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toArchiveResponse(a))
	}
}

func deleteArchiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "archiveID")); err != nil {
			if errors.Is(err, ErrForbidden) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "archive not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addCommentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			Body string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.AddComment(r.Context(), claims.UserID, chi.URLParam(r, "archiveID"), req.Body)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "comment body required", http.StatusBadRequest)
				return
			}
			http.Error(w, "archive not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":             c.ID,
			"archive_id":     c.ArchiveID,
			"author_user_id": c.AuthorUserID,
			"body":           c.Body,
			"created_at":     c.CreatedAt,
		})
	}
}

func listCommentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListComments(r.Context(), chi.URLParam(r, "archiveID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]map[string]any, 0, len(items))
		for _, c := range items {
			out = append(out, map[string]any{
				"id":             c.ID,
				"archive_id":     c.ArchiveID,
				"author_user_id": c.AuthorUserID,
				"body":           c.Body,
				"created_at":     c.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": out})
	}
}

func toArchiveResponse(a Archive) archiveResponse {
	return archiveResponse{
		ID:           a.ID,
		AuthorUserID: a.AuthorUserID,
		Title:        a.Title,
		Species:      string(a.Species),
		Symptoms:     a.Symptoms,
		Body:         a.Body,
		CommentCount: a.CommentCount,
		CreatedAt:    a.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
