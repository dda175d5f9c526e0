package posts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-care-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/posts", func(pr chi.Router) {
		pr.Post("/", createPostHandler(svc))
		pr.Get("/", listPostsHandler(svc))
		pr.Get("/{postID}", getPostHandler(svc))
		pr.Delete("/{postID}", deletePostHandler(svc))
		pr.Post("/{postID}/like", toggleLikeHandler(svc))
		pr.Post("/{postID}/save", setSaveHandler(svc, true))
		pr.Delete("/{postID}/save", setSaveHandler(svc, false))
		pr.Post("/{postID}/comments", addCommentHandler(svc))
		pr.Get("/{postID}/comments", listCommentsHandler(svc))
	})

	r.Post("/users/{userID}/follow", followHandler(svc, true))
	r.Delete("/users/{userID}/follow", followHandler(svc, false))
	r.Get("/users/{userID}/followers", listEdgeHandler(svc, true))
	r.Get("/users/{userID}/following", listEdgeHandler(svc, false))
}

type postResponse struct {
	ID           string    `json:"id"`
	AuthorUserID string    `json:"author_user_id"`
	Body         string    `json:"body"`
	Images       []string  `json:"images,omitempty"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type commentResponse struct {
	ID           string    `json:"id"`
	PostID       string    `json:"post_id"`
	AuthorUserID string    `json:"author_user_id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

func createPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			Body   string   `json:"body"`
			Images []string `json:"images"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{Body: req.Body, Images: req.Images})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toPostResponse(p))
	}
}

func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		items, err := svc.List(r.Context(), offset, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]postResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPostResponse(p))
		}
		// Forma normalizada: siempre {"results": [...]}.
		writeJSON(w, http.StatusOK, map[string]any{"results": out})
	}
}

func getPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPostResponse(p))
	}
}

func deletePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "postID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "post not found", http.StatusNotFound)
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toggleLikeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		liked, count, err := svc.ToggleLike(r.Context(), claims.UserID, chi.URLParam(r, "postID"))
		if err != nil {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"liked": liked, "like_count": count})
	}
}

func setSaveHandler(svc *Service, saved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.SetSaved(r.Context(), claims.UserID, chi.URLParam(r, "postID"), saved); err != nil {
			http.Error(w, "post not found", http.StatusNotFound)
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

		c, err := svc.AddComment(r.Context(), claims.UserID, chi.URLParam(r, "postID"), req.Body)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "comment body required", http.StatusBadRequest)
				return
			}
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusCreated, toCommentResponse(c))
	}
}

func listCommentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListComments(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]commentResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCommentResponse(c))
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": out})
	}
}

func followHandler(svc *Service, follow bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		target := chi.URLParam(r, "userID")
		var err error
		if follow {
			err = svc.Follow(r.Context(), claims.UserID, target)
		} else {
			err = svc.Unfollow(r.Context(), claims.UserID, target)
		}
		if err != nil {
			http.Error(w, "invalid follow target", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listEdgeHandler(svc *Service, followers bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		var (
			ids []string
			err error
		)
		if followers {
			ids, err = svc.ListFollowers(r.Context(), userID)
		} else {
			ids, err = svc.ListFollowing(r.Context(), userID)
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": ids})
	}
}

func toPostResponse(p Post) postResponse {
	return postResponse{
		ID:           p.ID,
		AuthorUserID: p.AuthorUserID,
		Body:         p.Body,
		Images:       p.Images,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
	}
}

func toCommentResponse(c Comment) commentResponse {
	return commentResponse{
		ID:           c.ID,
		PostID:       c.PostID,
		AuthorUserID: c.AuthorUserID,
		Body:         c.Body,
		CreatedAt:    c.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
