package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "pet-care-platform/internal/adapters/storage/memory"
	pg "pet-care-platform/internal/adapters/storage/postgres"
	"pet-care-platform/internal/domain/calculator"
	"pet-care-platform/internal/domain/diseases"
	"pet-care-platform/internal/domain/feeds"
	"pet-care-platform/internal/domain/pets"
	"pet-care-platform/internal/domain/posts"
	"pet-care-platform/internal/domain/reviews"
	"pet-care-platform/internal/middleware"
	"pet-care-platform/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		petRepo     pets.Repository
		feedRepo    feeds.Repository
		reviewRepo  reviews.Repository
		postRepo    posts.Repository
		diseaseRepo diseases.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		feedRepo = pg.NewFeedsRepo(db)
		reviewRepo = pg.NewReviewsRepo(db)
		postRepo = pg.NewPostsRepo(db)
		diseaseRepo = pg.NewDiseasesRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
		feedRepo = mem.NewFeedRepo()
		reviewRepo = mem.NewReviewRepo()
		postRepo = mem.NewPostRepo()
		diseaseRepo = mem.NewDiseaseRepo()
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	feedsSvc := feeds.NewService(feedRepo)
	reviewsSvc := reviews.NewService(reviewRepo, feedsSvc)
	calcSvc := calculator.NewService(petsSvc, feedsSvc)
	postsSvc := posts.NewService(postRepo)
	diseasesSvc := diseases.NewService(diseaseRepo)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	feeds.RegisterRoutes(r, feedsSvc)
	reviews.RegisterRoutes(r, reviewsSvc)
	calculator.RegisterRoutes(r, calcSvc)
	posts.RegisterRoutes(r, postsSvc)
	diseases.RegisterRoutes(r, diseasesSvc)

	return r
}
