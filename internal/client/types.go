package client

import "time"

// Nutrients en las unidades del wire: macro/minerales en %, Mg/Na en mg.
type Nutrients struct {
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
	Calcium      float64 `json:"calcium"`
	Phosphorus   float64 `json:"phosphorus"`
	MagnesiumMg  float64 `json:"magnesium_mg"`
	SodiumMg     float64 `json:"sodium_mg"`
}

type Pet struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	Weight      float64    `json:"weight"`
	Height      float64    `json:"height"`
	LifeStage   string     `json:"life_stage"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Notes       string     `json:"notes"`
}

type Feed struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Price         float64   `json:"price"`
	Nutrients     Nutrients `json:"nutrients"`
	IsVerified    bool      `json:"is_verified"`
	ReviewCount   int       `json:"review_count"`
	CreatorUserID string    `json:"creator_user_id"`
}

type Post struct {
	ID           string    `json:"id"`
	AuthorUserID string    `json:"author_user_id"`
	Body         string    `json:"body"`
	Images       []string  `json:"images,omitempty"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Comment struct {
	ID           string    `json:"id"`
	PostID       string    `json:"post_id"`
	AuthorUserID string    `json:"author_user_id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

type DiseaseArchive struct {
	ID           string    `json:"id"`
	AuthorUserID string    `json:"author_user_id"`
	Title        string    `json:"title"`
	Species      string    `json:"species"`
	Symptoms     []string  `json:"symptoms,omitempty"`
	Body         string    `json:"body"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// CalculationResult es la respuesta de POST /calculations ya normalizada.
// Feed viene solo cuando el server generó un snapshot revisado.
type CalculationResult struct {
	Description          string
	DailyMEKcal          float64
	DailyFeedAmountG     float64
	RecommendedNutrients map[string]float64
	ActualIntake         map[string]float64
	Feed                 *Feed
}

type ReviewCheck struct {
	Reviewed bool `json:"reviewed"`
	Reported bool `json:"reported"`
}

type ReviewOutcome struct {
	ReviewCount int  `json:"review_count"`
	IsVerified  bool `json:"is_verified"`
}

type CreateFeedOutcome struct {
	Feed       Feed
	IsExisting bool
}
