package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"pet-care-platform/internal/router"
)

func TestHTTP_EndToEnd_FeedVerificationFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	creatorID := "creator-1"

	// 1) Creador registra un alimento nuevo
	feedID := createFeed(t, ts.URL, creatorID, "NutriCat Adult", "NutriCo")

	// 2) Mismo nombre+marca desde otro usuario => match, no duplica
	{
		st, body := doReq(t, ts.URL, "POST", "/feeds", "other-user", feedPayload("NutriCat Adult", "NutriCo"))
		if st != http.StatusOK {
			t.Fatalf("expected 200 matching feed, got %d body=%s", st, string(body))
		}
		var resp struct {
			Feed struct {
				ID string `json:"id"`
			} `json:"feed"`
			IsExisting bool `json:"is_existing"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.IsExisting || resp.Feed.ID != feedID {
			t.Fatalf("expected existing feed %s, got %+v", feedID, resp)
		}
	}

	// 3) El creador no puede revisar su propio alimento
	{
		st, _ := doReq(t, ts.URL, "POST", "/feeds/"+feedID+"/reviews", creatorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 creator self-review, got %d", st)
		}
	}

	// 4) Cinco usuarios distintos confirman => verificado
	for i := 1; i <= 5; i++ {
		userID := fmt.Sprintf("reviewer-%d", i)

		st, body := doReq(t, ts.URL, "GET", "/feeds/"+feedID+"/review-check", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 review-check, got %d body=%s", st, string(body))
		}
		var check struct {
			Reviewed bool `json:"reviewed"`
			Reported bool `json:"reported"`
		}
		_ = json.Unmarshal(body, &check)
		if check.Reviewed || check.Reported {
			t.Fatalf("reviewer %d should have no prior decision: %+v", i, check)
		}

		st, body = doReq(t, ts.URL, "POST", "/feeds/"+feedID+"/reviews", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 confirm review, got %d body=%s", st, string(body))
		}
		var out struct {
			ReviewCount int  `json:"review_count"`
			IsVerified  bool `json:"is_verified"`
		}
		_ = json.Unmarshal(body, &out)
		if out.ReviewCount != i {
			t.Fatalf("expected review_count=%d, got %d", i, out.ReviewCount)
		}
		if out.IsVerified != (i >= 5) {
			t.Fatalf("expected is_verified=%v at count %d", i >= 5, i)
		}
	}

	// 5) Confirmar dos veces es idempotente
	{
		st, body := doReq(t, ts.URL, "POST", "/feeds/"+feedID+"/reviews", "reviewer-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 repeat confirm, got %d body=%s", st, string(body))
		}
		var out struct {
			ReviewCount int `json:"review_count"`
		}
		_ = json.Unmarshal(body, &out)
		if out.ReviewCount != 5 {
			t.Fatalf("repeat confirm must not bump count, got %d", out.ReviewCount)
		}
	}

	// 6) Un reporte de error ya no cambia los datos del feed verificado,
	// pero se registra la decisión del usuario
	{
		st, body := doReq(t, ts.URL, "POST", "/feeds/"+feedID+"/error-reports", "reporter-1", map[string]any{
			"categories":  []string{"price"},
			"description": "lo vi más barato",
			"corrected":   map[string]any{"price": 9.99},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 error report, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/feeds/"+feedID+"/review-check", "reporter-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 review-check after report, got %d", st)
		}
		var check struct {
			Reported bool `json:"reported"`
		}
		_ = json.Unmarshal(body, &check)
		if !check.Reported {
			t.Fatalf("expected reported=true after error report, body=%s", string(body))
		}
	}
}

func TestHTTP_EndToEnd_Calculation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"

	// Mascota persistida
	petID := createPet(t, ts.URL, ownerID)
	feedID := createFeed(t, ts.URL, "someone-else", "DogPower", "CanineCorp")

	// Cálculo con mascota persistida
	{
		fields := calcFields(feedID)
		fields["pet_id"] = petID
		fields["pet_type"] = "dog"

		st, body := doMultipart(t, ts.URL, ownerID, fields)
		if st != http.StatusOK {
			t.Fatalf("expected 200 calculation, got %d body=%s", st, string(body))
		}
		var out struct {
			DailyMEKcal      float64 `json:"daily_ME_kcal"`
			DailyFeedAmountG float64 `json:"daily_feed_amount_g"`
		}
		_ = json.Unmarshal(body, &out)
		if out.DailyMEKcal <= 0 || out.DailyFeedAmountG <= 0 {
			t.Fatalf("expected positive energy and ration, got %+v", out)
		}
	}

	// Otro usuario no puede calcular con una mascota ajena
	{
		fields := calcFields(feedID)
		fields["pet_id"] = petID
		fields["pet_type"] = "dog"

		st, _ := doMultipart(t, ts.URL, "intruder", fields)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 foreign pet, got %d", st)
		}
	}

	// Mascota temporal: sin pet_id, con condiciones en ambos formatos
	{
		fields := calcFields(feedID)
		fields["pet_type"] = "cat"
		fields["conditions"] = `["kidney disease"]`

		st, body := doMultipart(t, ts.URL, "anon-user", fields)
		if st != http.StatusOK {
			t.Fatalf("expected 200 temporary pet calc, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_EndToEnd_SocialFeed(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	authorID := "author-1"
	readerID := "reader-1"

	// Post nuevo
	st, body := doReq(t, ts.URL, "POST", "/posts", authorID, map[string]any{
		"body": "Milo probó su nuevo alimento",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create post, got %d body=%s", st, string(body))
	}
	var post struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &post)

	// Like toggle: on y off
	for i, want := range []bool{true, false} {
		st, body := doReq(t, ts.URL, "POST", "/posts/"+post.ID+"/like", readerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 toggle like, got %d body=%s", st, string(body))
		}
		var out struct {
			Liked     bool `json:"liked"`
			LikeCount int  `json:"like_count"`
		}
		_ = json.Unmarshal(body, &out)
		if out.Liked != want {
			t.Fatalf("toggle %d: expected liked=%v, got %+v", i, want, out)
		}
	}

	// Comentario suma al contador
	st, body = doReq(t, ts.URL, "POST", "/posts/"+post.ID+"/comments", readerID, map[string]any{
		"body": "qué bueno!",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 comment, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/posts/"+post.ID, readerID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get post, got %d", st)
	}
	var got struct {
		CommentCount int `json:"comment_count"`
	}
	_ = json.Unmarshal(body, &got)
	if got.CommentCount != 1 {
		t.Fatalf("expected comment_count=1, got %d", got.CommentCount)
	}

	// Follow / unfollow
	if st, _ := doReq(t, ts.URL, "POST", "/users/"+authorID+"/follow", readerID, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 follow, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/users/"+authorID+"/follow", readerID, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 unfollow, got %d", st)
	}

	// Solo el autor borra su post
	if st, _ := doReq(t, ts.URL, "DELETE", "/posts/"+post.ID, readerID, nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 delete by non-author, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/posts/"+post.ID, authorID, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 delete by author, got %d", st)
	}
}

func TestHTTP_DiseaseArchives_Search(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "vet-1"

	st, body := doReq(t, ts.URL, "POST", "/disease-archives", userID, map[string]any{
		"title":    "Insuficiencia renal crónica en gatos",
		"species":  "cat",
		"symptoms": []string{"polidipsia", "pérdida de peso"},
		"body":     "Caso de gato senior con IRC...",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create archive, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/disease-archives?species=cat&q=renal", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 search archives, got %d", st)
	}
	var list struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	_ = json.Unmarshal(body, &list)
	if len(list.Results) != 1 {
		t.Fatalf("expected 1 archive matching, got %d body=%s", len(list.Results), string(body))
	}

	st, _ = doReq(t, ts.URL, "GET", "/disease-archives?species=dog", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 empty search, got %d", st)
	}
}

func createPet(t *testing.T, baseURL, userID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, map[string]any{
		"name":       "Milo",
		"species":    "dog",
		"weight":     12.5,
		"height":     40,
		"life_stage": "adult",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func feedPayload(name, brand string) map[string]any {
	return map[string]any{
		"name":  name,
		"brand": brand,
		"price": 25.90,
		"nutrients": map[string]any{
			"protein":      30.0,
			"fat":          12.0,
			"carbohydrate": 40.0,
			"calcium":      1.1,
			"phosphorus":   0.9,
			"magnesium_mg": 80.0,
			"sodium_mg":    350.0,
		},
	}
}

func createFeed(t *testing.T, baseURL, userID, name, brand string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/feeds", userID, feedPayload(name, brand))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create feed, got %d body=%s", st, string(body))
	}

	var resp struct {
		Feed struct {
			ID string `json:"id"`
		} `json:"feed"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Feed.ID == "" {
		t.Fatalf("create feed: missing id body=%s", string(body))
	}
	return resp.Feed.ID
}

func calcFields(feedID string) map[string]string {
	return map[string]string{
		"weight":       "4",
		"height":       "25",
		"life_stage":   "adult",
		"feed_id":      feedID,
		"protein":      "30",
		"fat":          "12",
		"carbohydrate": "40",
		"calcium":      "1.1",
		"phosphorus":   "0.9",
		"magnesium_mg": "80",
		"sodium_mg":    "350",
	}
}

func doMultipart(t *testing.T, baseURL, debugUserID string, fields map[string]string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest("POST", baseURL+"/calculations", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", debugUserID)
	req.Header.Set("Content-Length", strconv.Itoa(buf.Len()))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
