package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"kalemmeydani/internal/models"

	"github.com/gofiber/fiber/v2"
)

func postBody(overrides map[string]interface{}) []byte {
	fields := map[string]interface{}{
		"title":    "On the craft of the short essay",
		"content":  "A body long enough to satisfy the publication floor, with a little room to spare for good measure.",
		"excerpt":  "Notes on the short essay form.",
		"category": "deneme",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	body, _ := json.Marshal(fields)
	return body
}

func TestCreatePostEndpoint(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	author := createHandlerTestUser(t, db, "postauthor", false)

	app := fiber.New()
	app.Post("/api/posts", authAs(author.ID), s.CreatePost)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(postBody(nil)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var post models.Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if post.Status != models.PostStatusPublished {
		t.Fatalf("expected published default, got %s", post.Status)
	}
	if post.UserID != author.ID {
		t.Fatalf("expected author %d, got %d", author.ID, post.UserID)
	}

	var reloaded models.User
	if err := db.First(&reloaded, author.ID).Error; err != nil {
		t.Fatalf("reload author: %v", err)
	}
	if reloaded.PostsCount != 1 {
		t.Fatalf("expected posts_count 1 after publish, got %d", reloaded.PostsCount)
	}
}

func TestCreatePostEndpointValidation(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	author := createHandlerTestUser(t, db, "badauthor", false)

	app := fiber.New()
	app.Post("/api/posts", authAs(author.ID), s.CreatePost)

	tests := []struct {
		name string
		body []byte
	}{
		{"title too short", postBody(map[string]interface{}{"title": "Hi"})},
		{"content too short", postBody(map[string]interface{}{"content": "Too short."})},
		{"missing category", postBody(map[string]interface{}{"category": ""})},
		{"invalid status", postBody(map[string]interface{}{"status": "in_battle"})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestGetPostHidesDrafts(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	author := createHandlerTestUser(t, db, "draftauthor", false)
	draft := createHandlerTestPost(t, db, author.ID, "Hidden draft piece", models.PostStatusDraft)

	app := fiber.New()
	app.Get("/api/posts/:id", s.GetPost)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/posts/%d", draft.ID), nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Anonymous readers must not learn the draft exists.
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdatePostEndpointOwnership(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	owner := createHandlerTestUser(t, db, "postowner", false)
	stranger := createHandlerTestUser(t, db, "poststranger", false)
	post := createHandlerTestPost(t, db, owner.ID, "Owned post title", models.PostStatusPublished)

	app := fiber.New()
	app.Put("/api/posts/:id", authAs(stranger.ID), s.UpdatePost)

	req := httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/posts/%d", post.ID), bytes.NewReader(postBody(nil)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestDeletePostEndpointRefusesInBattle(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	owner := createHandlerTestUser(t, db, "deleteowner", false)
	post := createHandlerTestPost(t, db, owner.ID, "Contested deletion", models.PostStatusInBattle)

	app := fiber.New()
	app.Delete("/api/posts/:id", authAs(owner.ID), s.DeletePost)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/posts/%d", post.ID), nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetPostBattlesEndpoint(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	author := createHandlerTestUser(t, db, "recordauthor", false)
	postA := createHandlerTestPost(t, db, author.ID, "Record post one", models.PostStatusPublished)
	postB := createHandlerTestPost(t, db, author.ID, "Record post two", models.PostStatusPublished)
	battle := createHandlerTestBattle(t, db, postA, postB)

	app := fiber.New()
	app.Get("/api/posts/:id/battles", s.GetPostBattles)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/posts/%d/battles", postA.ID), nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Battles []models.Battle `json:"battles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Battles) != 1 || payload.Battles[0].ID != battle.ID {
		t.Fatalf("expected battle %d in record, got %+v", battle.ID, payload.Battles)
	}
}

func TestGetPostsSearchAndPagination(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	author := createHandlerTestUser(t, db, "listauthor", false)
	createHandlerTestPost(t, db, author.ID, "Istanbul at daybreak", models.PostStatusPublished)
	createHandlerTestPost(t, db, author.ID, "Ankara in winter", models.PostStatusPublished)
	createHandlerTestPost(t, db, author.ID, "Hidden draft on Istanbul", models.PostStatusDraft)

	app := fiber.New()
	app.Get("/api/posts", s.GetPosts)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?q=istanbul", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Total != 1 || len(payload.Posts) != 1 {
		t.Fatalf("expected one visible match, got total=%d len=%d", payload.Total, len(payload.Posts))
	}
	if payload.Posts[0].Title != "Istanbul at daybreak" {
		t.Fatalf("wrong post matched: %s", payload.Posts[0].Title)
	}
}
