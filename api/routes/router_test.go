package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/auth"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/cities"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/restaurants"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/users"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/visits"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/config"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/logger"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/redis"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/security"
)

const sqliteUUIDDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || substr(lower(hex(randomblob(2))),2) || '-a' || substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct {
	revoked []string
}

func (s *stubSessionManager) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

func (s *stubSessionManager) Generate(_ context.Context, _ string) (string, error) {
	return "refresh-token", nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "breadcrumbs",
			ExpirationMinutes: 60,
		},
	}
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS cities (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  city_id TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  last_login_at DATETIME,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS restaurants (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  city_id TEXT NOT NULL,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  image_url TEXT,
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS restaurant_categories (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  restaurant_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  UNIQUE (restaurant_id, category_id)
);`,
		`CREATE TABLE IF NOT EXISTS visits (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  user_id TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  rating INTEGER,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, restaurant_id)
);`,
		`CREATE TABLE IF NOT EXISTS images (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  visit_id TEXT NOT NULL,
  url TEXT NOT NULL,
  taken_at DATETIME,
  rating INTEGER,
  uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS connections (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  user_a_id TEXT NOT NULL,
  user_b_id TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_a_id, user_b_id)
);`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

type scenario struct {
	ashley    *models.User
	bob       *models.User
	cat       *models.User
	chambarID uuid.UUID
}

func seedScenario(t *testing.T, db *gorm.DB) scenario {
	t.Helper()

	city := &models.City{ID: uuid.New(), Name: "Vancouver"}
	if err := db.Create(city).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}

	hash, err := security.HashPassword("hunter2hunter2", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	mkUser := func(first, last, email string) *models.User {
		user := &models.User{
			ID:           uuid.New(),
			CityID:       city.ID,
			Email:        email,
			PasswordHash: hash,
			FirstName:    first,
			LastName:     last,
		}
		if err := db.Create(user).Error; err != nil {
			t.Fatalf("seed user %s: %v", email, err)
		}
		return user
	}
	ashley := mkUser("Ashley", "Chen", "ashley@example.com")
	bob := mkUser("Bob", "Ng", "bob@example.com")
	cat := mkUser("Cat", "Lee", "cat@example.com")

	mkRestaurant := func(name string) uuid.UUID {
		row := &models.Restaurant{
			ID:        uuid.New(),
			CityID:    city.ID,
			Name:      name,
			Latitude:  49.2798,
			Longitude: -123.1092,
		}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed restaurant %s: %v", name, err)
		}
		return row.ID
	}
	chambarID := mkRestaurant("Chambar")
	mkRestaurant("Medina")
	mkRestaurant("Phnom Penh")

	// Ashley and Bob are friends; Cat has an open request to Ashley.
	edges := []*models.Connection{
		{ID: uuid.New(), UserAID: ashley.ID, UserBID: bob.ID, Status: models.ConnectionStatusAccepted},
		{ID: uuid.New(), UserAID: cat.ID, UserBID: ashley.ID, Status: models.ConnectionStatusRequested},
	}
	for _, edge := range edges {
		if err := db.Create(edge).Error; err != nil {
			t.Fatalf("seed connection: %v", err)
		}
	}

	if err := db.Create(&models.Visit{ID: uuid.New(), UserID: bob.ID, RestaurantID: chambarID}).Error; err != nil {
		t.Fatalf("seed visit: %v", err)
	}

	return scenario{ashley: ashley, bob: bob, cat: cat, chambarID: chambarID}
}

func newTestRouter(t *testing.T, db *gorm.DB, sessions *stubSessionManager, registry *prometheus.Registry) http.Handler {
	t.Helper()

	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	cityRepo := cities.NewRepository(db)
	userRepo := users.NewRepository(db)
	connectionRepo := connections.NewRepository(db)
	restaurantRepo := restaurants.NewRepository(db)
	visitRepo := visits.NewRepository(db)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		CityRepo:       cityRepo,
		Connections:    connectionRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		t.Fatalf("build auth service: %v", err)
	}
	userService, err := users.NewService(userRepo, visitRepo, connectionRepo)
	if err != nil {
		t.Fatalf("build user service: %v", err)
	}
	connectionService, err := connections.NewService(connectionRepo, userRepo)
	if err != nil {
		t.Fatalf("build connection service: %v", err)
	}
	restaurantService, err := restaurants.NewService(restaurantRepo, visitRepo)
	if err != nil {
		t.Fatalf("build restaurant service: %v", err)
	}
	visitService, err := visits.NewService(visitRepo, restaurantRepo)
	if err != nil {
		t.Fatalf("build visit service: %v", err)
	}

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		registry,
		sessions,
		authService,
		userService,
		connectionService,
		restaurantService,
		visitService,
	)
}

func postJSON(t *testing.T, router http.Handler, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getJSON(t *testing.T, router http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return envelope.Error.Message
}

func TestHomeAndHealthArePublic(t *testing.T) {
	db := setupRouterTestDB(t)
	seedScenario(t, db)
	router := newTestRouter(t, db, &stubSessionManager{}, nil)

	rec := getJSON(t, router, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for home got %d", rec.Code)
	}
	banner := decodeData[map[string]string](t, rec)
	if banner["banner"] != "The ultimate social media network for foodies" {
		t.Fatalf("unexpected banner %q", banner["banner"])
	}

	rec = getJSON(t, router, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", rec.Code)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	db := setupRouterTestDB(t)
	seedScenario(t, db)
	router := newTestRouter(t, db, &stubSessionManager{}, nil)

	for _, path := range []string{"/users", "/friends", "/restaurants", "/logout"} {
		rec := getJSON(t, router, path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s got %d", path, rec.Code)
		}
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := setupRouterTestDB(t)
	seedScenario(t, db)
	router := newTestRouter(t, db, &stubSessionManager{}, nil)

	rec := postJSON(t, router, "/login", "", map[string]string{
		"email":    "ashley@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Incorrect email or password. Please try again." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	db := setupRouterTestDB(t)
	seedScenario(t, db)
	router := newTestRouter(t, db, &stubSessionManager{}, nil)

	rec := postJSON(t, router, "/signup", "", map[string]string{
		"first_name": "Ashley",
		"last_name":  "Chen",
		"email":      "ashley@example.com",
		"password":   "hunter2hunter2",
		"city":       "Vancouver",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "An account already exists with this email address." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouterServesWithoutMetricsRegistry(t *testing.T) {
	db := setupRouterTestDB(t)
	seedScenario(t, db)
	router := newTestRouter(t, db, &stubSessionManager{}, nil)

	rec := getJSON(t, router, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for home got %d", rec.Code)
	}

	rec = getJSON(t, router, "/metrics", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unmounted metrics got %d", rec.Code)
	}
}

func TestMetricsLabelRoutesByPattern(t *testing.T) {
	db := setupRouterTestDB(t)
	seeded := seedScenario(t, db)
	registry := prometheus.NewRegistry()
	router := newTestRouter(t, db, &stubSessionManager{}, registry)

	rec := postJSON(t, router, "/login", "", map[string]string{
		"email":    "ashley@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", rec.Code, rec.Body.String())
	}
	token := rec.Header().Get("X-BC-Token")

	for _, id := range []uuid.UUID{seeded.bob.ID, seeded.cat.ID} {
		if rec := getJSON(t, router, "/users/"+id.String(), token); rec.Code != http.StatusOK {
			t.Fatalf("profile failed with %d", rec.Code)
		}
	}

	rec = getJSON(t, router, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics scrape failed with %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `route="/users/{userId}"`) {
		t.Fatalf("expected pattern-labeled series, got:\n%s", body)
	}
	// Distinct user ids must collapse into one series, not mint one each.
	if strings.Contains(body, seeded.bob.ID.String()) || strings.Contains(body, seeded.cat.ID.String()) {
		t.Fatalf("raw path leaked into metrics labels:\n%s", body)
	}
}

// TestBreadcrumbScenario walks the whole flow: login, browse restaurants,
// leave a breadcrumb (twice), manage friends, inspect the restaurant page,
// log out.
func TestBreadcrumbScenario(t *testing.T) {
	db := setupRouterTestDB(t)
	seeded := seedScenario(t, db)
	sessions := &stubSessionManager{}
	router := newTestRouter(t, db, sessions, nil)

	// Login as Ashley.
	rec := postJSON(t, router, "/login", "", map[string]string{
		"email":    "ashley@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", rec.Code, rec.Body.String())
	}
	token := rec.Header().Get("X-BC-Token")
	if token == "" {
		t.Fatalf("missing token header")
	}
	login := decodeData[auth.LoginResponse](t, rec)
	if login.Message != "You have successfully logged in." {
		t.Fatalf("unexpected login message %q", login.Message)
	}
	if login.PendingCounts.Received != 1 || login.PendingCounts.Sent != 0 {
		t.Fatalf("unexpected pending counts %+v", login.PendingCounts)
	}

	// The city has three restaurants, alphabetical.
	rec = getJSON(t, router, "/restaurants", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list restaurants failed with %d", rec.Code)
	}
	listing := decodeData[struct {
		Restaurants []restaurants.RestaurantDTO `json:"restaurants"`
	}](t, rec)
	if len(listing.Restaurants) != 3 || listing.Restaurants[0].Name != "Chambar" {
		t.Fatalf("unexpected restaurants %+v", listing.Restaurants)
	}

	// A prefix query finds Chambar.
	rec = getJSON(t, router, "/restaurants/search?q=cham", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("restaurant search failed with %d", rec.Code)
	}
	matches := decodeData[struct {
		Restaurants []restaurants.RestaurantDTO `json:"restaurants"`
	}](t, rec)
	if len(matches.Restaurants) != 1 || matches.Restaurants[0].Name != "Chambar" {
		t.Fatalf("unexpected search results %+v", matches.Restaurants)
	}

	// Leave a breadcrumb at Chambar; the second attempt is rejected.
	rec = postJSON(t, router, "/add-visit", token, map[string]any{
		"restaurant_id": seeded.chambarID.String(),
		"rating":        5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add visit failed with %d: %s", rec.Code, rec.Body.String())
	}
	visitResult := decodeData[visits.AddVisitResultDTO](t, rec)
	if visitResult.Message != "You have left a breadcrumb." {
		t.Fatalf("unexpected message %q", visitResult.Message)
	}

	rec = postJSON(t, router, "/add-visit", token, map[string]any{
		"restaurant_id": seeded.chambarID.String(),
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate visit got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "You have already left a breadcrumb for this restaurant." {
		t.Fatalf("unexpected message %q", msg)
	}

	// Friend management: self, existing friend, fresh request.
	rec = postJSON(t, router, "/add-friend", token, map[string]string{"user_id": seeded.ashley.ID.String()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self friend got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "You cannot add yourself as a friend." {
		t.Fatalf("unexpected message %q", msg)
	}

	rec = postJSON(t, router, "/add-friend", token, map[string]string{"user_id": seeded.bob.ID.String()})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for existing friend got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "You are already friends." {
		t.Fatalf("unexpected message %q", msg)
	}

	rec = postJSON(t, router, "/add-friend", token, map[string]string{"user_id": seeded.cat.ID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("add friend failed with %d: %s", rec.Code, rec.Body.String())
	}
	added := decodeData[connections.AddFriendResultDTO](t, rec)
	if added.Message != "Your friend request has been sent." {
		t.Fatalf("unexpected message %q", added.Message)
	}

	// Friends page: Bob accepted, Cat pending on both sides now.
	rec = getJSON(t, router, "/friends", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("friends overview failed with %d", rec.Code)
	}
	overview := decodeData[connections.FriendsOverviewDTO](t, rec)
	if len(overview.Friends) != 1 || overview.Friends[0].FirstName != "Bob" {
		t.Fatalf("unexpected friends %+v", overview.Friends)
	}
	if len(overview.Pending.Received) != 1 || overview.Pending.Received[0].FirstName != "Cat" {
		t.Fatalf("unexpected received requests %+v", overview.Pending.Received)
	}
	if len(overview.Pending.Sent) != 1 || overview.Pending.Sent[0].FirstName != "Cat" {
		t.Fatalf("unexpected sent requests %+v", overview.Pending.Sent)
	}

	// Restaurant page shows Bob as a friend who has been there.
	rec = getJSON(t, router, "/restaurants/"+seeded.chambarID.String(), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("restaurant detail failed with %d", rec.Code)
	}
	detail := decodeData[restaurants.RestaurantDetailDTO](t, rec)
	if detail.Restaurant.Name != "Chambar" {
		t.Fatalf("unexpected restaurant %+v", detail.Restaurant)
	}
	if len(detail.FriendVisitors) != 1 || detail.FriendVisitors[0].FirstName != "Bob" {
		t.Fatalf("unexpected friend visitors %+v", detail.FriendVisitors)
	}

	// Bob's profile from Ashley's point of view.
	rec = getJSON(t, router, "/users/"+seeded.bob.ID.String(), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile failed with %d", rec.Code)
	}
	profile := decodeData[users.ProfileDTO](t, rec)
	if profile.User.FirstName != "Bob" || !profile.Relationship.IsFriend {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.VisitCount != 1 {
		t.Fatalf("unexpected visit count %d", profile.VisitCount)
	}

	// Bob's breadcrumb trail as JSON.
	rec = getJSON(t, router, "/users/"+seeded.bob.ID.String()+"/visits.json", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("visits.json failed with %d", rec.Code)
	}
	page := decodeData[visits.VisitsPageDTO](t, rec)
	if len(page.Items) != 1 || page.Items[0].RestaurantName != "Chambar" {
		t.Fatalf("unexpected visit page %+v", page.Items)
	}

	// Member search from the friends page.
	rec = getJSON(t, router, "/friends/search?q=cat", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("friend search failed with %d", rec.Code)
	}
	found := decodeData[struct {
		Users []users.UserDTO `json:"users"`
	}](t, rec)
	if len(found.Users) != 1 || found.Users[0].FirstName != "Cat" {
		t.Fatalf("unexpected search results %+v", found.Users)
	}

	// Logout revokes the session.
	rec = getJSON(t, router, "/logout", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed with %d", rec.Code)
	}
	logout := decodeData[auth.LogoutResponse](t, rec)
	if logout.Message != "You have successfully logged out." {
		t.Fatalf("unexpected message %q", logout.Message)
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("expected one revoked session, got %d", len(sessions.revoked))
	}
}
