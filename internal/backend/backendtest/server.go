package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"recipehub/internal/model"
)

// Server is an in-process stand-in for the recipe backend, close enough to
// exercise the client over real HTTP: query parameters, bearer auth,
// multipart decoding and the favorite toggle contract.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	User     model.User
	Email    string
	Password string

	AccessToken  string
	RefreshToken string

	Recipes    []model.Recipe
	Categories []model.Category

	LoginCalls    int
	RegisterCalls int
	ListCalls     int
	DeleteCalls   map[string]int
	FavoriteCalls map[int64]int

	// OnList, when set, runs inside the list handler before the response is
	// written. Tests use it to stall or order overlapping fetches.
	OnList func(search, category string)

	// ProfileFailures makes the next N profile reads answer 502, simulating
	// a transient identity-refresh failure.
	ProfileFailures int
}

// SignedToken mints an HS256 access token the way the real backend would.
func SignedToken(userID int64, expiresAt time.Time) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backendtest-secret"))
	if err != nil {
		panic(err)
	}
	return token
}

func New() *Server {
	s := &Server{
		User: model.User{
			ID:       1,
			Username: "chef",
			Email:    "chef@example.com",
		},
		Email:         "chef@example.com",
		Password:      "secret",
		AccessToken:   SignedToken(1, time.Now().Add(15*time.Minute)),
		RefreshToken:  "refresh-token",
		DeleteCalls:   make(map[string]int),
		FavoriteCalls: make(map[int64]int),
	}

	r := chi.NewRouter()

	r.Post("/auth/login/", s.handleLogin)
	r.Post("/auth/register/", s.handleRegister)
	r.Get("/categories/", s.handleCategories)
	r.Get("/recipes/", s.handleList)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/auth/profile/", s.handleProfile)
		r.Post("/auth/profile/", s.handleUpdateProfile)
		r.Get("/recipes/my-recipes/", s.handleMyRecipes)
		r.Post("/recipes/create/", s.handleCreate)
		r.Put("/recipes/{slug}/update/", s.handleUpdate)
		r.Delete("/recipes/{slug}/delete/", s.handleDelete)
		r.Post("/recipes/{id}/favorite/", s.handleFavorite)
	})

	s.Server = httptest.NewServer(r)
	return s
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		expected := "Bearer " + s.AccessToken
		s.mu.Unlock()

		if r.Header.Get("Authorization") != expected {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoginCalls++
	if req.Email != s.Email || req.Password != s.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, model.TokenPair{Access: s.AccessToken, Refresh: s.RefreshToken})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}

	s.mu.Lock()
	s.RegisterCalls++
	s.mu.Unlock()

	if req.Password != req.Password2 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "passwords do not match"})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.ProfileFailures > 0 {
		s.ProfileFailures--
		s.mu.Unlock()
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "upstream error"})
		return
	}
	user := s.User
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var fields model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad request"})
		return
	}

	s.mu.Lock()
	if fields.Username != nil {
		s.User.Username = *fields.Username
	}
	if fields.Bio != nil {
		s.User.Bio = fields.Bio
	}
	if fields.Location != nil {
		s.User.Location = fields.Location
	}
	if fields.ProfilePicture != nil {
		s.User.ProfilePicture = fields.ProfilePicture
	}
	user := s.User
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cats := append([]model.Category(nil), s.Categories...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	s.mu.Lock()
	s.ListCalls++
	hook := s.OnList
	all := append([]model.Recipe(nil), s.Recipes...)
	s.mu.Unlock()

	if hook != nil {
		hook(search, category)
	}

	matched := []model.Recipe{}
	for _, recipe := range all {
		if search != "" && !strings.Contains(strings.ToLower(recipe.Title), strings.ToLower(search)) {
			continue
		}
		if category != "" && strconv.FormatInt(recipe.Category.ID, 10) != category {
			continue
		}
		matched = append(matched, recipe)
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) handleMyRecipes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := []model.Recipe{}
	for _, recipe := range s.Recipes {
		if recipe.Author == s.User.Username {
			mine = append(mine, recipe)
		}
	}
	writeJSON(w, http.StatusOK, mine)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	recipe, ok := s.recipeFromForm(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	recipe.ID = int64(len(s.Recipes) + 1)
	recipe.Slug = slugify(recipe.Title)
	recipe.Author = s.User.Username
	recipe.CreatedAt = time.Now().UTC()
	s.Recipes = append(s.Recipes, recipe)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, recipe)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	updated, ok := s.recipeFromForm(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Recipes {
		if s.Recipes[i].Slug != slug {
			continue
		}
		existing := s.Recipes[i]
		updated.ID = existing.ID
		updated.Slug = existing.Slug
		updated.Author = existing.Author
		updated.Favorites = existing.Favorites
		updated.FavoriteCount = existing.FavoriteCount
		updated.CreatedAt = existing.CreatedAt
		s.Recipes[i] = updated
		writeJSON(w, http.StatusOK, updated)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls[slug]++
	for i := range s.Recipes {
		if s.Recipes[i].Slug == slug {
			s.Recipes = append(s.Recipes[:i], s.Recipes[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.FavoriteCalls[id]++
	for i := range s.Recipes {
		recipe := &s.Recipes[i]
		if recipe.ID != id {
			continue
		}
		if recipe.FavoritedBy(s.User.ID) {
			for j, uid := range recipe.Favorites {
				if uid == s.User.ID {
					recipe.Favorites = append(recipe.Favorites[:j], recipe.Favorites[j+1:]...)
					break
				}
			}
			recipe.FavoriteCount--
			recipe.IsFavorited = false
			writeJSON(w, http.StatusOK, map[string]bool{"favorited": false})
			return
		}
		recipe.Favorites = append(recipe.Favorites, s.User.ID)
		recipe.FavoriteCount++
		recipe.IsFavorited = true
		writeJSON(w, http.StatusOK, map[string]bool{"favorited": true})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
}

// recipeFromForm decodes the multipart create/update payload the way the
// backend's form parser would.
func (s *Server) recipeFromForm(w http.ResponseWriter, r *http.Request) (model.Recipe, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad form"})
		return model.Recipe{}, false
	}

	categoryID, _ := strconv.ParseInt(r.FormValue("category"), 10, 64)
	prepTime, _ := strconv.Atoi(r.FormValue("prep_time"))
	cookTime, _ := strconv.Atoi(r.FormValue("cook_time"))
	published, _ := strconv.ParseBool(r.FormValue("is_published"))

	recipe := model.Recipe{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Ingredients:  r.FormValue("ingredients"),
		Instructions: r.FormValue("instructions"),
		Difficulty:   r.FormValue("difficulty"),
		PrepTime:     prepTime,
		CookTime:     cookTime,
		TotalTime:    prepTime + cookTime,
		IsPublished:  published,
	}
	if tips := r.FormValue("tips"); tips != "" {
		recipe.Tips = &tips
	}

	s.mu.Lock()
	for _, cat := range s.Categories {
		if cat.ID == categoryID {
			recipe.Category = cat
		}
	}
	s.mu.Unlock()

	if _, header, err := r.FormFile("featured_image"); err == nil {
		url := "https://media.example.com/" + header.Filename
		recipe.FeaturedImage = &url
	}
	return recipe, true
}

func slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
