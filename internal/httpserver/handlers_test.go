package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"foodie/backend/internal/config"
	authdomain "foodie/backend/internal/domain/authorization"
	recipedomain "foodie/backend/internal/domain/recipe"
	"foodie/backend/internal/infrastructure/password"
	"foodie/backend/internal/infrastructure/token"
	"foodie/backend/internal/logging"
	authusecase "foodie/backend/internal/usecase/authorization"
	recipeusecase "foodie/backend/internal/usecase/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*authdomain.User
	byID    map[string]*authdomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*authdomain.User{},
		byID:    map[string]*authdomain.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *authdomain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[user.Email]; exists {
		return authdomain.ErrUserAlreadyExists
	}
	copied := *user
	f.byEmail[user.Email] = &copied
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, authdomain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*authdomain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return nil, authdomain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeRecipeRepo struct {
	mu      sync.Mutex
	recipes map[string]*recipedomain.Recipe
	nextID  int64

	// failWith, when set, makes every operation fail with it, standing
	// in for a broken storage backend.
	failWith error
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: map[string]*recipedomain.Recipe{}}
}

func (f *fakeRecipeRepo) Create(ctx context.Context, recipe *recipedomain.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for i := range recipe.Ingredients {
		f.nextID++
		recipe.Ingredients[i].ID = f.nextID
	}
	copied := *recipe
	f.recipes[recipe.ID] = &copied
	return nil
}

func (f *fakeRecipeRepo) GetByID(ctx context.Context, id string) (*recipedomain.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, recipedomain.ErrNotFound
	}
	copied := *recipe
	return &copied, nil
}

func (f *fakeRecipeRepo) Page(ctx context.Context, count, offset int) ([]*recipedomain.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*recipedomain.Recipe
	for _, recipe := range f.recipes {
		copied := *recipe
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRecipeRepo) Update(ctx context.Context, recipe *recipedomain.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recipes[recipe.ID]; !ok {
		return recipedomain.ErrNotFound
	}
	copied := *recipe
	f.recipes[recipe.ID] = &copied
	return nil
}

func (f *fakeRecipeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recipes[id]; !ok {
		return recipedomain.ErrNotFound
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepo) PageIngredients(ctx context.Context, recipeID string, count, offset int) ([]recipedomain.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	recipe, ok := f.recipes[recipeID]
	if !ok {
		return nil, recipedomain.ErrNotFound
	}
	ingredients := append([]recipedomain.Ingredient(nil), recipe.Ingredients...)
	if offset >= len(ingredients) {
		return nil, nil
	}
	ingredients = ingredients[offset:]
	if len(ingredients) > count {
		ingredients = ingredients[:count]
	}
	return ingredients, nil
}

func (f *fakeRecipeRepo) AddIngredient(ctx context.Context, recipeID string, ingredient *recipedomain.Ingredient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	recipe, ok := f.recipes[recipeID]
	if !ok {
		return recipedomain.ErrNotFound
	}
	f.nextID++
	ingredient.ID = f.nextID
	recipe.Ingredients = append(recipe.Ingredients, *ingredient)
	return nil
}

func (f *fakeRecipeRepo) UpdateIngredient(ctx context.Context, recipeID string, ingredient *recipedomain.Ingredient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	recipe, ok := f.recipes[recipeID]
	if !ok {
		return recipedomain.ErrIngredientNotFound
	}
	for i := range recipe.Ingredients {
		if recipe.Ingredients[i].ID == ingredient.ID {
			recipe.Ingredients[i] = *ingredient
			return nil
		}
	}
	return recipedomain.ErrIngredientNotFound
}

func (f *fakeRecipeRepo) RemoveIngredient(ctx context.Context, recipeID string, ingredientID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	recipe, ok := f.recipes[recipeID]
	if !ok {
		return recipedomain.ErrIngredientNotFound
	}
	for i := range recipe.Ingredients {
		if recipe.Ingredients[i].ID == ingredientID {
			recipe.Ingredients = append(recipe.Ingredients[:i], recipe.Ingredients[i+1:]...)
			return nil
		}
	}
	return recipedomain.ErrIngredientNotFound
}

// --- helpers ---

const testMaxAge = time.Hour

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithRecipes(t, newFakeRecipeRepo())
}

func newTestServerWithRecipes(t *testing.T, repo recipedomain.Repository) *Server {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := config.Config{
		HTTPPort:        "0",
		TokenSecret:     "test-secret",
		TokenMaxAge:     testMaxAge,
		AllowedOrigins:  []string{"*"},
		ReadTimeoutSec:  5,
		WriteTimeoutSec: 5,
		IdleTimeoutSec:  5,
	}

	authService := authusecase.NewService(
		newFakeUserRepo(),
		token.NewJWTManager(cfg.TokenSecret, cfg.TokenMaxAge),
		password.NewArgon2Hasher(),
		log,
	)
	recipeService := recipeusecase.NewService(repo)
	return NewServer(cfg, authService, recipeService, log)
}

func doJSON(t *testing.T, srv *Server, method, path string, body string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, srv *Server, name, email, pw string) *httptest.ResponseRecorder {
	t.Helper()
	payload := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, pw)
	return doJSON(t, srv, http.MethodPost, "/api/v1/authorization/register", payload, nil)
}

func loginUser(t *testing.T, srv *Server, email, pw string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	payload := fmt.Sprintf(`{"email":%q,"password":%q}`, email, pw)
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/authorization/login", payload, nil)
	var body struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body.Token
}

func withCookieToken(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokenCookieName, Value: token})
	}
}

func withBearerToken(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "BEARER "+token)
	}
}

// --- tests ---

func TestRegisterSuccessExposesNoPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := registerUser(t, srv, "A", "a@x.com", "pw")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			User authdomain.FilteredUser `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "a@x.com", body.Data.User.Email)
	assert.NotEmpty(t, body.Data.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "pw")
}

func TestRegisterEmptyFields(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"missing name", `{"email":"a@x.com","password":"pw"}`},
		{"missing email", `{"name":"A","password":"pw"}`},
		{"missing password", `{"name":"A","email":"a@x.com"}`},
		{"whitespace name", `{"name":"   ","email":"a@x.com","password":"pw"}`},
		{"whitespace email", `{"name":"A","email":"  ","password":"pw"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/v1/authorization/register", tt.payload, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"fail"`)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	rec := registerUser(t, srv, "A", "a@x.com", "pw")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = registerUser(t, srv, "B", "a@x.com", "other")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginSetsCookie(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")

	rec, tok := loginUser(t, srv, "a@x.com", "pw")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, tok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, tokenCookieName, cookie.Name)
	assert.Equal(t, tok, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(testMaxAge.Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestLoginFailuresShareStatusAndBody(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")

	unknown, _ := loginUser(t, srv, "nobody@x.com", "pw")
	wrong, _ := loginUser(t, srv, "a@x.com", "wrong")

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fail"`)
}

func TestProtectedRouteWithInvalidToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/recipes", "", withBearerToken("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteWithBearerToken(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")
	_, tok := loginUser(t, srv, "a@x.com", "pw")

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/recipes", "", withBearerToken(tok))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCookieTakesPrecedenceOverHeader(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")
	_, tok := loginUser(t, srv, "a@x.com", "pw")

	// Valid cookie beats a bogus header token.
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/recipes", "", func(r *http.Request) {
		withCookieToken(tok)(r)
		withBearerToken("garbage")(r)
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// A bogus cookie is used even when the header carries a valid token.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/recipes", "", func(r *http.Request) {
		withCookieToken("garbage")(r)
		withBearerToken(tok)(r)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")
	_, tok := loginUser(t, srv, "a@x.com", "pw")

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/authorization/logout", "", withCookieToken(tok))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokenCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogoutRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/authorization/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecipeLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")
	_, tok := loginUser(t, srv, "a@x.com", "pw")
	auth := withBearerToken(tok)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/recipes",
		`{"name":"Carbonara","method":"Combine.","ingredients":[{"name":"Spaghetti","amount":400,"unit":"g"}]}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Data struct {
			Recipe recipedomain.Recipe `json:"recipe"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Data.Recipe.ID
	require.NotEmpty(t, id)
	require.Len(t, created.Data.Recipe.Ingredients, 1)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/recipes/"+id, "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Carbonara")

	rec = doJSON(t, srv, http.MethodPut, "/api/v1/recipes/"+id, `{"name":"Cacio e pepe"}`, auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cacio e pepe")

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/recipes/"+id+"/ingredients",
		`{"name":"Pecorino","amount":100,"unit":"g"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var added struct {
		Data struct {
			Ingredient recipedomain.Ingredient `json:"ingredient"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	require.NotZero(t, added.Data.Ingredient.ID)

	rec = doJSON(t, srv, http.MethodDelete,
		fmt.Sprintf("/api/v1/recipes/%s/ingredients/%d", id, added.Data.Ingredient.ID), "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/recipes/"+id, "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/recipes/"+id, "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngredientPageOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")
	_, tok := loginUser(t, srv, "a@x.com", "pw")
	auth := withBearerToken(tok)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/recipes",
		`{"name":"Stew","ingredients":[{"name":"Beef","amount":500,"unit":"g"},{"name":"Carrot","amount":3,"unit":"pcs"}]}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Data struct {
			Recipe recipedomain.Recipe `json:"recipe"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Data.Recipe.ID

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/recipes/"+id+"/ingredients?count=1&offset=1", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data struct {
			Ingredients []recipedomain.Ingredient `json:"ingredients"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data.Ingredients, 1)
	assert.Equal(t, "Carrot", page.Data.Ingredients[0].Name)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/recipes/missing/ingredients", "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecipeStorageFaultIsOpaque(t *testing.T) {
	repo := newFakeRecipeRepo()
	repo.failWith = errors.New("connect: connection refused to 10.0.0.5:5432")
	srv := newTestServerWithRecipes(t, repo)
	registerUser(t, srv, "A", "a@x.com", "pw")
	_, tok := loginUser(t, srv, "a@x.com", "pw")
	auth := withBearerToken(tok)

	paths := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/recipes/some-id", ""},
		{http.MethodGet, "/api/v1/recipes", ""},
		{http.MethodPost, "/api/v1/recipes", `{"name":"Stew"}`},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := doJSON(t, srv, p.method, p.path, p.body, auth)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), "internal error")
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestRecipeInvalidInputOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")
	_, tok := loginUser(t, srv, "a@x.com", "pw")

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/recipes", `{"name":"   "}`, withBearerToken(tok))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}

func TestRecipePageTooBig(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "A", "a@x.com", "pw")
	_, tok := loginUser(t, srv, "a@x.com", "pw")

	rec := doJSON(t, srv, http.MethodGet,
		fmt.Sprintf("/api/v1/recipes?count=%d", recipeusecase.MaxPageSize+1), "", withBearerToken(tok))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
