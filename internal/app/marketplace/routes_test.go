package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/service-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/services/auth"
	"github.com/magabrotheeeer/service-marketplace/internal/services/catalog"
	"github.com/magabrotheeeer/service-marketplace/internal/services/media"
	"github.com/magabrotheeeer/service-marketplace/internal/services/profile"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
	"github.com/magabrotheeeer/service-marketplace/internal/storage/files"
)

// memRepo хранилище в памяти, реализующее репозитории всех сервисов.
type memRepo struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	listings map[int64]models.Listing
	media    []models.MediaFile
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[int64]*models.User{}, listings: map[int64]models.Listing{}}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) CreateUser(_ context.Context, u models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	u.CreatedAt = time.Now()
	m.users[u.ID] = &u
	return u.ID, nil
}

func (m *memRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *memRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) UpdateUserProfile(_ context.Context, id int64, upd models.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	upd.Apply(u)
	return nil
}

func (m *memRepo) CreateListing(_ context.Context, l models.Listing) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[l.UserID]; !ok {
		return 0, storage.ErrUserNotFound
	}
	l.ID = m.id()
	l.CreatedAt = time.Now().UTC()
	m.listings[l.ID] = l
	return l.ID, nil
}

func (m *memRepo) ListListings(_ context.Context) ([]models.ListingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	views := make([]models.ListingView, 0, len(m.listings))
	for _, l := range m.listings {
		u := m.users[l.UserID]
		views = append(views, models.ListingView{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
			Category:    l.Category,
			Price:       l.Price,
			Owner:       models.ListingOwner{ID: u.ID, Name: u.FullName, Phone: u.Phone, WhatsApp: u.WhatsApp, City: u.City},
			CreatedAt:   l.CreatedAt,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

func (m *memRepo) ListListingMedia(_ context.Context) ([]models.MediaFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MediaFile, 0, len(m.media))
	for _, f := range m.media {
		if f.ListingID != nil {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memRepo) ListingExists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.listings[id]
	return ok, nil
}

func (m *memRepo) CreateMedia(_ context.Context, f models.MediaFile) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = m.id()
	m.media = append(m.media, f)
	return f.ID, nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestRouter(t *testing.T, limiter *middlewarectx.IPLimiter) http.Handler {
	t.Helper()
	log := newNoopLogger()
	repo := newMemRepo()
	store, err := files.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	events := rabbitmq.NoopPublisher{}

	r := chi.NewRouter()
	RegisterRoutes(r, Deps{
		Log:            log,
		Auth:           auth.NewAuthService(repo, jwt.NewJWTMaker("test-secret", time.Hour), events, log),
		Profile:        profile.NewService(repo),
		Catalog:        catalog.NewService(repo, events, log),
		Media:          media.NewService(repo, store, events, log),
		Limiter:        limiter,
		Registry:       prometheus.NewRegistry(),
		MaxUploadBytes: 1 << 20,
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func registerAndLogin(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]any{
		"username": "ana", "email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{"username": "ana", "password": "pw123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode[map[string]any](t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRoutes_Home(t *testing.T) {
	h := newTestRouter(t, middlewarectx.NewIPLimiter(rate.Inf, 0))

	rec := doJSON(t, h, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0.0", decode[map[string]string](t, rec)["version"])
}

func TestRoutes_RegisterLoginProfile(t *testing.T) {
	h := newTestRouter(t, middlewarectx.NewIPLimiter(rate.Inf, 0))

	token := registerAndLogin(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "ana", got["username"])
	assert.Equal(t, "a@x.com", got["email"])
	assert.NotContains(t, got, "password_hash")

	rec = doJSON(t, h, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token é necessário!", decode[map[string]string](t, rec)["message"])

	rec = doJSON(t, h, http.MethodGet, "/api/profile", token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_DuplicatesAndBadCredentials(t *testing.T) {
	h := newTestRouter(t, middlewarectx.NewIPLimiter(rate.Inf, 0))
	registerAndLogin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]any{
		"username": "ana", "email": "other@x.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Usuário já existe!", decode[map[string]string](t, rec)["message"])

	rec = doJSON(t, h, http.MethodPost, "/api/register", "", map[string]any{
		"username": "bia", "email": "a@x.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email já cadastrado!", decode[map[string]string](t, rec)["message"])

	rec = doJSON(t, h, http.MethodPost, "/api/register", "", map[string]any{
		"username": "caio", "email": "c@x.com", "password": strings.Repeat("ç", 40),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Senha muito longa!", decode[map[string]string](t, rec)["message"])

	rec = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{"username": "ana", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token\"")
}

func TestRoutes_ProfilePartialUpdate(t *testing.T) {
	h := newTestRouter(t, middlewarectx.NewIPLimiter(rate.Inf, 0))
	token := registerAndLogin(t, h)

	rec := doJSON(t, h, http.MethodPut, "/api/profile", token, map[string]string{"cidade": "Recife", "telefone": "8199"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/profile", token, map[string]string{"cidade": "Olinda"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[map[string]any](t, doJSON(t, h, http.MethodGet, "/api/profile", token, nil))
	assert.Equal(t, "Olinda", got["cidade"])
	assert.Equal(t, "8199", got["telefone"])
	assert.Equal(t, "", got["estado"])
}

func TestRoutes_CreateAndListListing(t *testing.T) {
	h := newTestRouter(t, middlewarectx.NewIPLimiter(rate.Inf, 0))
	token := registerAndLogin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/servicos", token, map[string]string{"titulo": "Conserto"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id, ok := created["id"].(float64)
	require.True(t, ok)
	assert.Equal(t, id, float64(int64(id)))

	rec = doJSON(t, h, http.MethodPost, "/api/servicos", "", map[string]string{"titulo": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/servicos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])
	assert.Equal(t, "Conserto", list[0]["titulo"])
	assert.Equal(t, float64(0), list[0]["preco"])
	assert.Equal(t, []any{}, list[0]["medias"])
}

func TestRoutes_UploadAndRetrieve(t *testing.T) {
	h := newTestRouter(t, middlewarectx.NewIPLimiter(rate.Inf, 0))
	token := registerAndLogin(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/servicos", token, map[string]string{"titulo": "Conserto"})
	require.Equal(t, http.StatusCreated, rec.Code)
	listingID := int64(decode[map[string]any](t, rec)["id"].(float64))

	content := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{7}, 64)...)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "minha foto.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("servico_id", strconv.FormatInt(listingID, 10)))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	up := decode[map[string]string](t, rec)
	assert.Regexp(t, `^\d{8}_\d{6}_[0-9a-f]{8}_minha_foto\.png$`, up["filename"])
	assert.Equal(t, "/uploads/"+up["filename"], up["url"])

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	resp, err := srv.Client().Get(srv.URL + up["url"])
	require.NoError(t, err)
	defer resp.Body.Close()
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, content, got)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	list := decode[[]map[string]any](t, doJSON(t, h, http.MethodGet, "/api/servicos", "", nil))
	require.Len(t, list, 1)
	assert.Equal(t, []any{map[string]any{"filename": up["filename"], "type": "image"}}, list[0]["medias"])

	rec = doJSON(t, h, http.MethodGet, "/uploads/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_RateLimit(t *testing.T) {
	h := newTestRouter(t, middlewarectx.NewIPLimiter(rate.Every(time.Hour), 1))

	login := func(realIP string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"x","password":"y"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Real-IP", realIP)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, login("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.7"))
	assert.Equal(t, http.StatusUnauthorized, login("198.51.100.4"))

	rec := doJSON(t, h, http.MethodGet, "/api/servicos", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_Metrics(t *testing.T) {
	h := newTestRouter(t, middlewarectx.NewIPLimiter(rate.Inf, 0))
	doJSON(t, h, http.MethodGet, "/", "", nil)

	rec := doJSON(t, h, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `marketplace_http_requests_total{code="200",method="GET",route="/"} 1`)
}
