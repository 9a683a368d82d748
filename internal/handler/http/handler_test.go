package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Service fakes
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService; each test sets the
// functions it needs.
type mockAuthService struct {
	registerUserFn func(ctx context.Context, user models.User) (models.User, error)
	loginFn        func(ctx context.Context, user models.User) (models.User, error)
	createTokenFn  func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	return m.registerUserFn(ctx, user)
}

func (m *mockAuthService) Login(ctx context.Context, user models.User) (models.User, error) {
	return m.loginFn(ctx, user)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

type mockDocumentService struct {
	queryFn  func(ctx context.Context, q models.DocumentQuery) ([]models.Document, error)
	getFn    func(ctx context.Context, userID int64, collection, id string) (models.Document, error)
	createFn func(ctx context.Context, userID int64, collection string, req models.CreateDocumentRequest) (models.Document, error)
	updateFn func(ctx context.Context, userID int64, collection, id string, patch models.DocumentPatch) (models.Document, error)
	deleteFn func(ctx context.Context, userID int64, collection, id string) error
	batchFn  func(ctx context.Context, req models.BatchRequest) (models.BatchResult, error)
}

func (m *mockDocumentService) Query(ctx context.Context, q models.DocumentQuery) ([]models.Document, error) {
	return m.queryFn(ctx, q)
}

func (m *mockDocumentService) Get(ctx context.Context, userID int64, collection, id string) (models.Document, error) {
	return m.getFn(ctx, userID, collection, id)
}

func (m *mockDocumentService) Create(ctx context.Context, userID int64, collection string, req models.CreateDocumentRequest) (models.Document, error) {
	return m.createFn(ctx, userID, collection, req)
}

func (m *mockDocumentService) Update(ctx context.Context, userID int64, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	return m.updateFn(ctx, userID, collection, id, patch)
}

func (m *mockDocumentService) Delete(ctx context.Context, userID int64, collection, id string) error {
	return m.deleteFn(ctx, userID, collection, id)
}

func (m *mockDocumentService) Batch(ctx context.Context, req models.BatchRequest) (models.BatchResult, error) {
	return m.batchFn(ctx, req)
}

type mockBlobService struct {
	uploadFn   func(ctx context.Context, userID int64, blob models.Blob) (models.BlobRef, error)
	downloadFn func(ctx context.Context, userID int64, path string) (models.Blob, error)
	deleteFn   func(ctx context.Context, userID int64, path string) error
}

func (m *mockBlobService) Upload(ctx context.Context, userID int64, blob models.Blob) (models.BlobRef, error) {
	return m.uploadFn(ctx, userID, blob)
}

func (m *mockBlobService) Download(ctx context.Context, userID int64, path string) (models.Blob, error) {
	return m.downloadFn(ctx, userID, path)
}

func (m *mockBlobService) Delete(ctx context.Context, userID int64, path string) error {
	return m.deleteFn(ctx, userID, path)
}

type mockAppInfoService struct {
	version string
	build   models.AppBuildInfo
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func (m *mockAppInfoService) GetBuildInfo(_ context.Context) models.AppBuildInfo {
	return m.build
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const (
	testUserID = int64(42)
	testToken  = "valid.jwt.token"
)

// newTestHandler builds a Handler with the given services. Missing services
// are replaced with fakes whose ParseToken accepts testToken only.
func newTestHandler(t *testing.T, svcs *service.Services) *Handler {
	t.Helper()

	if svcs.AuthService == nil {
		svcs.AuthService = &mockAuthService{parseTokenFn: acceptTestToken}
	}
	if svcs.AppInfoService == nil {
		svcs.AppInfoService = &mockAppInfoService{version: "test-version"}
	}
	return NewHandler(svcs, config.App{}, logger.Nop())
}

func acceptTestToken(_ context.Context, tokenString string) (models.Token, error) {
	if tokenString != testToken {
		return models.Token{}, service.ErrTokenIsExpiredOrInvalid
	}
	return models.Token{UserID: testUserID, SignedString: tokenString}, nil
}

// withUser returns r carrying testUserID, as the auth middleware would.
func withUser(r *http.Request) *http.Request {
	return r.WithContext(utils.WithUserID(r.Context(), testUserID))
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svcs := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svcs, config.App{HashKey: "k"}, log)

	require.NotNil(t, h)
	assert.Equal(t, svcs, h.services)
	assert.Equal(t, log, h.logger)
	assert.Equal(t, "k", h.hashKey)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := NewHandler(&service.Services{}, config.App{}, logger.Nop())
	h2 := NewHandler(&service.Services{}, config.App{}, logger.Nop())

	assert.NotSame(t, h1, h2)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

func TestInit_RegistersAllRoutes(t *testing.T) {
	router := newTestHandler(t, &service.Services{}).Init()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/user/register"},
		{http.MethodPost, "/api/user/login"},
		{http.MethodPost, "/api/documents/inventory/query"},
		{http.MethodPost, "/api/documents/inventory"},
		{http.MethodGet, "/api/documents/inventory/doc-1"},
		{http.MethodPatch, "/api/documents/inventory/doc-1"},
		{http.MethodDelete, "/api/documents/inventory/doc-1"},
		{http.MethodPost, "/api/documents/batch"},
		{http.MethodPut, "/api/blobs/users/42/photos/a.png"},
		{http.MethodGet, "/api/blobs/users/42/photos/a.png"},
		{http.MethodDelete, "/api/blobs/users/42/photos/a.png"},
	}

	for _, tc := range routes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			// protected routes answer 401 without a token, which still proves
			// the route exists
			assert.NotEqual(t, http.StatusNotFound, rec.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestInit_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestHandler(t, &service.Services{}).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/documents/inventory/doc-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInit_VersionIsPublic(t *testing.T) {
	router := newTestHandler(t, &service.Services{}).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/version/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-version", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	router := newTestHandler(t, &service.Services{}).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns404(t *testing.T) {
	router := newTestHandler(t, &service.Services{}).Init()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/version/"},
		{http.MethodGet, "/api/user/login"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method+" "+tc.path)
	}
}

func TestInit_DocumentRoundTripThroughRouter(t *testing.T) {
	var gotQuery models.DocumentQuery
	docs := &mockDocumentService{
		queryFn: func(_ context.Context, q models.DocumentQuery) ([]models.Document, error) {
			gotQuery = q
			return []models.Document{{ID: "doc-1", Collection: q.Collection, UserID: q.UserID}}, nil
		},
	}
	router := newTestHandler(t, &service.Services{DocumentService: docs}).Init()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/inventory/query", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inventory", gotQuery.Collection)
	assert.Equal(t, testUserID, gotQuery.UserID)
	assert.Contains(t, rec.Body.String(), `"doc-1"`)
}
