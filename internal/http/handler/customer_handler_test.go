package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/http/handler"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"github.com/maniadelimpeza/crm-api/internal/service"
	"github.com/maniadelimpeza/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// withUser injects an authenticated user context, standing in for token
// resolution in these tests
func withUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithUserContext(r.Context(), &auth.UserContext{
				UserID:    user.ID,
				CompanyID: user.CompanyID,
				Name:      user.Name,
				Email:     user.Email,
				Profile:   user.Profile,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setupCustomerRouter(t *testing.T) (*chi.Mux, *gorm.DB, *domain.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	company := testutil.CreateTestCompany(t, db, "Limpeza Total")
	user := testutil.CreateTestUser(t, db, company.ID, "ana@example.com", domain.ProfileAdmin)

	svc := service.NewCustomerService(
		repository.NewCustomerRepository(db),
		repository.NewCustomerNoteRepository(db),
		zap.NewNop(),
	)
	h := handler.NewCustomerHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(withUser(user))
	r.Route("/customer", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/search", h.Search)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/relationships", h.AddNote)
		r.Put("/{id}/relationships/{noteId}", h.UpdateNote)
		r.Delete("/{id}/relationships/{noteId}", h.DeleteNote)
	})
	return r, db, user
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCustomerHandler_CreateAndGet(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/customer", domain.CreateCustomerRequest{
		Name:        "Maria Silva",
		MobilePhone: "11999990000",
		Address:     domain.AddressDTO{City: "São Paulo", State: "SP"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.CustomerDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Maria Silva", created.Name)

	rec = doJSON(t, router, http.MethodGet, "/customer/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched domain.CustomerDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "São Paulo", fetched.Address.City)
}

func TestCustomerHandler_Create_ValidationError(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/customer", domain.CreateCustomerRequest{
		Name:  "",
		Email: "não-é-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Errors, "name")
	assert.Contains(t, apiErr.Errors, "email")
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/customer/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerHandler_Get_InvalidID(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/customer/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerHandler_DeleteHidesFromList(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/customer", domain.CreateCustomerRequest{Name: "Maria Silva"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.CustomerDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodDelete, "/customer/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/customer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list domain.PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, int64(0), list.Total)
}

func TestCustomerHandler_Notes(t *testing.T) {
	router, _, _ := setupCustomerRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/customer", domain.CreateCustomerRequest{Name: "Maria Silva"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.CustomerDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	base := fmt.Sprintf("/customer/%s/relationships", created.ID)

	rec = doJSON(t, router, http.MethodPost, base, domain.CreateCustomerNoteRequest{Text: "Ligou pedindo orçamento"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var note domain.CustomerNoteDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))

	rec = doJSON(t, router, http.MethodPut, base+"/"+note.ID.String(), domain.UpdateCustomerNoteRequest{Text: "Orçamento enviado"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, base+"/"+note.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
