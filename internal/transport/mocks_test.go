package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"material-api/internal/domain"
	"material-api/internal/repository"
	"material-api/internal/response"
	"material-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("connection refused")

// Mock repositories for testing
type mockMaterialRepository struct {
	materials map[int64]*domain.Material
	nextID    int64
	failWrite error
}

func newMockMaterialRepository() *mockMaterialRepository {
	return &mockMaterialRepository{
		materials: make(map[int64]*domain.Material),
		nextID:    1,
	}
}

func (m *mockMaterialRepository) checkConstraints(material *domain.Material) error {
	for _, existing := range m.materials {
		if existing.ID != material.ID && existing.Code == material.Code {
			return &repository.ValidationError{Message: "Code must be unique"}
		}
	}
	if material.BuyPrice < 100 {
		return &repository.ValidationError{Message: "Buy price cannot be less than 100"}
	}
	return nil
}

func (m *mockMaterialRepository) Create(ctx context.Context, material *domain.Material) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	if err := m.checkConstraints(material); err != nil {
		return err
	}
	material.ID = m.nextID
	m.nextID++
	copied := *material
	m.materials[material.ID] = &copied
	return nil
}

func (m *mockMaterialRepository) Update(ctx context.Context, material *domain.Material) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	if _, ok := m.materials[material.ID]; !ok {
		return repository.ErrMaterialNotFound
	}
	if err := m.checkConstraints(material); err != nil {
		return err
	}
	copied := *material
	m.materials[material.ID] = &copied
	return nil
}

func (m *mockMaterialRepository) Delete(ctx context.Context, id int64) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	if _, ok := m.materials[id]; !ok {
		return repository.ErrMaterialNotFound
	}
	delete(m.materials, id)
	return nil
}

func (m *mockMaterialRepository) FindByID(ctx context.Context, id int64) (*domain.Material, error) {
	material, ok := m.materials[id]
	if !ok {
		return nil, repository.ErrMaterialNotFound
	}
	copied := *material
	return &copied, nil
}

func (m *mockMaterialRepository) List(ctx context.Context, filters map[string]string) ([]*domain.Material, error) {
	materials := []*domain.Material{}
	for _, material := range m.materials {
		if value, ok := filters["type"]; ok && string(material.Type) != value {
			continue
		}
		copied := *material
		materials = append(materials, &copied)
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i].ID < materials[j].ID })
	return materials, nil
}

func (m *mockMaterialRepository) Count(ctx context.Context) (int, error) {
	return len(m.materials), nil
}

func (m *mockMaterialRepository) SelectionValues(ctx context.Context, field string) ([]string, error) {
	if field != "type" {
		return nil, repository.ErrUnknownField
	}
	return []string{"fabric", "leather", "cotton"}, nil
}

type mockSupplierRepository struct {
	suppliers map[int64]*domain.Supplier
	nextID    int64
}

func newMockSupplierRepository() *mockSupplierRepository {
	return &mockSupplierRepository{
		suppliers: make(map[int64]*domain.Supplier),
		nextID:    1,
	}
}

func (m *mockSupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	supplier.ID = m.nextID
	m.nextID++
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *mockSupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers := []*domain.Supplier{}
	for _, supplier := range m.suppliers {
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

func (m *mockSupplierRepository) FindByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	supplier, ok := m.suppliers[id]
	if !ok {
		return nil, repository.ErrSupplierNotFound
	}
	return supplier, nil
}

type testAPI struct {
	router    http.Handler
	materials *mockMaterialRepository
	suppliers *mockSupplierRepository
	supplier  *domain.Supplier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	materials := newMockMaterialRepository()
	suppliers := newMockSupplierRepository()
	supplier := &domain.Supplier{Name: "Test Supplier"}
	if err := suppliers.Create(context.Background(), supplier); err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	logger := zap.NewNop()
	materialService := service.NewMaterialService(materials, suppliers, service.MaterialOptions{
		Spec:             service.MaterialFieldSpec(),
		FilterableFields: []string{"type"},
	}, nil, logger)
	supplierService := service.NewSupplierService(suppliers, logger)

	passthrough := func(next http.Handler) http.Handler { return next }

	router := chi.NewRouter()
	NewMaterialHandler(materialService, logger).RegisterRoutes(router, passthrough)
	NewSupplierHandler(supplierService, logger).RegisterRoutes(router, passthrough)

	return &testAPI{router: router, materials: materials, suppliers: suppliers, supplier: supplier}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env response.Envelope
	dec := json.NewDecoder(w.Body)
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		t.Fatalf("response is not an envelope: %v", err)
	}
	return w, env
}

func serve(a *testAPI, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
