package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/shop-order-service/internal/adapter/membus"
	"github.com/example/shop-order-service/internal/adapter/memstore"
	"github.com/example/shop-order-service/internal/domain"
	"github.com/example/shop-order-service/internal/usecase"
)

func newTestServer(t *testing.T) (*Server, *membus.Bus) {
	t.Helper()
	catalog := memstore.NewMemoryProductCatalog()
	for _, p := range []domain.Product{
		{ID: "P1", ProductName: "Mouse", Code: "P1", Price: 10.0},
		{ID: "P2", ProductName: "Mousepad", Code: "P2", Price: 5.0},
	} {
		if _, err := catalog.Save(context.Background(), p); err != nil {
			t.Fatalf("seed catalog: %v", err)
		}
	}
	store := memstore.NewMemoryOrderStore()
	bus := membus.New()
	s := NewServer(Usecases{
		CreateOrder:   usecase.CreateOrder{Catalog: catalog, Store: store, Bus: bus},
		GetOrder:      usecase.GetOrder{Store: store},
		ListOrders:    usecase.ListOrders{Store: store},
		DeleteOrder:   usecase.DeleteOrder{Store: store, Bus: bus},
		CreateProduct: usecase.CreateProduct{Catalog: catalog, Bus: bus},
		DeleteProduct: usecase.DeleteProduct{Catalog: catalog, Bus: bus},
	})
	return s, bus
}

func doJSON(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func TestCreateOrder(t *testing.T) {
	s, bus := newTestServer(t)
	body := `{"email":"a@b.com","productIds":["P1","P2"],"payment":"CASH",
              "shipping":{"type":"URGENT","carrier":"POST"}}`
	w := doJSON(t, s, http.MethodPost, "/api/orders", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/orders = %d, want 201: %s", w.Code, w.Body.String())
	}

	var order domain.Order
	if err := json.NewDecoder(w.Body).Decode(&order); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if order.Email != "a@b.com" || order.ID == "" || order.CreatedAt == 0 {
		t.Errorf("unexpected order: %+v", order)
	}
	if len(order.Products) != 2 || order.Billing.TotalPrice != 15.0 {
		t.Errorf("pricing: products=%d total=%v, want 2/15.0", len(order.Products), order.Billing.TotalPrice)
	}
	if order.Shipping.Type != domain.ShippingUrgent || order.Shipping.Carrier != domain.CarrierPost {
		t.Errorf("shipping not copied verbatim: %+v", order.Shipping)
	}
	bus.Wait()
}

func TestCreateOrderErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "unknown product",
			body:     `{"email":"a@b.com","productIds":["P1","NOPE"],"payment":"CASH"}`,
			wantCode: http.StatusNotFound,
			wantBody: "some product was not found",
		},
		{
			name:     "missing email",
			body:     `{"productIds":["P1"],"payment":"CASH"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty product list",
			body:     `{"email":"a@b.com","productIds":[],"payment":"CASH"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			body:     `{"email":`,
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			w := doJSON(t, s, http.MethodPost, "/api/orders", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want substring %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	s, bus := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/orders",
		`{"email":"a@b.com","productIds":["P1"],"payment":"DEBIT_CARD","shipping":{"type":"ECONOMIC","carrier":"FEDEX"}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	var order domain.Order
	_ = json.NewDecoder(w.Body).Decode(&order)

	get := "/api/orders?email=a@b.com&orderId=" + order.ID
	if w := doJSON(t, s, http.MethodGet, get, ""); w.Code != http.StatusOK {
		t.Fatalf("get after create = %d", w.Code)
	}
	if w := doJSON(t, s, http.MethodDelete, get, ""); w.Code != http.StatusOK {
		t.Fatalf("delete = %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, s, http.MethodGet, get, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
	if w := doJSON(t, s, http.MethodDelete, get, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
	bus.Wait()
}

func TestGetOrders(t *testing.T) {
	s, bus := newTestServer(t)
	for _, email := range []string{"a@b.com", "a@b.com", "c@d.com"} {
		w := doJSON(t, s, http.MethodPost, "/api/orders",
			`{"email":"`+email+`","productIds":["P2"],"payment":"CASH"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed order for %s: %d", email, w.Code)
		}
	}
	bus.Wait()

	tests := []struct {
		name     string
		target   string
		wantLen  int
		wantCode int
	}{
		{"by owner", "/api/orders?email=a@b.com", 2, http.StatusOK},
		{"all", "/api/orders", 3, http.StatusOK},
		{"unknown owner", "/api/orders?email=x@y.com", 0, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodGet, tt.target, "")
			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", w.Code, tt.wantCode)
			}
			var orders []domain.Order
			if err := json.NewDecoder(w.Body).Decode(&orders); err != nil {
				t.Fatalf("decode list: %v", err)
			}
			if len(orders) != tt.wantLen {
				t.Errorf("orders = %d, want %d", len(orders), tt.wantLen)
			}
		})
	}

	// orderId без email — ошибка формы запроса, не NotFound
	if w := doJSON(t, s, http.MethodGet, "/api/orders?orderId=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("orderId without email = %d, want 400", w.Code)
	}
}

func TestProductAdmin(t *testing.T) {
	s, bus := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/products?email=admin@shop.com",
		`{"id":"P9","productName":"Keyboard","code":"P9","price":42.5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product = %d: %s", w.Code, w.Body.String())
	}

	// новый товар сразу доступен для заказа
	w = doJSON(t, s, http.MethodPost, "/api/orders",
		`{"email":"a@b.com","productIds":["P9"],"payment":"CASH"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("order with new product = %d", w.Code)
	}

	if w := doJSON(t, s, http.MethodDelete, "/api/products/P9?email=admin@shop.com", ""); w.Code != http.StatusOK {
		t.Errorf("delete product = %d", w.Code)
	}
	if w := doJSON(t, s, http.MethodDelete, "/api/products/P9", ""); w.Code != http.StatusNotFound {
		t.Errorf("delete missing product = %d, want 404", w.Code)
	}
	bus.Wait()
}
