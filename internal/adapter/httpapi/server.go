package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/example/shop-order-service/internal/domain"
	"github.com/example/shop-order-service/internal/usecase"
)

// Usecases — контейнер зависимостей HTTP-слоя; собирается один раз при старте
// процесса.
type Usecases struct {
	CreateOrder   usecase.CreateOrder
	GetOrder      usecase.GetOrder
	ListOrders    usecase.ListOrders
	DeleteOrder   usecase.DeleteOrder
	CreateProduct usecase.CreateProduct
	DeleteProduct usecase.DeleteProduct
}

type Server struct {
	Router *mux.Router
	uc     Usecases
}

func NewServer(uc Usecases) *Server {
	s := &Server{Router: mux.NewRouter(), uc: uc}
	s.Router.HandleFunc("/api/orders", s.handleCreateOrder).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/orders", s.handleGetOrders).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/orders", s.handleDeleteOrder).Methods(http.MethodDelete)
	s.Router.HandleFunc("/api/products", s.handleCreateProduct).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/products/{id}", s.handleDeleteProduct).Methods(http.MethodDelete)
	return s
}

type orderRequest struct {
	Email      string             `json:"email"`
	ProductIDs []string           `json:"productIds"`
	Payment    domain.PaymentType `json:"payment"`
	Shipping   domain.Shipping    `json:"shipping"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || len(req.ProductIDs) == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	order, err := s.uc.CreateOrder.Execute(r.Context(), usecase.CreateOrderRequest{
		Email:      req.Email,
		ProductIDs: req.ProductIDs,
		Payment:    req.Payment,
		Shipping:   req.Shipping,
		RequestID:  uuid.NewString(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	orderID := r.URL.Query().Get("orderId")
	if orderID != "" {
		if email == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		order, err := s.uc.GetOrder.Execute(r.Context(), email, orderID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
		return
	}
	orders, err := s.uc.ListOrders.Execute(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	orderID := r.URL.Query().Get("orderId")
	if email == "" || orderID == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	order, err := s.uc.DeleteOrder.Execute(r.Context(), email, orderID, uuid.NewString())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	created, err := s.uc.CreateProduct.Execute(r.Context(), p, r.URL.Query().Get("email"), uuid.NewString())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	deleted, err := s.uc.DeleteProduct.Execute(r.Context(), id, r.URL.Query().Get("email"), uuid.NewString())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError — отображение доменных ошибок в ответы. ErrUnresolvedProduct и
// ErrNotFound — один класс статуса (404), но разные тела: различение видов
// ошибок намеренное.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnresolvedProduct):
		http.Error(w, domain.ErrUnresolvedProduct.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, domain.ErrValidation.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
