// Package catalogtest runs an in-memory stand-in for the remote catalog
// API so client, session, and validator tests exercise real HTTP.
package catalogtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

// Server is a fake catalog API over httptest. Products, categories, and
// login users are seeded by tests; all handlers operate on in-memory state
// under a mutex.
type Server struct {
	mu         sync.Mutex
	products   map[int]domain.Product
	order      []int
	categories []domain.Category
	users      map[string]string // email -> password
	nextID     int
	signingKey []byte

	httpServer *httptest.Server
}

func NewServer() *Server {
	s := &Server{
		products:   make(map[int]domain.Product),
		users:      make(map[string]string),
		nextID:     1,
		signingKey: []byte("catalogtest-signing-key"),
	}

	r := chi.NewRouter()
	r.Post("/auth/login", s.handleLogin)
	r.Get("/products", s.handleListProducts)
	r.Get("/products/{id}", s.handleGetProduct)
	r.Post("/products", s.handleCreateProduct)
	r.Put("/products/{id}", s.handleUpdateProduct)
	r.Delete("/products/{id}", s.handleDeleteProduct)
	r.Get("/categories", s.handleListCategories)

	s.httpServer = httptest.NewServer(r)
	return s
}

// URL is the base URL clients should be configured with.
func (s *Server) URL() string {
	return s.httpServer.URL
}

func (s *Server) Close() {
	s.httpServer.Close()
}

// AddUser registers credentials the login endpoint will accept.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// AddProduct seeds a product, assigning an ID when the given one is zero.
func (s *Server) AddProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID
	}
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
	return p
}

// RemoveProduct deletes a product server-side, simulating catalog drift
// behind an already-populated cart.
func (s *Server) RemoveProduct(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
}

// SetCategories seeds the category list.
func (s *Server) SetCategories(categories []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}

func (s *Server) deleteLocked(id int) {
	delete(s.products, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req catalog.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	password, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok || password != req.Password {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, catalog.LoginResponse{AccessToken: signed})
}

func (s *Server) handleListProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	products := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		products = append(products, s.products[id])
	}
	s.mu.Unlock()
	writeJSON(w, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	product, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, product)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var create catalog.CreateProduct
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	product := domain.Product{
		ID:          s.nextID,
		Title:       create.Title,
		Price:       create.Price,
		Description: create.Description,
		Images:      create.Images,
		Category:    s.categoryLocked(create.CategoryID),
		Stock:       create.Stock,
	}
	s.nextID++
	s.products[product.ID] = product
	s.order = append(s.order, product.ID)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var update catalog.UpdateProduct
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	product, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if update.Title != nil {
		product.Title = *update.Title
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.CategoryID != nil {
		product.Category = s.categoryLocked(*update.CategoryID)
	}
	if update.Images != nil {
		product.Images = update.Images
	}
	if update.Stock != nil {
		product.Stock = update.Stock
	}
	s.products[id] = product
	s.mu.Unlock()

	writeJSON(w, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, ok := s.products[id]
	if ok {
		s.deleteLocked(id)
	}
	s.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, true)
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	categories := append([]domain.Category(nil), s.categories...)
	s.mu.Unlock()
	writeJSON(w, categories)
}

// authorized verifies the bearer token signature. The fake API mirrors the
// real one in only gating the admin product mutations.
func (s *Server) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return false
	}
	_, err := jwt.Parse(header[len(prefix):], func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	return err == nil
}

func (s *Server) categoryLocked(id int) domain.Category {
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return domain.Category{ID: id}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
