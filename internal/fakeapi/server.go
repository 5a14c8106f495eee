// Package fakeapi is an in-process stand-in for the product catalog GraphQL
// API. It dispatches on operationName rather than parsing queries, keeps its
// data in memory and can be scripted to fail specific operations.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Path is where the GraphQL endpoint is mounted.
const Path = "/graphql"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Product is the stored shape, already in wire form.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	Quantity    int     `json:"quantity"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// Call is one request received by the server.
type Call struct {
	Operation     string
	Authorization string
	Variables     map[string]any
}

type user struct {
	id       string
	username string
	email    string
	password string
	role     string
}

// failure is a scripted reply for the next call of an operation.
type failure struct {
	messages []string
	status   int
	hangup   bool
}

// Server is the fake API. The zero value is not usable; call New.
type Server struct {
	mu       sync.Mutex
	secret   []byte
	now      func() time.Time
	users    map[string]user
	products []Product
	revoked  map[string]bool
	failures map[string][]failure
	calls    []Call
}

// New creates an empty Server.
func New() *Server {
	return &Server{
		secret:   []byte(uuid.NewString()),
		now:      time.Now,
		users:    map[string]user{},
		revoked:  map[string]bool{},
		failures: map[string][]failure{},
	}
}

// Router returns the HTTP routes of the fake API.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc(Path, s.serveGraphQL).Methods(http.MethodPost)
	return r
}

// AddUser registers an account and returns its id.
func (s *Server) AddUser(username, password, role string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.users[username] = user{id: id, username: username, password: password, role: role}
	return id
}

// Seed adds a product and returns its id.
func (s *Server) Seed(name string, description *string, price string, quantity int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().UTC().Format(time.RFC3339)
	p := Product{ID: uuid.NewString(), Name: name, Description: description, Price: price, Quantity: quantity, CreatedAt: ts, UpdatedAt: ts}
	s.products = append([]Product{p}, s.products...)
	return p.ID
}

// Products returns a copy of the stored products.
func (s *Server) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Product(nil), s.products...)
}

// FailNext makes the next call of op reply with the given GraphQL error messages.
func (s *Server) FailNext(op string, messages ...string) {
	s.script(op, failure{messages: messages})
}

// FailNextStatus makes the next call of op reply with a bare HTTP status.
func (s *Server) FailNextStatus(op string, status int) {
	s.script(op, failure{status: status})
}

// HangUpNext makes the next call of op drop the connection without a reply.
func (s *Server) HangUpNext(op string) {
	s.script(op, failure{hangup: true})
}

// Revoke invalidates a token issued earlier, as if it had expired.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	s.revoked[token] = true
	s.mu.Unlock()
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsOf returns the requests received for op.
func (s *Server) CallsOf(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Operation == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) script(op string, f failure) {
	s.mu.Lock()
	s.failures[op] = append(s.failures[op], f)
	s.mu.Unlock()
}

func (s *Server) nextFailure(op string) (failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.failures[op]
	if len(queue) == 0 {
		return failure{}, false
	}
	s.failures[op] = queue[1:]
	return queue[0], true
}

type gqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

// errResolve is a resolver error reported in the "errors" array.
type errResolve string

func (e errResolve) Error() string { return string(e) }

const (
	errUnauthorized errResolve = "Unauthorized"
	errForbidden    errResolve = "Forbidden"
)

func (s *Server) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Operation: req.OperationName, Authorization: r.Header.Get("Authorization"), Variables: req.Variables})
	s.mu.Unlock()

	if f, ok := s.nextFailure(req.OperationName); ok {
		switch {
		case f.hangup:
			hangUp(w)
		case f.status != 0:
			http.Error(w, http.StatusText(f.status), f.status)
		default:
			writeErrors(w, f.messages...)
		}
		return
	}

	data, err := s.resolve(r, req)
	if err != nil {
		writeErrors(w, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (s *Server) resolve(r *http.Request, req gqlRequest) (map[string]any, error) {
	vars := req.Variables
	switch req.OperationName {
	case "Ping":
		return map[string]any{"ping": "pong"}, nil
	case "Login":
		return s.login(str(vars, "username"), str(vars, "password"))
	case "Register":
		return s.register(str(vars, "username"), str(vars, "email"), str(vars, "password"))
	}

	u, err := s.authenticate(r)
	if err != nil {
		return nil, err
	}

	switch req.OperationName {
	case "Me":
		return map[string]any{"me": userJSON(u)}, nil
	case "Products":
		return map[string]any{"products": s.Products()}, nil
	case "ProductByID":
		p, ok := s.find(str(vars, "id"))
		if !ok {
			return map[string]any{"productById": nil}, nil
		}
		return map[string]any{"productById": p}, nil
	case "CreateProduct":
		p, err := s.create(inputOf(vars))
		if err != nil {
			return nil, err
		}
		return map[string]any{"createProduct": p}, nil
	case "UpdateProduct":
		p, err := s.update(str(vars, "id"), inputOf(vars))
		if err != nil {
			return nil, err
		}
		return map[string]any{"updateProduct": p}, nil
	case "DeleteProduct":
		if u.role != RoleAdmin {
			return nil, errForbidden
		}
		return map[string]any{"deleteProduct": s.delete(str(vars, "id"))}, nil
	}
	return nil, errResolve(fmt.Sprintf("unknown operation %q", req.OperationName))
}

func (s *Server) login(username, password string) (map[string]any, error) {
	if username == "" {
		return nil, errResolve("username required")
	}
	if len(password) < 6 {
		return nil, errResolve("password required (min 6)")
	}
	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()
	if !ok || u.password != password {
		return nil, errResolve("Invalid credentials")
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   u.id,
		"username": u.username,
		"role":     u.role,
		"exp":      s.now().Add(time.Hour).Unix(),
	}).SignedString(s.secret)
	if err != nil {
		return nil, errResolve("token signing failed")
	}
	return map[string]any{"login": map[string]any{"token": token, "user": userJSON(u)}}, nil
}

func (s *Server) register(username, email, password string) (map[string]any, error) {
	if username == "" {
		return nil, errResolve("username required")
	}
	if email == "" {
		return nil, errResolve("email required")
	}
	if len(password) < 6 {
		return nil, errResolve("password required (min 6)")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[username]; taken {
		return nil, errResolve("Username already exists")
	}
	for _, u := range s.users {
		if u.email == email {
			return nil, errResolve("Email already exists")
		}
	}
	u := user{id: uuid.NewString(), username: username, email: email, password: password, role: RoleUser}
	s.users[username] = u
	return map[string]any{"register": userJSON(u)}, nil
}

func (s *Server) authenticate(r *http.Request) (user, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return user{}, errUnauthorized
	}
	raw := strings.TrimSpace(h[len("bearer "):])
	s.mu.Lock()
	revoked := s.revoked[raw]
	s.mu.Unlock()
	if raw == "" || revoked {
		return user{}, errUnauthorized
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return user{}, errUnauthorized
	}
	username, _ := claims["username"].(string)
	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return user{}, errUnauthorized
	}
	return u, nil
}

type productInput struct {
	name        string
	description *string
	price       float64
	quantity    int
}

func inputOf(vars map[string]any) productInput {
	raw, _ := vars["input"].(map[string]any)
	in := productInput{name: str(raw, "name")}
	if d, ok := raw["description"].(string); ok {
		in.description = &d
	}
	in.price, _ = raw["price"].(float64)
	if q, ok := raw["quantity"].(float64); ok {
		in.quantity = int(q)
	}
	return in
}

func (in productInput) validate() error {
	if len([]rune(strings.TrimSpace(in.name))) < 2 {
		return errResolve("name must be at least 2 characters")
	}
	if in.price < 0 || in.quantity < 0 {
		return errResolve("price and quantity must be >= 0")
	}
	return nil
}

func (s *Server) create(in productInput) (Product, error) {
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().UTC().Format(time.RFC3339)
	p := Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.name),
		Description: in.description,
		Price:       formatPrice(in.price),
		Quantity:    in.quantity,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	s.products = append([]Product{p}, s.products...)
	return p, nil
}

func (s *Server) update(id string, in productInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		p.Name = strings.TrimSpace(in.name)
		p.Description = in.description
		p.Price = formatPrice(in.price)
		p.Quantity = in.quantity
		p.UpdatedAt = s.now().UTC().Format(time.RFC3339)
		out := *p
		return &out, nil
	}
	return nil, nil
}

func (s *Server) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Server) find(id string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func userJSON(u user) map[string]any {
	return map[string]any{"id": u.id, "username": u.username, "role": u.role}
}

func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func writeErrors(w http.ResponseWriter, messages ...string) {
	errs := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, map[string]any{"message": m})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": nil, "errors": errs})
}

// hangUp closes the connection without writing a reply.
func hangUp(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		http.Error(w, "hangup unsupported", http.StatusInternalServerError)
		return
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		return
	}
	conn.Close()
}
