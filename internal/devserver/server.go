// Package devserver is an in-memory backend that speaks the same HTTP
// contract as the FarmChainX API. It backs local development and the
// gateway's integration tests.
package devserver

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Adithya91-code/Farmchaingpt/internal/crop"
	"github.com/Adithya91-code/Farmchaingpt/internal/obs"
)

const maxBodyBytes = 1 << 20

// Config tunes a Server. Zero values pick development defaults.
type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	RateBurst  int
	RatePerSec int
	Now        func() time.Time
}

type Server struct {
	router     *mux.Router
	store      *memStore
	tokens     tokenIssuer
	rateBurst  int
	ratePerSec int
}

func New(cfg Config) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if len(cfg.Secret) == 0 {
		cfg.Secret = make([]byte, 32)
		_, _ = rand.Read(cfg.Secret)
	}
	s := &Server{
		router:     mux.NewRouter(),
		store:      newMemStore(cfg.Now),
		tokens:     tokenIssuer{secret: cfg.Secret, ttl: cfg.TokenTTL, now: cfg.Now},
		rateBurst:  cfg.RateBurst,
		ratePerSec: cfg.RatePerSec,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", obs.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/signup", s.signUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", s.signIn).Methods(http.MethodPost)
	api.HandleFunc("/crops", s.authed(s.listCrops)).Methods(http.MethodGet)
	api.HandleFunc("/crops", s.authed(s.createCrop)).Methods(http.MethodPost)
	api.HandleFunc("/crops/scan/{id}", s.scanCrop).Methods(http.MethodGet)
	api.HandleFunc("/crops/farmer/{id}", s.authed(s.farmerCrops)).Methods(http.MethodGet)
	api.HandleFunc("/crops/distributor/{id}", s.authed(s.distributorCrops)).Methods(http.MethodGet)
	api.HandleFunc("/crops/{id}", s.authed(s.updateCrop)).Methods(http.MethodPut)
	api.HandleFunc("/crops/{id}", s.authed(s.deleteCrop)).Methods(http.MethodDelete)
}

// Handler returns the instrumented, logged and optionally rate limited router.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if s.ratePerSec > 0 {
		burst := s.rateBurst
		if burst <= 0 {
			burst = s.ratePerSec
		}
		h = RateLimit(h, burst, s.ratePerSec)
	}
	return obs.Instrument(RequestLogging(h))
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Role     string `json:"role"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Token         string `json:"token"`
	FarmerID      string `json:"farmerId,omitempty"`
	DistributorID string `json:"distributorId,omitempty"`
	Name          string `json:"name"`
	Location      string `json:"location"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": "farmchain-dev"})
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.Register(req.Email, req.Password, req.Name, req.Location, req.Role)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrEmailTaken) {
			status = http.StatusConflict
		}
		writeText(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"id":      id,
	})
}

// Register adds a user the way the sign-up endpoint does and returns its id.
func (s *Server) Register(email, password, name, location, role string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", errors.New("Email and password are required")
	}
	role = strings.ToUpper(strings.TrimSpace(role))
	switch role {
	case roleFarmer, roleDistributor, roleRetailer:
	default:
		return "", errors.New("Invalid role")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}
	u, err := s.store.addUser(user{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Location:     strings.TrimSpace(location),
		Role:         role,
	})
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	u, ok := s.store.userByEmail(req.Email)
	if !ok || !verifyPassword(u.PasswordHash, req.Password) {
		writeText(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := s.tokens.issue(u.ID, u.Role)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	writeJSON(w, http.StatusOK, signInResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		Token:         token,
		FarmerID:      u.FarmerID,
		DistributorID: u.DistributorID,
		Name:          u.Name,
		Location:      u.Location,
	})
}

func (s *Server) authed(next func(http.ResponseWriter, *http.Request, *user)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeText(w, http.StatusUnauthorized, err.Error())
			return
		}
		c, err := s.tokens.parse(token)
		if err != nil {
			writeText(w, http.StatusUnauthorized, err.Error())
			return
		}
		u, ok := s.store.userByID(c.Subject)
		if !ok {
			writeText(w, http.StatusUnauthorized, ErrUserNotFound.Error())
			return
		}
		next(w, r, u)
	}
}

func (s *Server) listCrops(w http.ResponseWriter, r *http.Request, u *user) {
	writeJSON(w, http.StatusOK, s.store.filter(visibleTo(u)))
}

// visibleTo selects the crops a user holds at their stage of the chain.
func visibleTo(u *user) func(crop.Wire) bool {
	return func(c crop.Wire) bool {
		switch u.Role {
		case roleFarmer:
			return c.User != nil && c.User.ID.String() == u.ID
		case roleDistributor:
			return c.DistributorID != "" && c.DistributorID.String() == u.DistributorID
		case roleRetailer:
			return u.Name != "" && c.RetailerName.String() == u.Name
		}
		return false
	}
}

func (s *Server) createCrop(w http.ResponseWriter, r *http.Request, u *user) {
	if u.Role != roleFarmer {
		writeText(w, http.StatusForbidden, "Only farmers can create crops")
		return
	}
	var d crop.Draft
	if err := decodeJSON(w, r, &d); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(d.Name) == "" {
		writeText(w, http.StatusBadRequest, "Crop name is required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.createCrop(u, d))
}

func (s *Server) updateCrop(w http.ResponseWriter, r *http.Request, u *user) {
	var d crop.Draft
	if err := decodeJSON(w, r, &d); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.store.updateCrop(u, mux.Vars(r)["id"], d)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCrop(w http.ResponseWriter, r *http.Request, u *user) {
	if err := s.store.deleteCrop(u, mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) farmerCrops(w http.ResponseWriter, r *http.Request, _ *user) {
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, s.store.filter(func(c crop.Wire) bool { return c.FarmerID.String() == id }))
}

func (s *Server) distributorCrops(w http.ResponseWriter, r *http.Request, _ *user) {
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, s.store.filter(func(c crop.Wire) bool { return c.DistributorID.String() == id }))
}

func (s *Server) scanCrop(w http.ResponseWriter, r *http.Request) {
	c, ok := s.store.crop(mux.Vars(r)["id"])
	if !ok {
		writeText(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// --- helpers ---

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeText(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		writeText(w, http.StatusForbidden, err.Error())
	default:
		writeText(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeText sends msg as the whole body; clients show it verbatim.
func writeText(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, msg)
}
