package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/financeme/api/internal/config"
	"github.com/financeme/api/internal/domain/models"
	"github.com/financeme/api/internal/lib/apperr"
	"github.com/financeme/api/internal/lib/jwt"
	"github.com/gorilla/mux"
)

// Storage is the relational store the API runs against.
type Storage interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error

	SaveTransaction(ctx context.Context, transaction *models.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	GetTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, transaction *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

type APIServer struct {
	config    *config.Config
	logger    *slog.Logger
	server    *http.Server
	storage   Storage
	jwtSecret []byte
}

func New(config *config.Config, logger *slog.Logger, storage Storage, jwtSecret []byte) *APIServer {
	return &APIServer{
		config: config,
		logger: logger,
		server: &http.Server{
			Addr: config.ApiHost + ":" + strconv.Itoa(config.ApiPort),
		},
		storage:   storage,
		jwtSecret: jwtSecret,
	}
}

func (s *APIServer) Start() error {
	s.logger.Info("Starting server", slog.String("port", strconv.Itoa(s.config.ApiPort)))

	s.configureRouter()

	return s.server.ListenAndServe()
}

func (s *APIServer) MustStart() {
	err := s.Start()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic("Failed to start server: " + err.Error())
	}
}

func (s *APIServer) Stop(ctx context.Context) error {
	defer s.logger.Info("Server successfully stopped")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) configureRouter() {
	router := mux.NewRouter()

	router.HandleFunc("/login", s.loginHandler()).Methods("POST")

	router.HandleFunc("/users", s.createUserHandler()).Methods("POST")
	router.HandleFunc("/users", s.listUsersHandler()).Methods("GET")
	router.HandleFunc("/users/{id}", s.getUserHandler()).Methods("GET")
	router.HandleFunc("/users/{id}", s.authenticate(s.updateUserHandler())).Methods("PATCH")
	router.HandleFunc("/users/{id}", s.authenticate(s.deleteUserHandler())).Methods("DELETE")

	router.HandleFunc("/transactions", s.authenticate(s.createTransactionHandler())).Methods("POST")
	router.HandleFunc("/transactions/{id}", s.authenticate(s.getTransactionHandler())).Methods("GET")
	router.HandleFunc("/transactions/{id}", s.authenticate(s.updateTransactionHandler())).Methods("PATCH")
	router.HandleFunc("/transactions/{id}", s.authenticate(s.deleteTransactionHandler())).Methods("DELETE")

	router.HandleFunc("/amounts/{id}", s.authenticate(s.amountsHandler())).Methods("GET")

	s.server.Handler = router
}

type ctxKey string

// ctxUserID carries the authenticated caller's user id through the request.
const ctxUserID ctxKey = "uuid"

func (s *APIServer) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenHeader := r.Header.Get("Authorization")
		if tokenHeader == "" {
			s.writeError(w, apperr.Unauthorized("Missing token"))
			return
		}

		parts := strings.Split(tokenHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.writeError(w, apperr.Unauthorized("Invalid token format"))
			return
		}

		claims, err := jwt.ParseToken(parts[1], string(s.jwtSecret))
		if err != nil {
			s.writeError(w, apperr.Unauthorized("Invalid token"))
			return
		}

		userID, err := jwt.UserID(claims)
		if err != nil {
			s.writeError(w, apperr.Unauthorized("Invalid token"))
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), ctxUserID, userID))
		next(w, r)
	}
}

// callerID returns the user id the bearer middleware stored on the context.
func callerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxUserID).(string)
	return id
}

type errorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (s *APIServer) writeError(w http.ResponseWriter, err error) {
	if appErr := apperr.From(err); appErr != nil {
		s.writeJSON(w, appErr.Status, errorResponse{Message: appErr.Message, Status: appErr.Status})
		return
	}

	s.logger.Error("Unhandled error", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message: "Internal Server Error",
		Status:  http.StatusInternalServerError,
	})
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}
