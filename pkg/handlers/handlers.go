// Package handlers wires the HTTP surface to the domain services.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/remy/cryptofolio-ledger/pkg/api"
	"github.com/remy/cryptofolio-ledger/pkg/auth"
	"github.com/remy/cryptofolio-ledger/pkg/favorites"
	"github.com/remy/cryptofolio-ledger/pkg/ledger"
	"github.com/remy/cryptofolio-ledger/pkg/mapping"
	"github.com/remy/cryptofolio-ledger/pkg/media"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/portfolio"
	"github.com/remy/cryptofolio-ledger/pkg/prices"
	"github.com/remy/cryptofolio-ledger/pkg/scheduler"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
)

// MediaStore captures the profile image operations the HTTP surface needs,
// implemented by media.Client.
type MediaStore interface {
	Upload(ctx context.Context, userID int64, name string, image io.Reader) (string, error)
	LatestProfileImage(ctx context.Context, userID int64) (string, error)
}

// ApiHandler holds the application's dependencies behind the HTTP routes.
type ApiHandler struct {
	Store     storage.Storage
	Scheduler scheduler.Scheduler
	Auth      *auth.Service
	Favorites *favorites.Service
	Prices    *prices.Service
	Portfolio *portfolio.Service
	Media     MediaStore
	Logger    *slog.Logger

	validate *validator.Validate

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(store storage.Storage, sched scheduler.Scheduler, authSvc *auth.Service,
	favSvc *favorites.Service, priceSvc *prices.Service, portfolioSvc *portfolio.Service,
	mediaStore MediaStore, logger *slog.Logger) *ApiHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApiHandler{
		Store:     store,
		Scheduler: sched,
		Auth:      authSvc,
		Favorites: favSvc,
		Prices:    priceSvc,
		Portfolio: portfolioSvc,
		Media:     mediaStore,
		Logger:    logger,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// Routes mounts every handler on a chi router.
func (h *ApiHandler) Routes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/transactions", h.CreateTransaction)
	r.Get("/users/{userId}/transactions", h.ListTransactionsByUserId)
	r.Get("/users/{userId}/balance", h.GetBalanceByUserId)
	r.Get("/users/{userId}/favorites", h.ListFavoritesByUserId)
	r.Post("/favorites/toggle", h.ToggleFavorite)
	r.Get("/prices", h.ListPrices)
	r.Get("/users/{userId}/crypto-transactions", h.ListCryptoTransactionsByUserId)
	r.Post("/users/{userId}/profile-image", h.UploadProfileImage)
	r.Get("/users/{userId}/profile-image", h.GetProfileImageByUserId)
}

// Login authenticates a user and registers the device's push token.
func (h *ApiHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sess, err := h.Auth.Login(r.Context(), string(req.Email), req.Password, req.FcmToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.Logger.Error("login failed", "error", err)
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, api.LoginResponse{
		UserId:       sess.UserID,
		DisplayName:  sess.DisplayName,
		ProfileImage: sess.ProfileImage,
	})
}

// CreateTransaction records one pending cash movement and publishes its
// change event. A future-dated transaction also gets a delayed revaluation
// event so its balance contribution lands once the date passes.
func (h *ApiHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var newTx api.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&newTx); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&newTx); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if (newTx.Deposit > 0) == (newTx.Withdrawal > 0) {
		http.Error(w, "Exactly one of deposit and withdrawal must be positive", http.StatusBadRequest)
		return
	}

	now := h.now()
	domainTx := mapping.ToDomainNewTransaction(&newTx)
	domainTx.Id = now.UnixMilli()
	if domainTx.DateTransaction == "" {
		domainTx.DateTransaction = models.FormatTimestamp(now)
	}
	txDate, err := domainTx.Date()
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid transaction date: %v", err), http.StatusBadRequest)
		return
	}

	if domainTx.Withdrawal > 0 {
		current, err := h.Store.ListTransactionsByUserID(r.Context(), domainTx.IdUser)
		if err != nil {
			h.Logger.Error("failed to load balance for withdrawal check", "id_user", domainTx.IdUser, "error", err)
			http.Error(w, "Failed to create transaction", http.StatusInternalServerError)
			return
		}
		if domainTx.Withdrawal > ledger.Balance(current, now) {
			http.Error(w, "Insufficient funds", http.StatusUnprocessableEntity)
			return
		}
	}

	if err := h.Store.CreateTransaction(r.Context(), domainTx); err != nil {
		if errors.Is(err, storage.ErrTransactionExists) {
			http.Error(w, "Transaction already exists", http.StatusConflict)
			return
		}
		h.Logger.Error("failed to create transaction", "id", domainTx.Id, "error", err)
		http.Error(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	if h.Scheduler != nil {
		if err := h.Scheduler.PublishChange(r.Context(), stream.Added, domainTx); err != nil {
			h.Logger.Error("transaction created but change event not published", "id", domainTx.Id, "error", err)
		}
		if txDate.After(now) {
			if err := h.Scheduler.ScheduleRevaluation(r.Context(), domainTx, txDate.Sub(now)); err != nil {
				h.Logger.Error("failed to schedule revaluation", "id", domainTx.Id, "error", err)
			}
		}
	}

	respondJSON(w, http.StatusCreated, mapping.ToApiTransaction(domainTx))
}

// ListTransactionsByUserId serves a user's full transaction set.
func (h *ApiHandler) ListTransactionsByUserId(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	domainTxs, err := h.Store.ListTransactionsByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve transactions: %v", err), http.StatusInternalServerError)
		return
	}

	apiTxs := make([]*api.Transaction, len(domainTxs))
	for i, tx := range domainTxs {
		apiTxs[i] = mapping.ToApiTransaction(&tx)
	}
	respondJSON(w, http.StatusOK, apiTxs)
}

// GetBalanceByUserId folds and serves a user's current balance.
func (h *ApiHandler) GetBalanceByUserId(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	domainTxs, err := h.Store.ListTransactionsByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve balance: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, api.Balance{
		IdUser:  userID,
		Balance: ledger.Balance(domainTxs, h.now()),
	})
}

// ToggleFavorite flips one favorite membership and reports the new state.
func (h *ApiHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req api.ToggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	on, err := h.Favorites.Toggle(r.Context(), req.IdUser, req.IdCrypto)
	if err != nil {
		h.Logger.Error("failed to toggle favorite", "id_user", req.IdUser, "id_crypto", req.IdCrypto, "error", err)
		http.Error(w, "Failed to toggle favorite", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, api.ToggleFavoriteResponse{IdCrypto: req.IdCrypto, Favorite: on})
}

// ListFavoritesByUserId serves the ids of a user's favorite assets.
func (h *ApiHandler) ListFavoritesByUserId(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ids, err := h.Favorites.List(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve favorites: %v", err), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, ids)
}

// ListPrices serves the latest labelled quote per asset.
func (h *ApiHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	latest, err := h.Prices.Latest(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve prices: %v", err), http.StatusInternalServerError)
		return
	}

	apiPrices := make([]*api.AssetPrice, len(latest))
	for i, price := range latest {
		apiPrices[i] = mapping.ToApiAssetPrice(&price)
	}
	respondJSON(w, http.StatusOK, apiPrices)
}

// ListCryptoTransactionsByUserId serves a user's labelled trade history.
func (h *ApiHandler) ListCryptoTransactionsByUserId(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Portfolio.History(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve crypto transactions: %v", err), http.StatusInternalServerError)
		return
	}

	apiEntries := make([]*api.CryptoTransaction, len(entries))
	for i, entry := range entries {
		apiEntries[i] = mapping.ToApiCryptoTransaction(&entry)
	}
	respondJSON(w, http.StatusOK, apiEntries)
}

// UploadProfileImage stores a new profile image for the user and returns its
// public url.
func (h *ApiHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if h.Media == nil {
		http.Error(w, "Media storage is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, fmt.Sprintf("Invalid upload form: %v", err), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Upload form is missing the image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	url, err := h.Media.Upload(r.Context(), userID, name, file)
	if err != nil {
		h.Logger.Error("failed to upload profile image", "id_user", userID, "error", err)
		http.Error(w, "Failed to upload profile image", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, api.ProfileImage{Url: url})
}

// GetProfileImageByUserId serves the url of the user's newest upload.
func (h *ApiHandler) GetProfileImageByUserId(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if h.Media == nil {
		http.Error(w, "Media storage is not configured", http.StatusServiceUnavailable)
		return
	}

	url, err := h.Media.LatestProfileImage(r.Context(), userID)
	if err != nil {
		if errors.Is(err, media.ErrNoImage) {
			http.Error(w, "No profile image", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve profile image: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, api.ProfileImage{Url: url})
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "userId")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, fmt.Sprintf("Invalid user id %q", raw), http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
