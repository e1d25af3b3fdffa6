package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/remy/cryptofolio-ledger/pkg/api"
	"github.com/remy/cryptofolio-ledger/pkg/auth"
	"github.com/remy/cryptofolio-ledger/pkg/favorites"
	"github.com/remy/cryptofolio-ledger/pkg/media"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/portfolio"
	"github.com/remy/cryptofolio-ledger/pkg/prices"
	"github.com/remy/cryptofolio-ledger/pkg/session"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
	"github.com/remy/cryptofolio-ledger/pkg/storage/mocks"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var handlerNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.Local)

type scheduledRevaluation struct {
	tx    *models.Transaction
	delay time.Duration
}

// captureScheduler records published events instead of sending them.
type captureScheduler struct {
	published    []stream.ChangeKind
	revaluations []scheduledRevaluation
	err          error
}

func (c *captureScheduler) PublishChange(_ context.Context, kind stream.ChangeKind, _ *models.Transaction) error {
	c.published = append(c.published, kind)
	return c.err
}

func (c *captureScheduler) ScheduleRevaluation(_ context.Context, tx *models.Transaction, delay time.Duration) error {
	c.revaluations = append(c.revaluations, scheduledRevaluation{tx: tx, delay: delay})
	return c.err
}

func newTestHandler(t *testing.T, mockStorage *mocks.Storage, sched *captureScheduler) *ApiHandler {
	sessions := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	h := NewApiHandler(
		mockStorage,
		sched,
		auth.NewService(mockStorage, sessions, nil),
		favorites.NewService(mockStorage),
		prices.NewService(mockStorage, nil, 0, nil),
		portfolio.NewService(mockStorage, nil),
		nil,
		nil,
	)
	h.now = func() time.Time { return handlerNow }
	return h
}

func validatedAt() *time.Time {
	at := handlerNow.Add(-24 * time.Hour)
	return &at
}

func TestCreateTransaction(t *testing.T) {
	t.Run("deposit is created and its change event published", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Id == handlerNow.UnixMilli() && tx.IdUser == 1 && tx.Deposit == 100 &&
				tx.ValidatedAt == nil && !tx.NotificationSeen
		})).Return(nil).Once()

		sched := &captureScheduler{}
		h := newTestHandler(t, mockStorage, sched)

		body, _ := json.Marshal(api.NewTransaction{IdUser: 1, Deposit: 100})
		rr := httptest.NewRecorder()
		h.CreateTransaction(rr, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)

		var returned api.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &returned))
		assert.Equal(t, handlerNow.UnixMilli(), returned.Id)
		assert.Equal(t, models.FormatTimestamp(handlerNow), returned.DateTransaction)
		assert.Nil(t, returned.ValidatedAt)

		require.Len(t, sched.published, 1)
		assert.Equal(t, stream.Added, sched.published[0])
		assert.Empty(t, sched.revaluations)
		mockStorage.AssertExpectations(t)
	})

	t.Run("future-dated deposit also schedules a revaluation", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil).Once()

		sched := &captureScheduler{}
		h := newTestHandler(t, mockStorage, sched)

		future := handlerNow.Add(48 * time.Hour)
		body, _ := json.Marshal(api.NewTransaction{
			IdUser: 1, Deposit: 100, DateTransaction: models.FormatTimestamp(future),
		})
		rr := httptest.NewRecorder()
		h.CreateTransaction(rr, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		require.Len(t, sched.revaluations, 1)
		assert.Equal(t, 48*time.Hour, sched.revaluations[0].delay)
	})

	t.Run("withdrawal beyond the folded balance is rejected", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, int64(1)).Return([]models.Transaction{
			{Id: 5, IdUser: 1, Deposit: 100, DateTransaction: "2025-01-10 09:00:00", ValidatedAt: validatedAt()},
		}, nil).Once()

		h := newTestHandler(t, mockStorage, &captureScheduler{})

		body, _ := json.Marshal(api.NewTransaction{IdUser: 1, Withdrawal: 150})
		rr := httptest.NewRecorder()
		h.CreateTransaction(rr, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "Insufficient funds")
		mockStorage.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("withdrawal within the balance is created", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, int64(1)).Return([]models.Transaction{
			{Id: 5, IdUser: 1, Deposit: 100, DateTransaction: "2025-01-10 09:00:00", ValidatedAt: validatedAt()},
		}, nil).Once()
		mockStorage.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil).Once()

		h := newTestHandler(t, mockStorage, &captureScheduler{})

		body, _ := json.Marshal(api.NewTransaction{IdUser: 1, Withdrawal: 50})
		rr := httptest.NewRecorder()
		h.CreateTransaction(rr, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("deposit and withdrawal together are rejected", func(t *testing.T) {
		h := newTestHandler(t, new(mocks.Storage), &captureScheduler{})

		body, _ := json.Marshal(api.NewTransaction{IdUser: 1, Deposit: 100, Withdrawal: 50})
		rr := httptest.NewRecorder()
		h.CreateTransaction(rr, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid JSON is rejected", func(t *testing.T) {
		h := newTestHandler(t, new(mocks.Storage), &captureScheduler{})

		rr := httptest.NewRecorder()
		h.CreateTransaction(rr, httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader("not-json")))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("id collision maps to conflict", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateTransaction", mock.Anything, mock.Anything).Return(storage.ErrTransactionExists).Once()

		h := newTestHandler(t, mockStorage, &captureScheduler{})

		body, _ := json.Marshal(api.NewTransaction{IdUser: 1, Deposit: 100})
		rr := httptest.NewRecorder()
		h.CreateTransaction(rr, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials return the session identity", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetUserByCredentials", mock.Anything, "remy@example.com", "hunter2").Return(&models.User{
			Id: 1, UserEmail: "remy@example.com", UserName: "remy", Pdp: "https://cdn.example/1.png",
		}, nil).Once()

		h := newTestHandler(t, mockStorage, &captureScheduler{})

		body := `{"email":"remy@example.com","password":"hunter2"}`
		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp api.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.UserId)
		assert.Equal(t, "remy", resp.DisplayName)
	})

	t.Run("unknown credentials map to unauthorized", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetUserByCredentials", mock.Anything, "remy@example.com", "wrong").Return(nil, storage.ErrUserNotFound).Once()

		h := newTestHandler(t, mockStorage, &captureScheduler{})

		body := `{"email":"remy@example.com","password":"wrong"}`
		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing password is rejected before the store is hit", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		h := newTestHandler(t, mockStorage, &captureScheduler{})

		body := `{"email":"remy@example.com"}`
		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "GetUserByCredentials", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetBalanceByUserId(t *testing.T) {
	t.Run("folds validated transactions only", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, int64(1)).Return([]models.Transaction{
			{Id: 1, IdUser: 1, Deposit: 100, DateTransaction: "2025-01-10 09:00:00", ValidatedAt: validatedAt()},
			{Id: 2, IdUser: 1, Withdrawal: 30, DateTransaction: "2025-01-11 09:00:00", ValidatedAt: validatedAt()},
			{Id: 3, IdUser: 1, Deposit: 50, DateTransaction: "2025-01-12 09:00:00"},
		}, nil).Once()

		h := newTestHandler(t, mockStorage, &captureScheduler{})

		r := chi.NewRouter()
		r.Get("/users/{userId}/balance", h.GetBalanceByUserId)

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/1/balance", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var balance api.Balance
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &balance))
		assert.Equal(t, 70.0, balance.Balance)
	})

	t.Run("non-numeric user id is rejected", func(t *testing.T) {
		h := newTestHandler(t, new(mocks.Storage), &captureScheduler{})

		r := chi.NewRouter()
		r.Get("/users/{userId}/balance", h.GetBalanceByUserId)

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/abc/balance", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestToggleFavorite(t *testing.T) {
	mockStorage := new(mocks.Storage)
	mockStorage.On("FindFavorites", mock.Anything, int64(1), int64(42)).Return([]models.Favorite{}, nil).Once()
	mockStorage.On("CreateFavorite", mock.Anything, mock.Anything).Return(nil).Once()

	h := newTestHandler(t, mockStorage, &captureScheduler{})

	body := `{"id_user":1,"id_crypto":42}`
	rr := httptest.NewRecorder()
	h.ToggleFavorite(rr, httptest.NewRequest(http.MethodPost, "/favorites/toggle", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.ToggleFavoriteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Favorite)
	assert.Equal(t, int64(42), resp.IdCrypto)
}

func TestListPrices(t *testing.T) {
	mockStorage := new(mocks.Storage)
	mockStorage.On("ListPricePoints", mock.Anything).Return([]models.PricePoint{
		{IdCrypto: 42, Cours: 64000, DateCours: "2025-01-10 09:00:00"},
	}, nil).Once()
	mockStorage.On("GetCrypto", mock.Anything, int64(42)).Return(&models.Crypto{IdCrypto: 42, Label: "Bitcoin"}, nil).Once()

	h := newTestHandler(t, mockStorage, &captureScheduler{})

	rr := httptest.NewRecorder()
	h.ListPrices(rr, httptest.NewRequest(http.MethodGet, "/prices", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []api.AssetPrice
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Bitcoin", resp[0].Label)
}

// fakeMedia stands in for the Cloudinary client.
type fakeMedia struct {
	uploadedName string
	uploadedBody string
	latestURL    string
	err          error
}

func (f *fakeMedia) Upload(_ context.Context, userID int64, name string, image io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	body, _ := io.ReadAll(image)
	f.uploadedName = name
	f.uploadedBody = string(body)
	return fmt.Sprintf("https://res.cloudinary.test/%d_%s.png", userID, name), nil
}

func (f *fakeMedia) LatestProfileImage(_ context.Context, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.latestURL, nil
}

func TestUploadProfileImage(t *testing.T) {
	uploadRequest := func(t *testing.T, target string) *http.Request {
		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		require.NoError(t, form.WriteField("name", "avatar"))
		part, err := form.CreateFormFile("file", "avatar.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, target, &body)
		req.Header.Set("Content-Type", form.FormDataContentType())
		return req
	}

	newRouter := func(h *ApiHandler) *chi.Mux {
		r := chi.NewRouter()
		r.Post("/users/{userId}/profile-image", h.UploadProfileImage)
		return r
	}

	t.Run("uploads and returns the public url", func(t *testing.T) {
		h := newTestHandler(t, new(mocks.Storage), &captureScheduler{})
		uploads := &fakeMedia{}
		h.Media = uploads

		rr := httptest.NewRecorder()
		newRouter(h).ServeHTTP(rr, uploadRequest(t, "/users/1/profile-image"))

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp api.ProfileImage
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "https://res.cloudinary.test/1_avatar.png", resp.Url)
		assert.Equal(t, "avatar", uploads.uploadedName)
		assert.Equal(t, "png-bytes", uploads.uploadedBody)
	})

	t.Run("missing file part is rejected", func(t *testing.T) {
		h := newTestHandler(t, new(mocks.Storage), &captureScheduler{})
		h.Media = &fakeMedia{}

		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		require.NoError(t, form.WriteField("name", "avatar"))
		require.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, "/users/1/profile-image", &body)
		req.Header.Set("Content-Type", form.FormDataContentType())

		rr := httptest.NewRecorder()
		newRouter(h).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unconfigured media storage maps to 503", func(t *testing.T) {
		h := newTestHandler(t, new(mocks.Storage), &captureScheduler{})

		rr := httptest.NewRecorder()
		newRouter(h).ServeHTTP(rr, uploadRequest(t, "/users/1/profile-image"))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestGetProfileImageByUserId(t *testing.T) {
	newRouter := func(h *ApiHandler) *chi.Mux {
		r := chi.NewRouter()
		r.Get("/users/{userId}/profile-image", h.GetProfileImageByUserId)
		return r
	}

	t.Run("serves the newest upload", func(t *testing.T) {
		h := newTestHandler(t, new(mocks.Storage), &captureScheduler{})
		h.Media = &fakeMedia{latestURL: "https://res.cloudinary.test/1_avatar.png"}

		rr := httptest.NewRecorder()
		newRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/1/profile-image", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp api.ProfileImage
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "https://res.cloudinary.test/1_avatar.png", resp.Url)
	})

	t.Run("no upload maps to 404", func(t *testing.T) {
		h := newTestHandler(t, new(mocks.Storage), &captureScheduler{})
		h.Media = &fakeMedia{err: media.ErrNoImage}

		rr := httptest.NewRecorder()
		newRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/1/profile-image", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListCryptoTransactionsByUserId(t *testing.T) {
	mockStorage := new(mocks.Storage)
	mockStorage.On("ListCryptoTransactionsByUserID", mock.Anything, int64(1)).Return([]models.CryptoTransaction{
		{Id: 1, IdUser: 1, IdCrypto: 42, IsPurchase: true, Quantity: 0.5, DateTransaction: "2025-01-10 09:00:00"},
	}, nil).Once()
	mockStorage.On("GetCrypto", mock.Anything, int64(42)).Return(&models.Crypto{IdCrypto: 42, Label: "Bitcoin"}, nil).Once()

	h := newTestHandler(t, mockStorage, &captureScheduler{})

	r := chi.NewRouter()
	r.Get("/users/{userId}/crypto-transactions", h.ListCryptoTransactionsByUserId)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/1/crypto-transactions", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []api.CryptoTransaction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Bitcoin", resp[0].Label)
}
