package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestToggle(t *testing.T) {
	t.Run("no existing record inserts and reports on", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("FindFavorites", mock.Anything, int64(1), int64(42)).Return([]models.Favorite{}, nil).Once()
		mockStorage.On("CreateFavorite", mock.Anything, mock.MatchedBy(func(fav *models.Favorite) bool {
			return fav.IdUser == 1 && fav.IdCrypto == 42 && fav.Id != ""
		})).Return(nil).Once()

		s := NewService(mockStorage)
		on, err := s.Toggle(context.Background(), 1, 42)

		assert.NoError(t, err)
		assert.True(t, on)
		mockStorage.AssertExpectations(t)
	})

	t.Run("existing record deletes and reports off", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("FindFavorites", mock.Anything, int64(1), int64(42)).Return([]models.Favorite{
			{Id: "fav-1", IdUser: 1, IdCrypto: 42},
		}, nil).Once()
		mockStorage.On("DeleteFavorite", mock.Anything, "fav-1").Return(nil).Once()

		s := NewService(mockStorage)
		on, err := s.Toggle(context.Background(), 1, 42)

		assert.NoError(t, err)
		assert.False(t, on)
		mockStorage.AssertExpectations(t)
	})

	t.Run("duplicate records from an earlier race are all deleted", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("FindFavorites", mock.Anything, int64(1), int64(42)).Return([]models.Favorite{
			{Id: "fav-1", IdUser: 1, IdCrypto: 42},
			{Id: "fav-2", IdUser: 1, IdCrypto: 42},
		}, nil).Once()
		mockStorage.On("DeleteFavorite", mock.Anything, "fav-1").Return(nil).Once()
		mockStorage.On("DeleteFavorite", mock.Anything, "fav-2").Return(nil).Once()

		s := NewService(mockStorage)
		on, err := s.Toggle(context.Background(), 1, 42)

		assert.NoError(t, err)
		assert.False(t, on)
		mockStorage.AssertExpectations(t)
	})

	t.Run("double toggle returns to the original state", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("FindFavorites", mock.Anything, int64(1), int64(42)).Return([]models.Favorite{}, nil).Once()
		mockStorage.On("CreateFavorite", mock.Anything, mock.Anything).Return(nil).Once()
		mockStorage.On("FindFavorites", mock.Anything, int64(1), int64(42)).Return([]models.Favorite{
			{Id: "fav-1", IdUser: 1, IdCrypto: 42},
		}, nil).Once()
		mockStorage.On("DeleteFavorite", mock.Anything, "fav-1").Return(nil).Once()

		s := NewService(mockStorage)

		on, err := s.Toggle(context.Background(), 1, 42)
		assert.NoError(t, err)
		assert.True(t, on)

		on, err = s.Toggle(context.Background(), 1, 42)
		assert.NoError(t, err)
		assert.False(t, on)

		mockStorage.AssertExpectations(t)
	})

	t.Run("lookup failure is surfaced", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("FindFavorites", mock.Anything, int64(1), int64(42)).Return(nil, errors.New("unavailable")).Once()

		s := NewService(mockStorage)
		_, err := s.Toggle(context.Background(), 1, 42)
		assert.Error(t, err)
	})
}

func TestList(t *testing.T) {
	mockStorage := new(mocks.Storage)
	mockStorage.On("ListFavoritesByUserID", mock.Anything, int64(1)).Return([]models.Favorite{
		{Id: "fav-1", IdUser: 1, IdCrypto: 42},
		{Id: "fav-2", IdUser: 1, IdCrypto: 7},
	}, nil).Once()

	s := NewService(mockStorage)
	ids, err := s.List(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, []int64{42, 7}, ids)
}
