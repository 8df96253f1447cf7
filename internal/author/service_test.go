package author

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	t.Run("nil becomes empty", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, nil)

		authors, err := service.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, authors)
		assert.Empty(t, authors)
	})

	t.Run("error wrapped", func(t *testing.T) {
		dbErr := errors.New("db down")
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, dbErr)

		_, err := service.List(context.Background())
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	t.Run("assigns id", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *Author) error {
			assert.Equal(t, "Tolkien", a.Name)
			a.ID = 1
			return nil
		})

		a, err := service.Create(context.Background(), "  Tolkien ")
		require.NoError(t, err)
		assert.Equal(t, int64(1), a.ID)
		assert.Equal(t, "Tolkien", a.Name)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := service.Create(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("renames", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(Author{ID: 1, Name: "Old"}, nil)
		mockRepo.EXPECT().Update(gomock.Any(), &Author{ID: 1, Name: "New"}).Return(nil)

		a, err := service.Update(ctx, 1, "New")
		require.NoError(t, err)
		assert.Equal(t, "New", a.Name)
	})

	t.Run("missing author checked before name", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(Author{}, ErrNotFound)

		_, err := service.Update(ctx, 9, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank name", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(Author{ID: 1, Name: "Old"}, nil)

		_, err := service.Update(ctx, 1, " ")
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("deletes", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(Author{ID: 1}, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		assert.NoError(t, service.Delete(ctx, 1))
	})

	t.Run("second delete is not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(Author{}, ErrNotFound)

		assert.ErrorIs(t, service.Delete(ctx, 1), ErrNotFound)
	})
}
