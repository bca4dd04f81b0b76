package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"assetverse/internal/auth"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/model"
)

func newAssetFixture() (*mockRepos, AssetService) {
	repos := newMockRepos()
	tx := &fakeTransactor{repos: repos.repositories()}
	return repos, NewAssetService(repos.assets, repos.users, tx)
}

func TestAssetService_Create(t *testing.T) {
	tests := []struct {
		name          string
		caller        auth.Principal
		quantity      int
		setupMock     func(*mockRepos)
		expectedError error
	}{
		{
			name:     "available equals quantity",
			caller:   hrCaller,
			quantity: 3,
			setupMock: func(r *mockRepos) {
				r.users.On("FindByEmail", mock.Anything, "hr@acme.io").Return(hrUser(), nil)
				r.assets.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Asset) bool {
					return a.ProductQuantity == 3 && a.AvailableQuantity == 3 && a.HREmail == "hr@acme.io" && a.CompanyName == "Acme"
				})).Return(nil)
			},
		},
		{
			name:          "employee forbidden",
			caller:        empCaller,
			quantity:      3,
			setupMock:     func(r *mockRepos) {},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:     "token role hr but stored user is not",
			caller:   hrCaller,
			quantity: 3,
			setupMock: func(r *mockRepos) {
				r.users.On("FindByEmail", mock.Anything, "hr@acme.io").Return(newEmployee(), nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:          "negative quantity",
			caller:        hrCaller,
			quantity:      -1,
			setupMock:     func(r *mockRepos) {},
			expectedError: apperrors.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, service := newAssetFixture()
			tt.setupMock(repos)

			asset, err := service.Create(context.Background(), tt.caller, CreateAssetInput{
				ProductName: " Laptop ", ProductType: "Returnable", ProductQuantity: tt.quantity,
			})
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, asset)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Laptop", asset.ProductName)
			}
			repos.assertExpectations(t)
		})
	}
}

func TestAssetService_List(t *testing.T) {
	repos, service := newAssetFixture()
	repos.assets.On("ListByHR", mock.Anything, "hr@acme.io").Return([]model.Asset{{}}, nil)
	repos.assets.On("ListAll", mock.Anything).Return([]model.Asset{{}, {}, {}}, nil)

	own, err := service.List(context.Background(), hrCaller)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, err := service.List(context.Background(), empCaller)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAssetService_SearchPublic(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, 10, 0},
		{"clamped limit", 500, 20, 100, 20},
		{"negative offset", 5, -3, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, service := newAssetFixture()
			repos.assets.On("Search", mock.Anything, "lap", tt.wantLimit, tt.wantOffset).
				Return([]model.Asset{{ProductName: "Laptop"}}, int64(42), nil)

			res, err := service.SearchPublic(context.Background(), " lap ", tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, int64(42), res.Total)
			assert.Len(t, res.Assets, 1)
			repos.assertExpectations(t)
		})
	}
}

func TestAssetService_Update(t *testing.T) {
	qty := func(n int) *int { return &n }

	tests := []struct {
		name          string
		caller        auth.Principal
		quantity      *int
		wantTotal     int
		wantAvailable int
		expectedError error
	}{
		{"grow keeps assigned units", hrCaller, qty(5), 5, 3, nil},
		{"shrink within free stock", hrCaller, qty(2), 2, 0, nil},
		{"shrink below assigned", hrCaller, qty(1), 0, 0, apperrors.ErrInvalidQuantity},
		{"name only", hrCaller, nil, 3, 1, nil},
		{"foreign hr", auth.Principal{Email: "other@corp.io", Role: model.RoleHR}, qty(5), 0, 0, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, service := newAssetFixture()
			asset := testAsset(1) // 3 total, 2 handed out
			repos.assets.On("FindByIDForUpdate", mock.Anything, asset.ID).Return(asset, nil)
			if tt.expectedError == nil {
				repos.assets.On("Update", mock.Anything, asset).Return(nil)
			}

			name := "Laptop Pro"
			updated, err := service.Update(context.Background(), tt.caller, asset.ID, UpdateAssetInput{
				ProductName:     &name,
				ProductQuantity: tt.quantity,
			})
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				repos.assets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Laptop Pro", updated.ProductName)
			assert.Equal(t, tt.wantTotal, updated.ProductQuantity)
			assert.Equal(t, tt.wantAvailable, updated.AvailableQuantity)
			repos.assertExpectations(t)
		})
	}
}

func TestAssetService_Delete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		repos, service := newAssetFixture()
		asset := testAsset(3)
		repos.assets.On("FindByID", mock.Anything, asset.ID).Return(asset, nil)
		repos.assets.On("Delete", mock.Anything, asset.ID).Return(nil)

		assert.NoError(t, service.Delete(context.Background(), hrCaller, asset.ID))
		repos.assertExpectations(t)
	})

	t.Run("missing asset", func(t *testing.T) {
		repos, service := newAssetFixture()
		id := uuid.New()
		repos.assets.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, service.Delete(context.Background(), hrCaller, id), apperrors.ErrAssetNotFound)
	})
}

func TestAssetService_Export(t *testing.T) {
	repos, service := newAssetFixture()
	repos.assets.On("ListByHR", mock.Anything, "hr@acme.io").Return([]model.Asset{*testAsset(2)}, nil)

	buf, err := service.Export(context.Background(), hrCaller)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())

	_, err = service.Export(context.Background(), empCaller)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
