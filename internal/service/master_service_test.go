// internal/service/master_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
)

// fakeMasterRepo stubs only what the test touches.
type fakeMasterRepo struct {
	repository.MasterRepository
	savedIngredients []domain.Ingredient
}

func (f *fakeMasterRepo) SaveIngredient(ctx context.Context, ing domain.Ingredient) (int64, error) {
	f.savedIngredients = append(f.savedIngredients, ing)
	return int64(len(f.savedIngredients)), nil
}

func TestSaveIngredient(t *testing.T) {
	repo := &fakeMasterRepo{}
	svc := NewMasterService(repo, nil)

	id, err := svc.SaveIngredient(context.Background(), domain.Ingredient{
		StoreID:        1,
		Name:           "배추",
		BaseUnit:       "kg",
		UnitPrice:      3000,
		OrderUnit:      "box",
		ConversionRate: 10,
		Category:       "vegetable",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, repo.savedIngredients, 1)
}

func TestSaveIngredientRejectsNonPositiveConversionRate(t *testing.T) {
	repo := &fakeMasterRepo{}
	svc := NewMasterService(repo, nil)

	for _, rate := range []float64{0, -1} {
		_, err := svc.SaveIngredient(context.Background(), domain.Ingredient{
			StoreID:        1,
			Name:           "배추",
			UnitPrice:      3000,
			ConversionRate: rate,
			Category:       "vegetable",
		})

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, "rate %v", rate)
		assert.Equal(t, "conversion_rate", ve.Field)
	}
	assert.Empty(t, repo.savedIngredients)
}

func TestSaveIngredientRejectsUnknownCategory(t *testing.T) {
	svc := NewMasterService(&fakeMasterRepo{}, nil)

	_, err := svc.SaveIngredient(context.Background(), domain.Ingredient{
		StoreID:        1,
		Name:           "배추",
		ConversionRate: 1,
		Category:       "dairy",
	})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category", ve.Field)
}
