// internal/service/sales_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

type fakeSalesRepo struct {
	daily   []domain.DailySales
	closes  []domain.DailyClose
	items   []domain.DailySalesItem
	best    []domain.BestDailySales
	monthly int64
	fail    error
}

func (f *fakeSalesRepo) SaveDailySales(ctx context.Context, row domain.DailySales) error {
	if f.fail != nil {
		return f.fail
	}
	f.daily = append(f.daily, row)
	return nil
}

func (f *fakeSalesRepo) SaveDailyClose(ctx context.Context, row domain.DailyClose) error {
	if f.fail != nil {
		return f.fail
	}
	f.closes = append(f.closes, row)
	return nil
}

func (f *fakeSalesRepo) SaveDailySalesItems(ctx context.Context, storeID int64, date time.Time, items []domain.DailySalesItem) error {
	if f.fail != nil {
		return f.fail
	}
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeSalesRepo) BestAvailableDailySales(ctx context.Context, storeID int64, start, end *time.Time) ([]domain.BestDailySales, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.best, nil
}

func (f *fakeSalesRepo) MonthlySalesTotal(ctx context.Context, storeID int64, year, month int) (int64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	return f.monthly, nil
}

func (f *fakeSalesRepo) ListDailySalesItems(ctx context.Context, storeID int64, start, end time.Time) ([]domain.DailySalesItem, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return nil, nil
}

func TestSaveDailySales(t *testing.T) {
	repo := &fakeSalesRepo{}
	svc := NewSalesService(repo, nil)

	row := domain.DailySales{
		StoreID: 1,
		Date:    timeutil.Date(2026, time.March, 2),
		Card:    300000,
		Cash:    120000,
		Total:   420000,
	}
	require.NoError(t, svc.SaveDailySales(context.Background(), row))
	require.Len(t, repo.daily, 1)
	assert.Equal(t, int64(420000), repo.daily[0].Total)
}

func TestSaveDailySalesSplitMismatch(t *testing.T) {
	repo := &fakeSalesRepo{}
	svc := NewSalesService(repo, nil)

	row := domain.DailySales{
		StoreID: 1,
		Date:    timeutil.Date(2026, time.March, 2),
		Card:    300000,
		Cash:    120000,
		Total:   400000,
	}
	err := svc.SaveDailySales(context.Background(), row)

	var iv *domain.InvariantViolation
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "daily_sales", iv.Entity)
	assert.Empty(t, repo.daily)
}

func TestSaveDailySalesNegativeAmount(t *testing.T) {
	svc := NewSalesService(&fakeSalesRepo{}, nil)

	row := domain.DailySales{
		StoreID: 1,
		Date:    timeutil.Date(2026, time.March, 2),
		Card:    -100,
		Cash:    100,
		Total:   0,
	}
	err := svc.SaveDailySales(context.Background(), row)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestSaveDailySalesMissingDate(t *testing.T) {
	svc := NewSalesService(&fakeSalesRepo{}, nil)

	err := svc.SaveDailySales(context.Background(), domain.DailySales{StoreID: 1})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)
}

func TestSaveDailyCloseNegativeVisitors(t *testing.T) {
	svc := NewSalesService(&fakeSalesRepo{}, nil)

	row := domain.DailyClose{
		StoreID:  1,
		Date:     timeutil.Date(2026, time.March, 2),
		Total:    0,
		Visitors: -1,
	}
	err := svc.SaveDailyClose(context.Background(), row)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "visitors", ve.Field)
}

func TestSaveDailySalesItemsNegativeQty(t *testing.T) {
	repo := &fakeSalesRepo{}
	svc := NewSalesService(repo, nil)

	items := []domain.DailySalesItem{{StoreID: 1, MenuID: 7, Qty: -2}}
	err := svc.SaveDailySalesItems(context.Background(), 1, timeutil.Date(2026, time.March, 2), items)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, repo.items)
}

func TestBestDailySalesRepoFailure(t *testing.T) {
	repo := &fakeSalesRepo{fail: errors.New("connection refused")}
	svc := NewSalesService(repo, nil)

	rows, err := svc.BestDailySales(context.Background(), 1, nil, nil)

	require.NoError(t, err)
	assert.Empty(t, rows)
}
