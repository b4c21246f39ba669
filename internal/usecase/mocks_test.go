package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/playroom/internal/entity"
)

type mockMatchRepo struct {
	mock.Mock
}

func newMockMatchRepo(t *testing.T) *mockMatchRepo {
	m := &mockMatchRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockMatchRepo) CreateOrUpdate(ctx context.Context, match *entity.Match) error {
	return m.Called(ctx, match).Error(0)
}

func (m *mockMatchRepo) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	args := m.Called(ctx, id)
	match, _ := args.Get(0).(*entity.Match)

	return match, args.Error(1)
}

func (m *mockMatchRepo) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockResultRecorder struct {
	mock.Mock
}

func newMockResultRecorder(t *testing.T) *mockResultRecorder {
	m := &mockResultRecorder{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockResultRecorder) RecordMatch(ctx context.Context, match entity.Match) error {
	return m.Called(ctx, match).Error(0)
}

type mockLeaderboardRepo struct {
	mock.Mock
}

func newMockLeaderboardRepo(t *testing.T) *mockLeaderboardRepo {
	m := &mockLeaderboardRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockLeaderboardRepo) Load(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]entity.LeaderboardEntry)

	return entries, args.Error(1)
}

func (m *mockLeaderboardRepo) Save(ctx context.Context, entries []entity.LeaderboardEntry) error {
	return m.Called(ctx, entries).Error(0)
}

type mockProductAPI struct {
	mock.Mock
}

func newMockProductAPI(t *testing.T) *mockProductAPI {
	m := &mockProductAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockProductAPI) List(ctx context.Context, query entity.ProductQuery) (*entity.ProductPage, error) {
	args := m.Called(ctx, query)
	page, _ := args.Get(0).(*entity.ProductPage)

	return page, args.Error(1)
}

func (m *mockProductAPI) Get(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *mockProductAPI) Create(ctx context.Context, form entity.ProductForm) (*entity.Product, error) {
	args := m.Called(ctx, form)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *mockProductAPI) Update(ctx context.Context, id string, form entity.ProductForm) (*entity.Product, error) {
	args := m.Called(ctx, id, form)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *mockProductAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// nopMetrics satisfies every metrics port used by the managers.
type nopMetrics struct{}

func (nopMetrics) RecordMove() {}
func (nopMetrics) RecordRound(string) {}
func (nopMetrics) RecordMatchFinished(string) {}
func (nopMetrics) RecordRejectedAction(string) {}
func (nopMetrics) SetLeaderboardSize(int) {}
func (nopMetrics) RecordProductRequest(string, string, time.Duration) {}
