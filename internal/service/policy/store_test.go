package policy

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
)

type fakePolicyRepository struct {
	policies map[string]policy.Policy
	getCalls atomic.Int64
}

func (f *fakePolicyRepository) GetByCompanyID(ctx context.Context, companyID string) (policy.Policy, error) {
	f.getCalls.Add(1)
	p, ok := f.policies[companyID]
	if !ok {
		return policy.Policy{}, policy.ErrPolicyNotFound
	}
	return p, nil
}

func (f *fakePolicyRepository) Upsert(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	if f.policies == nil {
		f.policies = make(map[string]policy.Policy)
	}
	f.policies[p.CompanyID] = p
	return p, nil
}

type fakeHolidayRepository struct {
	dates map[string]bool // companyID + "|" + yyyy-mm-dd
}

func (f *fakeHolidayRepository) Create(ctx context.Context, h policy.Holiday) (policy.Holiday, error) {
	return h, nil
}

func (f *fakeHolidayRepository) Delete(ctx context.Context, id string, companyID string) error {
	return nil
}

func (f *fakeHolidayRepository) ListByCompanyID(ctx context.Context, companyID string) ([]policy.Holiday, error) {
	return nil, nil
}

func (f *fakeHolidayRepository) Exists(ctx context.Context, companyID string, date time.Time) (bool, error) {
	return f.dates[companyID+"|"+date.UTC().Format("2006-01-02")], nil
}

func TestStoreGetPolicyCachesRow(t *testing.T) {
	repo := &fakePolicyRepository{policies: map[string]policy.Policy{
		"co-1": {CompanyID: "co-1", RequiredDailyMinutes: 450, Timezone: "UTC"},
	}}
	store := NewStore(repo, &fakeHolidayRepository{})

	first, err := store.GetPolicy(context.Background(), "co-1")
	require.NoError(t, err)
	assert.Equal(t, 450, first.RequiredDailyMinutes)

	_, err = store.GetPolicy(context.Background(), "co-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), repo.getCalls.Load(), "second read must come from cache")
}

func TestStoreGetPolicyFallsBackToDefault(t *testing.T) {
	store := NewStore(&fakePolicyRepository{}, &fakeHolidayRepository{})

	p, err := store.GetPolicy(context.Background(), "co-unknown")
	require.NoError(t, err)

	want := policy.Default("co-unknown")
	assert.Equal(t, want, p)
}

func TestStoreInvalidateDropsCache(t *testing.T) {
	repo := &fakePolicyRepository{policies: map[string]policy.Policy{
		"co-1": {CompanyID: "co-1", RequiredDailyMinutes: 450, Timezone: "UTC"},
	}}
	store := NewStore(repo, &fakeHolidayRepository{})

	_, err := store.GetPolicy(context.Background(), "co-1")
	require.NoError(t, err)

	repo.policies["co-1"] = policy.Policy{CompanyID: "co-1", RequiredDailyMinutes: 480, Timezone: "UTC"}
	store.Invalidate("co-1")

	p, err := store.GetPolicy(context.Background(), "co-1")
	require.NoError(t, err)
	assert.Equal(t, 480, p.RequiredDailyMinutes)
	assert.Equal(t, int64(2), repo.getCalls.Load())
}

func TestStoreConcurrentColdReads(t *testing.T) {
	repo := &fakePolicyRepository{policies: map[string]policy.Policy{
		"co-1": {CompanyID: "co-1", RequiredDailyMinutes: 450, Timezone: "UTC"},
	}}
	store := NewStore(repo, &fakeHolidayRepository{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := store.GetPolicy(context.Background(), "co-1")
			assert.NoError(t, err)
			assert.Equal(t, 450, p.RequiredDailyMinutes)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, repo.getCalls.Load(), int64(2),
		"concurrent cold reads must collapse onto at most a couple of repository hits")
}

func TestStoreIsHoliday(t *testing.T) {
	holidays := &fakeHolidayRepository{dates: map[string]bool{
		"co-1|2026-12-25": true,
	}}
	store := NewStore(&fakePolicyRepository{}, holidays)

	hit, err := store.IsHoliday(context.Background(), "co-1", time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, hit)

	miss, err := store.IsHoliday(context.Background(), "co-1", time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, miss)
}
