package policy

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
)

// cachedStore caches one policy per company in memory. Reads go through
// singleflight so a cold cache under concurrent load hits the database
// once. A company without a configured policy resolves to the default;
// the first admin update persists a row.
type cachedStore struct {
	policies policy.PolicyRepository
	holidays policy.HolidayRepository

	mu    sync.RWMutex
	cache map[string]policy.Policy
	group singleflight.Group
}

func NewStore(policies policy.PolicyRepository, holidays policy.HolidayRepository) policy.Store {
	return &cachedStore{
		policies: policies,
		holidays: holidays,
		cache:    make(map[string]policy.Policy),
	}
}

// GetPolicy implements policy.Store.
func (s *cachedStore) GetPolicy(ctx context.Context, companyID string) (policy.Policy, error) {
	s.mu.RLock()
	p, ok := s.cache[companyID]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := s.group.Do(companyID, func() (interface{}, error) {
		p, err := s.policies.GetByCompanyID(ctx, companyID)
		if err != nil {
			if errors.Is(err, policy.ErrPolicyNotFound) {
				p = policy.Default(companyID)
			} else {
				return policy.Policy{}, err
			}
		}

		s.mu.Lock()
		s.cache[companyID] = p
		s.mu.Unlock()

		return p, nil
	})
	if err != nil {
		return policy.Policy{}, err
	}

	return v.(policy.Policy), nil
}

// IsHoliday implements policy.Store.
func (s *cachedStore) IsHoliday(ctx context.Context, companyID string, date time.Time) (bool, error) {
	return s.holidays.Exists(ctx, companyID, date)
}

// Invalidate implements policy.Store.
func (s *cachedStore) Invalidate(companyID string) {
	s.mu.Lock()
	delete(s.cache, companyID)
	s.mu.Unlock()
}
