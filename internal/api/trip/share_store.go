package trip

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

const (
	shareCodeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shareCodeLength      = 6
	shareAttemptsPerSize = 10
	shareMaxExtraLength  = 2
)

var errShareCodeExhausted = errors.New("share store: could not allocate a unique code")

// ShareStore keeps shared trips under short random codes. Expired entries are
// purged on Create and on a missed Get; there is no background sweeper.
type ShareStore struct {
	items   *cache.Cache
	newCode func(length int) (string, error)
	now     func() time.Time
}

func NewShareStore(ttl time.Duration) *ShareStore {
	return &ShareStore{
		items:   cache.New(ttl, cache.NoExpiration),
		newCode: randomCode,
		now:     time.Now,
	}
}

// Create stores trip and returns its code. After ten collisions with live
// codes the code grows by one character.
func (s *ShareStore) Create(trip types.Trip) (string, error) {
	s.items.DeleteExpired()

	for length := shareCodeLength; length <= shareCodeLength+shareMaxExtraLength; length++ {
		for attempt := 0; attempt < shareAttemptsPerSize; attempt++ {
			code, err := s.newCode(length)
			if err != nil {
				return "", err
			}
			shared := &types.SharedTrip{Code: code, Trip: trip, CreatedAt: s.now()}
			if err := s.items.Add(code, shared, cache.DefaultExpiration); err == nil {
				return code, nil
			}
		}
	}
	return "", errShareCodeExhausted
}

// Get looks code up case-insensitively.
func (s *ShareStore) Get(code string) (*types.SharedTrip, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	v, ok := s.items.Get(code)
	if !ok {
		s.items.Delete(code)
		return nil, false
	}
	return v.(*types.SharedTrip), true
}

func randomCode(length int) (string, error) {
	base := big.NewInt(int64(len(shareCodeAlphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		b.WriteByte(shareCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
