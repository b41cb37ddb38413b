package policy

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AccessStatus is whether intake may act on a veteran's records.
type AccessStatus string

const (
	AccessUnknown AccessStatus = "unknown"
	AccessAllowed AccessStatus = "allowed"
	AccessDenied  AccessStatus = "denied"
)

// Service answers veteran access checks from Redis.
type Service struct {
	rdb *redis.Client
}

// NewService creates a policy Service on an existing Redis client.
func NewService(rdb *redis.Client) *Service {
	return &Service{rdb: rdb}
}

// Key is the Redis key holding the access status of a veteran.
func Key(fileNumber string) string {
	return fmt.Sprintf("policy:veteran:%s", fileNumber)
}

// CheckVeteran returns the access status for fileNumber. A missing key is
// AccessUnknown, which callers treat as allowed.
func (s *Service) CheckVeteran(ctx context.Context, fileNumber string) (AccessStatus, error) {
	// redis.Nil indicates no policy has been recorded.
	val, err := s.rdb.Get(ctx, Key(fileNumber)).Result()
	if err == redis.Nil {
		return AccessUnknown, nil
	}
	if err != nil {
		return AccessUnknown, err
	}
	return ParseStatus(val), nil
}

// SetVeteran records the access status for fileNumber with no expiry.
func (s *Service) SetVeteran(ctx context.Context, fileNumber string, status AccessStatus) error {
	return s.rdb.Set(ctx, Key(fileNumber), string(status), 0).Err()
}

// ParseStatus maps a stored value to an AccessStatus.
func ParseStatus(val string) AccessStatus {
	switch val {
	case "allowed":
		return AccessAllowed
	case "denied":
		return AccessDenied
	default:
		return AccessUnknown
	}
}
