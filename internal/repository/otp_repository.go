package repository

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPRepo stores registration one-time codes in Redis with a server-side
// TTL.  Keeping the codes out of process memory means verification survives
// restarts and works across instances; Redis expires entries on its own, so
// no cleanup timer is needed.
//
// A nil client is tolerated: Issue and Verify return ErrOTPUnavailable and
// the auth handler skips the verification step.
type OTPRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// ErrOTPUnavailable is returned when no Redis backend is configured.
var ErrOTPUnavailable = errors.New("otp store unavailable")

// ErrOTPMismatch is returned when the submitted code is wrong or expired.
var ErrOTPMismatch = errors.New("invalid or expired otp")

// NewOTPRepo returns an OTPRepo writing under the "otp:" key prefix.
func NewOTPRepo(rdb *redis.Client, ttl time.Duration) *OTPRepo {
	return &OTPRepo{rdb: rdb, ttl: ttl}
}

// Issue generates a 6-digit code for the email and stores it with the
// configured TTL, replacing any previous code.
func (r *OTPRepo) Issue(ctx context.Context, email string) (string, error) {
	if r.rdb == nil {
		return "", ErrOTPUnavailable
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	if err := r.rdb.Set(ctx, r.key(email), code, r.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the submitted code against the stored one and consumes it
// on match, so a correct code can be used only once.  A wrong guess leaves
// the stored code in place until it expires.  A missing, expired or
// mismatching code yields ErrOTPMismatch.
func (r *OTPRepo) Verify(ctx context.Context, email, code string) error {
	if r.rdb == nil {
		return ErrOTPUnavailable
	}
	stored, err := r.rdb.Get(ctx, r.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPMismatch
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrOTPMismatch
	}
	return r.rdb.Del(ctx, r.key(email)).Err()
}

func (r *OTPRepo) key(email string) string { return "otp:" + email }
