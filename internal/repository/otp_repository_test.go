package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newOTPDeps(t *testing.T) (*OTPRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewOTPRepo(rdb, time.Minute), mr
}

func TestOTPIssueAndVerify(t *testing.T) {
	repo, _ := newOTPDeps(t)
	ctx := context.Background()

	code, err := repo.Issue(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.NoError(t, repo.Verify(ctx, "a@example.com", code))

	// Consumed on success; a replay fails.
	require.ErrorIs(t, repo.Verify(ctx, "a@example.com", code), ErrOTPMismatch)
}

func TestOTPWrongGuessKeepsCode(t *testing.T) {
	repo, _ := newOTPDeps(t)
	ctx := context.Background()

	code, err := repo.Issue(ctx, "a@example.com")
	require.NoError(t, err)

	require.ErrorIs(t, repo.Verify(ctx, "a@example.com", "000000a"), ErrOTPMismatch)

	// The stored code survives the wrong guess and still verifies.
	require.NoError(t, repo.Verify(ctx, "a@example.com", code))
}

func TestOTPExpires(t *testing.T) {
	repo, mr := newOTPDeps(t)
	ctx := context.Background()

	code, err := repo.Issue(ctx, "a@example.com")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	require.ErrorIs(t, repo.Verify(ctx, "a@example.com", code), ErrOTPMismatch)
}

func TestOTPReissueReplacesCode(t *testing.T) {
	repo, _ := newOTPDeps(t)
	ctx := context.Background()

	first, err := repo.Issue(ctx, "a@example.com")
	require.NoError(t, err)
	second, err := repo.Issue(ctx, "a@example.com")
	require.NoError(t, err)

	if first != second {
		require.ErrorIs(t, repo.Verify(ctx, "a@example.com", first), ErrOTPMismatch)
	}
	require.NoError(t, repo.Verify(ctx, "a@example.com", second))
}

func TestOTPNilClient(t *testing.T) {
	repo := NewOTPRepo(nil, time.Minute)
	ctx := context.Background()

	_, err := repo.Issue(ctx, "a@example.com")
	require.ErrorIs(t, err, ErrOTPUnavailable)
	require.ErrorIs(t, repo.Verify(ctx, "a@example.com", "123456"), ErrOTPUnavailable)
}
