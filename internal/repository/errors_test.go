package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestDuplicateEntryDetection(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	require.True(t, isDuplicateEntry(dup))
	require.True(t, isDuplicateEntry(fmt.Errorf("insert: %w", dup)))

	require.False(t, isDuplicateEntry(errors.New("duplicate entry")))
	require.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1054}))
	require.False(t, isDuplicateEntry(nil))
}

func TestDeadlockDetection(t *testing.T) {
	dl := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	require.True(t, isDeadlock(dl))
	require.True(t, isDeadlock(fmt.Errorf("insert: %w", dl)))

	require.False(t, isDeadlock(&mysql.MySQLError{Number: 1062}))
	require.False(t, isDeadlock(errors.New("deadlock")))
	require.False(t, isDeadlock(nil))
}
