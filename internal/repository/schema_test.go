package repository

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// The repositories issue raw SQL against the tables schema.sql creates, so
// the two must agree on column names.  These tests pin the columns the
// queries depend on; a rename in either place fails here instead of at
// runtime with error 1054.

func loadSchema(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("../../schema.sql")
	require.NoError(t, err)
	return string(b)
}

// tableDDL extracts the CREATE TABLE block for one table.
func tableDDL(t *testing.T, schema, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\) ENGINE`)
	m := re.FindStringSubmatch(schema)
	require.NotNil(t, m, "schema.sql must define table %s", table)
	return m[1]
}

func TestSchemaRefreshTokenColumns(t *testing.T) {
	ddl := tableDDL(t, loadSchema(t), "refresh_tokens")

	for _, col := range []string{"user_id", "token_hash", "expires_at", "revoked_at"} {
		require.Contains(t, ddl, col, "refresh_tokens queries select %s", col)
	}
	// Revocation is a nullable timestamp; the queries filter on
	// revoked_at IS NULL and scan it into sql.NullTime.
	require.Regexp(t, `revoked_at\s+TIMESTAMP\s+NULL`, ddl)
	require.NotRegexp(t, `\brevoked\s+TINYINT`, ddl)
}

func TestSchemaBookingColumns(t *testing.T) {
	ddl := tableDDL(t, loadSchema(t), "bookings")

	for _, col := range []string{
		"user_id", "court_id", "venue_id", "booking_date", "start_time",
		"end_time", "total_amount_cents", "status", "payment_status",
		"notes", "cancel_reason",
	} {
		require.Contains(t, ddl, col)
	}
	// The exact-tuple unique key only covers live bookings: the generated
	// column is NULL for cancelled rows and NULLs never collide.
	require.Contains(t, ddl, "uq_booking_slot (court_id, booking_date, start_time, end_time, active)")
	require.Regexp(t, `active\s+TINYINT\(1\) AS \(IF\(status = 'cancelled', NULL, 1\)\) STORED`, ddl)
}

func TestSchemaTimeSlotColumns(t *testing.T) {
	schema := loadSchema(t)
	ddl := tableDDL(t, schema, "time_slots")

	for _, col := range []string{"court_id", "slot_date", "start_time", "end_time", "is_blocked", "block_reason", "price_override_cents"} {
		require.Contains(t, ddl, col)
	}
	require.Contains(t, ddl, "uq_slot_tuple (court_id, slot_date, start_time, end_time)")

	// Every column list constant used by the repositories must not name a
	// column absent from the DDL.
	require.True(t, strings.Contains(tableDDL(t, schema, "users"), "is_verified"))
	require.True(t, strings.Contains(tableDDL(t, schema, "courts"), "price_per_hour_cents"))
}
