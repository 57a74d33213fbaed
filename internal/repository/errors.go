// Package repository implements the raw-SQL data access layer.  This file
// defines sentinel errors shared across repositories so handlers can map
// failure scenarios to HTTP statuses with errors.Is.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate it to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrSlotTaken is returned when a booking insert or reschedule collides
// with an existing non-cancelled booking or a blocked slot on the same
// court, date and interval.  Handlers translate it to HTTP 409 with the
// message "this time slot is already booked".
var ErrSlotTaken = errors.New("this time slot is already booked")

// ErrPastBooking is returned when a cancellation or reschedule targets a
// booking whose start instant has already passed.  HTTP 409.
var ErrPastBooking = errors.New("cannot cancel past bookings")

// ErrEmailExists is returned by user creation when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// Not-found sentinels per entity.  Handlers translate these to HTTP 404.
var (
	ErrVenueNotFound   = errors.New("venue not found")
	ErrCourtNotFound   = errors.New("court not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
)

// MySQL server error numbers the booking path translates.
const (
	mysqlDuplicateEntry = 1062 // unique key violation
	mysqlDeadlock       = 1213 // lock wait deadlock, transaction rolled back
)

// isDuplicateEntry reports whether err is a MySQL duplicate-key error.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// isDeadlock reports whether err is a MySQL deadlock rollback.  Concurrent
// overlapping inserts can deadlock on the gap locks taken by the overlap
// check; the loser's transaction is rolled back by the server and the
// attempt is reported as a slot conflict.
func isDeadlock(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDeadlock
}
