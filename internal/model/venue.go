package model

import "time"

// Venue approval statuses.  Only approved venues (and their courts) are
// visible on the public browse surface.
const (
	VenuePending  = "pending"
	VenueApproved = "approved"
	VenueRejected = "rejected"
)

// Venue is a sports facility owned by an OWNER account.  A venue contains
// one or more bookable courts.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – owning user.
//  Name        – venue display name.
//  Description – free-form description (nullable).
//  Address     – street address.
//  City        – city, used for public filtering.
//  Status      – admin approval state (pending, approved, rejected).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Venue struct {
	ID          uint64    // venues.id
	OwnerID     uint64    // venues.owner_id
	Name        string    // venues.name
	Description *string   // venues.description (nullable)
	Address     string    // venues.address
	City        string    // venues.city
	Status      string    // venues.status
	CreatedAt   time.Time // venues.created_at
	UpdatedAt   time.Time // venues.updated_at
}
