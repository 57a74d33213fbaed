package schedule

// Default operating window applied when a court has no explicit open/close
// times configured.
const (
	DefaultOpenMinutes  = 6 * 60  // 06:00
	DefaultCloseMinutes = 22 * 60 // 22:00
)

// SlotMinutes is the generation granularity.  Slots are whole hours; other
// durations are not supported.
const SlotMinutes = 60

// Interval is a half-open [Start,End) range expressed in minutes since
// midnight.  End must be greater than Start.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect:
// a.Start < b.End && a.End > b.Start.  Back-to-back intervals
// (a.End == b.Start) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// Slot is a bookable interval annotated with its price.
type Slot struct {
	Interval
	PriceCents uint32
}

// HourlySlots enumerates the whole-hour candidate intervals inside the
// operating window [open,close).  A window shorter than one slot yields no
// candidates.  open and close are minutes since midnight.
func HourlySlots(open, close int) []Interval {
	if open < 0 || close <= open {
		return nil
	}
	out := make([]Interval, 0, (close-open)/SlotMinutes)
	for s := open; s+SlotMinutes <= close; s += SlotMinutes {
		out = append(out, Interval{Start: s, End: s + SlotMinutes})
	}
	return out
}

// Available returns the hourly candidates inside [open,close) that do not
// overlap any busy interval.  Busy intervals are typically the union of
// non-cancelled bookings and blocked maintenance slots for the date.  With
// no busy intervals the full window is returned.
func Available(open, close int, busy []Interval) []Interval {
	candidates := HourlySlots(open, close)
	if len(busy) == 0 {
		return candidates
	}
	out := make([]Interval, 0, len(candidates))
	for _, c := range candidates {
		free := true
		for _, b := range busy {
			if c.Overlaps(b) {
				free = false
				break
			}
		}
		if free {
			out = append(out, c)
		}
	}
	return out
}

// Annotate attaches prices to available intervals.  overrides maps an exact
// interval to a per-slot price (from a time_slots row with a price
// override); every other slot gets the court's price per hour.
func Annotate(avail []Interval, priceCents uint32, overrides map[Interval]uint32) []Slot {
	out := make([]Slot, 0, len(avail))
	for _, iv := range avail {
		price := priceCents
		if p, ok := overrides[iv]; ok {
			price = p
		}
		out = append(out, Slot{Interval: iv, PriceCents: price})
	}
	return out
}
