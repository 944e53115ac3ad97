package catapult

import "time"

// DefaultDeadline is how far in the future transactions expire by default.
const DefaultDeadline = 2 * time.Hour

// Deadline is a timestamp in milliseconds since the network epoch.
type Deadline uint64

// NewDeadline returns now+ttl expressed relative to the network epoch, which
// starts epochAdjustment after the Unix epoch.
func NewDeadline(now time.Time, ttl, epochAdjustment time.Duration) Deadline {
	return Deadline(now.Add(ttl).UnixMilli() - epochAdjustment.Milliseconds())
}

// Time converts d back to wall-clock time.
func (d Deadline) Time(epochAdjustment time.Duration) time.Time {
	return time.UnixMilli(int64(d) + epochAdjustment.Milliseconds())
}
