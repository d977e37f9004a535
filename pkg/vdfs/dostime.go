// SPDX-License-Identifier: MPL-2.0

package vdfs

import "time"

// dosEpochYear is the first year representable in a DOS timestamp.
const dosEpochYear = 1980

// Clock supplies the build time. *testutil.FakeClock satisfies it in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DOSTime packs t, converted to UTC, into a DOS date-time value:
// year-1980 in bits 25-31, month in 21-24, day in 16-20, hour in 11-15,
// minute in 5-10 and second/2 in 0-4. Years before 1980 clamp to 1980.
func DOSTime(t time.Time) uint32 {
	t = t.UTC()
	year := max(t.Year()-dosEpochYear, 0)

	//nolint:gosec // every field is range-limited by time.Time
	var v uint32
	v |= uint32(year&0x7F) << 25
	v |= uint32(t.Month()) << 21
	v |= uint32(t.Day()) << 16
	v |= uint32(t.Hour()) << 11
	v |= uint32(t.Minute()) << 5
	v |= uint32(t.Second() / 2)
	return v
}
