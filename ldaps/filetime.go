package ldaps

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

/*
   Active Directory stores timestamps such as pwdLastSet as the number of
   100-nanosecond intervals since January 1, 1601 (UTC), the Windows
   FILETIME format. Interval attributes such as maxPwdAge hold a negative
   count of the same unit.
   https://learn.microsoft.com/en-us/windows/win32/adschema/a-pwdlastset
*/

// 100ns intervals between 1601-01-01 and the Unix epoch.
const filetimeUnixOffset = 116444736000000000

const ticksPerSecond = 10_000_000

// parseFiletime converts a FILETIME attribute value to UTC time.
// A value of 0 means the timestamp is unset (for pwdLastSet: the
// password must be changed at next logon); 0x7FFFFFFFFFFFFFFF is the
// directory's "never" sentinel. Both return nil.
func parseFiletime(value string) (*time.Time, error) {
	ticks, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse filetime %q: %w", value, err)
	}
	if ticks <= 0 || ticks == math.MaxInt64 {
		return nil, nil
	}
	unixTicks := ticks - filetimeUnixOffset
	t := time.Unix(unixTicks/ticksPerSecond, (unixTicks%ticksPerSecond)*100).UTC()
	return &t, nil
}

// parseNegativeInterval converts an interval attribute (maxPwdAge) to a
// positive duration. Zero and the int64 minimum both mean "no limit"
// and return nil, as does any value beyond what time.Duration can hold.
func parseNegativeInterval(value string) (*time.Duration, error) {
	ticks, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse interval %q: %w", value, err)
	}
	if ticks > 0 {
		return nil, fmt.Errorf("parse interval %q: expected a non-positive value", value)
	}
	if ticks == 0 || ticks == math.MinInt64 || -ticks > math.MaxInt64/100 {
		return nil, nil
	}
	d := time.Duration(-ticks*100) * time.Nanosecond
	return &d, nil
}
