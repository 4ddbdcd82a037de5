package matching

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Source systems encode times three ways: ISO datetimes, 12-hour clock
// strings and 24-hour clock strings. ParseClockMinutes accepts all of
// them and never errors; a false second return means "no usable time".

var (
	twelveHourRegex     = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
	twentyFourHourRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
)

// ParseClockMinutes converts a textual time-of-day into minutes since
// midnight. It accepts ISO datetimes ("2025-03-10T08:10:00Z"), 12-hour
// strings ("9:00 am", "9pm") and 24-hour strings ("14:30", "14:30:00").
func ParseClockMinutes(s string) (int, bool) {
	s = Normalize(s)
	if s == "" {
		return 0, false
	}

	// ISO datetime: take the HH:MM that follows the date separator.
	if idx := strings.IndexByte(s, 't'); idx >= 0 && len(s) >= idx+6 {
		return parse24(s[idx+1 : idx+6])
	}

	if m := twelveHourRegex.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
		if m[3] == "pm" {
			hour += 12
		}
		return hour*60 + minute, true
	}

	return parse24(s)
}

func parse24(s string) (int, bool) {
	m := twentyFourHourRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// FormatMinutes renders minutes-since-midnight in 12-hour display form,
// omitting ":00" on the hour: 540 -> "9am", 545 -> "9:05 am".
func FormatMinutes(minutes int) string {
	minutes %= 24 * 60
	if minutes < 0 {
		minutes += 24 * 60
	}

	hour := minutes / 60
	minute := minutes % 60

	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}

	if minute == 0 {
		return fmt.Sprintf("%d%s", displayHour, suffix)
	}
	return fmt.Sprintf("%d:%02d %s", displayHour, minute, suffix)
}
