package util

import (
	"strings"
	"time"
)

type OffsetType string

const OFFSET_TYPE_CALENDAR OffsetType = "calendar"
const OFFSET_TYPE_BUSINESS OffsetType = "business"

func ToOffsetType(s string) OffsetType {
	if strings.EqualFold(s, string(OFFSET_TYPE_BUSINESS)) {
		return OFFSET_TYPE_BUSINESS
	}
	return OFFSET_TYPE_CALENDAR
}

// DueDate returns from offset by days. Calendar mode counts every day;
// business mode counts Monday to Friday only. An offset of 0 in business
// mode returns from unchanged, even on a weekend.
func DueDate(from time.Time, offset int, offsetType OffsetType) time.Time {
	if offsetType != OFFSET_TYPE_BUSINESS {
		return from.AddDate(0, 0, offset)
	}
	date := from
	counted := 0
	for counted < offset {
		date = date.AddDate(0, 0, 1)
		if IsBusinessDay(date) {
			counted++
		}
	}
	return date
}

func IsBusinessDay(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
