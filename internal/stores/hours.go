package stores

import (
	"strconv"
	"strings"
	"time"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

const msPerDay = 24 * 60 * 60 * 1000

// ComputeStatus resolves the open/closed snapshot for "now" from the weekly
// schedule. An inactive store is always reported closed. Same-day
// comparisons convert both now and the schedule times to milliseconds since
// local midnight and check open <= now < close.
func ComputeStatus(isActive bool, hours []models.StoreWorkingHour, now time.Time) StoreStatus {
	byWeekday := make(map[int]models.StoreWorkingHour, len(hours))
	for _, entry := range hours {
		byWeekday[entry.Weekday] = entry
	}

	status := StoreStatus{IsActive: isActive}
	today := int(now.Weekday())
	nowMs := millisSinceMidnight(now)

	if entry, ok := byWeekday[today]; ok {
		status.TodayHours = &DayHours{
			Weekday:   entry.Weekday,
			OpenTime:  entry.OpenTime,
			CloseTime: entry.CloseTime,
			IsClosed:  entry.IsClosed,
		}
		if isActive && !entry.IsClosed {
			openMs, openOK := parseTimeOfDay(entry.OpenTime)
			closeMs, closeOK := parseTimeOfDay(entry.CloseTime)
			if openOK && closeOK && openMs <= nowMs && nowMs < closeMs {
				status.IsOpen = true
			}
		}
	}

	if !status.IsOpen {
		status.NextOpening = nextOpening(byWeekday, today)
	}
	return status
}

// nextOpening scans forward up to seven days for the next weekday with a
// usable opening time.
func nextOpening(byWeekday map[int]models.StoreWorkingHour, today int) *NextOpening {
	for offset := 1; offset <= 7; offset++ {
		weekday := (today + offset) % 7
		entry, ok := byWeekday[weekday]
		if !ok || entry.IsClosed {
			continue
		}
		if _, valid := parseTimeOfDay(entry.OpenTime); !valid {
			continue
		}
		return &NextOpening{Weekday: weekday, OpenTime: *entry.OpenTime}
	}
	return nil
}

func millisSinceMidnight(now time.Time) int {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	ms := int(now.Sub(midnight).Milliseconds())
	if ms < 0 || ms >= msPerDay {
		return 0
	}
	return ms
}

// parseTimeOfDay converts "HH:MM" (optionally "HH:MM:SS") to milliseconds
// since midnight.
func parseTimeOfDay(value *string) (int, bool) {
	if value == nil {
		return 0, false
	}
	parts := strings.Split(strings.TrimSpace(*value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	second := 0
	if len(parts) == 3 {
		second, err = strconv.Atoi(parts[2])
		if err != nil || second < 0 || second > 59 {
			return 0, false
		}
	}
	return ((hour*60+minute)*60 + second) * 1000, true
}
