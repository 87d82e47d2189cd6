package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"quickbite/internal/domain"
)

// closingSoonWindow is the pre-close cutoff: within this many minutes
// of closing time (inclusive) the restaurant still shows its menu but
// ordering is disabled. Business policy, minute granularity.
const closingSoonWindow = 15

// OpenStatus is the result of evaluating a restaurant's schedule
// against a point in time. ClosesIn is only set in the closing-soon
// case.
type OpenStatus struct {
	Open     bool   `json:"open"`
	ClosesIn int    `json:"closes_in,omitempty"`
	Message  string `json:"message,omitempty"`
}

// RestaurantOpenStatus is pure: the same restaurant and now always
// yield the same result.
func RestaurantOpenStatus(r *domain.Restaurant, now time.Time) OpenStatus {
	day := strings.ToLower(now.Weekday().String())
	minute := now.Hour()*60 + now.Minute()

	today := findDay(r.WorkingHours, day)
	if today == nil || today.IsClosed {
		if next := nextOpenDay(r.WorkingHours, now.Weekday()); next != nil {
			return OpenStatus{Message: fmt.Sprintf("Closed today. Opens %s at %s", titleDay(next.Day), next.Open)}
		}
		return OpenStatus{Message: "Closed"}
	}

	openAt, errOpen := clockMinutes(today.Open)
	closeAt, errClose := clockMinutes(today.Close)
	if errOpen != nil || errClose != nil {
		return OpenStatus{Message: "Closed"}
	}

	if minute < openAt {
		return OpenStatus{Message: fmt.Sprintf("Opens at %s", today.Open)}
	}

	if minute >= closeAt {
		if next := nextOpenDay(r.WorkingHours, now.Weekday()); next != nil {
			return OpenStatus{Message: fmt.Sprintf("Closed. Opens tomorrow at %s", next.Open)}
		}
		return OpenStatus{Message: "Closed"}
	}

	if left := closeAt - minute; left <= closingSoonWindow {
		return OpenStatus{
			ClosesIn: left,
			Message:  fmt.Sprintf("Ordering unavailable. Restaurant closes in %d min", left),
		}
	}

	return OpenStatus{Open: true}
}

// OpenRestaurants filters to the restaurants currently open, keeping
// the input ordering.
func OpenRestaurants(restaurants []domain.Restaurant, now time.Time) []domain.Restaurant {
	open := make([]domain.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if RestaurantOpenStatus(&r, now).Open {
			open = append(open, r)
		}
	}
	return open
}

func findDay(hours []domain.WorkingHours, day string) *domain.WorkingHours {
	for i := range hours {
		if strings.ToLower(hours[i].Day) == day {
			return &hours[i]
		}
	}
	return nil
}

// nextOpenDay scans forward up to six days, wrapping over the week,
// for the first non-closed schedule entry.
func nextOpenDay(hours []domain.WorkingHours, today time.Weekday) *domain.WorkingHours {
	for i := 1; i < 7; i++ {
		day := strings.ToLower(time.Weekday((int(today) + i) % 7).String())
		if entry := findDay(hours, day); entry != nil && !entry.IsClosed {
			return entry
		}
	}
	return nil
}

// clockMinutes parses "HH:MM" into a minute-of-day offset.
func clockMinutes(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

func titleDay(day string) string {
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
}
