package model

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// Schedule defaults applied when a tenant has no stored settings.
const (
	DefaultOpenDay   = types.Monday
	DefaultOpenTime  = "09:00"
	DefaultCloseDay  = types.Thursday
	DefaultCloseTime = "17:00"
)

// ScheduleSettings is the weekly open/close schedule of one tenant. Times
// are wall-clock "HH:MM" strings interpreted in the configured regional
// timezone. Timezone is stored per tenant for forward compatibility but
// the scheduler currently applies a single configured zone.
type ScheduleSettings struct {
	TeamID    types.TeamID
	OpenDay   types.Weekday
	OpenTime  string
	CloseDay  types.Weekday
	CloseTime string
	Timezone  string
}

// DefaultScheduleSettings returns the in-memory fallback for tenants
// without a stored row.
func DefaultScheduleSettings(teamID types.TeamID) *ScheduleSettings {
	return &ScheduleSettings{
		TeamID:    teamID,
		OpenDay:   DefaultOpenDay,
		OpenTime:  DefaultOpenTime,
		CloseDay:  DefaultCloseDay,
		CloseTime: DefaultCloseTime,
	}
}

// Validate checks if the ScheduleSettings is valid
func (s *ScheduleSettings) Validate() error {
	if err := s.TeamID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid team ID")
	}
	if !s.OpenDay.IsValid() {
		return goerr.New("invalid open day", goerr.V("day", s.OpenDay))
	}
	if !s.CloseDay.IsValid() {
		return goerr.New("invalid close day", goerr.V("day", s.CloseDay))
	}
	if _, _, err := ParseWallClock(s.OpenTime); err != nil {
		return goerr.Wrap(err, "invalid open time")
	}
	if _, _, err := ParseWallClock(s.CloseTime); err != nil {
		return goerr.Wrap(err, "invalid close time")
	}
	return nil
}

// ParseWallClock splits an "HH:MM" string into hour and minute.
func ParseWallClock(v string) (hour, minute int, err error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, 0, goerr.New("time must be HH:MM", goerr.V("time", v))
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, goerr.Wrap(err, "invalid hour", goerr.V("time", v))
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, goerr.Wrap(err, "invalid minute", goerr.V("time", v))
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, goerr.New("time out of range", goerr.V("time", v))
	}
	return hour, minute, nil
}
