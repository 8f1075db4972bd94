package types

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// TeamID identifies a Slack workspace (tenant). Opaque string, e.g. "T0123ABCD".
type TeamID string

// Validate checks if the TeamID is valid
func (t TeamID) Validate() error {
	if t == "" {
		return goerr.New("team ID cannot be empty")
	}
	return nil
}

// String returns the string representation of TeamID
func (t TeamID) String() string {
	return string(t)
}

// UserID identifies a Slack user within a workspace.
type UserID string

func (u UserID) String() string {
	return string(u)
}

// ChannelID identifies a Slack channel.
type ChannelID string

func (c ChannelID) String() string {
	return string(c)
}

// MessageTS is a Slack message timestamp, e.g. "1712345678.000200". It is
// both the message identity within a channel and a fixed-point decimal
// epoch time. Identity comparisons use the verbatim string; time-range
// comparisons use the parsed epoch.
type MessageTS string

func (ts MessageTS) String() string {
	return string(ts)
}

// Validate checks that the timestamp parses as a decimal epoch.
func (ts MessageTS) Validate() error {
	if ts == "" {
		return goerr.New("message ts cannot be empty")
	}
	if _, err := strconv.ParseFloat(string(ts), 64); err != nil {
		return goerr.Wrap(err, "message ts is not a decimal epoch", goerr.V("ts", ts))
	}
	return nil
}

// Epoch returns the numeric epoch form of the timestamp. Returns 0 for
// unparseable values; callers that care must Validate first.
func (ts MessageTS) Epoch() float64 {
	f, err := strconv.ParseFloat(string(ts), 64)
	if err != nil {
		return 0
	}
	return f
}
