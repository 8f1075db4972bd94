package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// MessageEvent is an order message recorded from an app_mention callback.
// TS is the Slack message timestamp: identity within (TeamID, ChannelID)
// and, parsed, the event time used for range queries and pruning.
type MessageEvent struct {
	TeamID    types.TeamID
	ChannelID types.ChannelID
	UserID    types.UserID
	Text      string
	TS        types.MessageTS
}

// Validate checks the event carries everything the store needs.
func (e *MessageEvent) Validate() error {
	if err := e.TeamID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid team ID")
	}
	if e.ChannelID == "" {
		return goerr.New("channel ID is required")
	}
	if e.UserID == "" {
		return goerr.New("user ID is required")
	}
	if err := e.TS.Validate(); err != nil {
		return goerr.Wrap(err, "invalid message ts")
	}
	return nil
}

// ReactionEvent is an emoji reaction recorded from a reaction_added
// callback. TS identifies the target message, not the reaction itself, so
// repeated react/unreact cycles produce repeated rows; the summary counts
// raw occurrences.
type ReactionEvent struct {
	TeamID    types.TeamID
	ChannelID types.ChannelID
	UserID    types.UserID
	Reaction  string
	TS        types.MessageTS
}

// Validate checks the event carries everything the store needs.
func (e *ReactionEvent) Validate() error {
	if err := e.TeamID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid team ID")
	}
	if e.ChannelID == "" {
		return goerr.New("channel ID is required")
	}
	if e.Reaction == "" {
		return goerr.New("reaction name is required")
	}
	if err := e.TS.Validate(); err != nil {
		return goerr.Wrap(err, "invalid message ts")
	}
	return nil
}
