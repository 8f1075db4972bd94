package summary_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/service/summary"
)

func message(user, text, ts string) *model.MessageEvent {
	return &model.MessageEvent{
		TeamID:    "T001",
		ChannelID: "C001",
		UserID:    types.UserID(user),
		Text:      text,
		TS:        types.MessageTS(ts),
	}
}

func reaction(user, name, ts string) *model.ReactionEvent {
	return &model.ReactionEvent{
		TeamID:    "T001",
		ChannelID: "C001",
		UserID:    types.UserID(user),
		Reaction:  name,
		TS:        types.MessageTS(ts),
	}
}

func TestBuild(t *testing.T) {
	t.Run("starts with the summary header", func(t *testing.T) {
		text := summary.Build(nil, nil)
		gt.Bool(t, strings.HasPrefix(text, "*Weekly Grocery Summary:*\n")).True()
	})

	t.Run("sums quantities across messages and fuses reactions", func(t *testing.T) {
		messages := []*model.MessageEvent{
			message("U1", "2 apples, 1 orange", "1700000100.000100"),
			message("U1", "1 apple", "1700000200.000200"),
			message("U2", "3 pears", "1700000300.000300"),
		}
		reactions := []*model.ReactionEvent{
			reaction("U9", "+1", "1700000100.000100"),
			reaction("U9", "+1", "1700000100.000100"),
			reaction("U9", "+1", "1700000300.000300"),
			reaction("U9", "heart", "1700000100.000100"),
		}

		text := summary.Build(messages, reactions)

		gt.Bool(t, strings.Contains(text, "• <@U1>: 2× apples (2× 👍), 1× orange (2× 👍), 1× apple")).True()
		gt.Bool(t, strings.Contains(text, "• <@U2>: 3× pears (1× 👍)")).True()
	})

	t.Run("repeated item in one user accumulates in place", func(t *testing.T) {
		messages := []*model.MessageEvent{
			message("U1", "2 apples, 1 milk", "1700000100.000100"),
			message("U1", "3 apples", "1700000200.000200"),
		}

		text := summary.Build(messages, nil)

		gt.Bool(t, strings.Contains(text, "• <@U1>: 5× apples, 1× milk")).True()
	})

	t.Run("reactions on any of the item's messages are summed", func(t *testing.T) {
		messages := []*model.MessageEvent{
			message("U1", "1 bread", "1700000100.000100"),
			message("U1", "1 bread", "1700000200.000200"),
		}
		reactions := []*model.ReactionEvent{
			reaction("U8", "+1", "1700000100.000100"),
			reaction("U9", "+1", "1700000200.000200"),
		}

		text := summary.Build(messages, reactions)

		gt.Bool(t, strings.Contains(text, "2× bread (2× 👍)")).True()
	})

	t.Run("fractional quantities keep their decimal form", func(t *testing.T) {
		messages := []*model.MessageEvent{
			message("U1", "1.5 kg sugar", "1700000100.000100"),
		}

		text := summary.Build(messages, nil)

		gt.Bool(t, strings.Contains(text, "1.5× kg sugar")).True()
	})

	t.Run("whole quantities render without fraction", func(t *testing.T) {
		messages := []*model.MessageEvent{
			message("U1", "0.5 cream, 1.5 cream", "1700000100.000100"),
		}

		text := summary.Build(messages, nil)

		gt.Bool(t, strings.Contains(text, "2× cream")).True()
	})

	t.Run("non-affirmative reactions are ignored", func(t *testing.T) {
		messages := []*model.MessageEvent{
			message("U1", "1 milk", "1700000100.000100"),
		}
		reactions := []*model.ReactionEvent{
			reaction("U9", "heart", "1700000100.000100"),
			reaction("U9", "white_check_mark", "1700000100.000100"),
		}

		text := summary.Build(messages, reactions)

		gt.Bool(t, strings.Contains(text, "1× milk")).True()
		gt.Bool(t, strings.Contains(text, "👍")).False()
	})
}
