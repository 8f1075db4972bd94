package homeview_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/service/homeview"
)

func TestAdminHome(t *testing.T) {
	settings := model.DefaultScheduleSettings("T001")
	defaults := []*model.DefaultItem{
		{TeamID: "T001", Name: "milk", Quantity: 2},
		{TeamID: "T001", Name: "bread", Quantity: 1},
	}

	view := homeview.AdminHome(settings, defaults, "*Weekly Grocery Summary:*\n")

	gt.Value(t, view.Type).Equal(slack.VTHomeTab)

	var inputIDs []string
	var overflowCount int
	for _, block := range view.Blocks.BlockSet {
		switch b := block.(type) {
		case *slack.InputBlock:
			inputIDs = append(inputIDs, b.BlockID)
			gt.Bool(t, b.DispatchAction).True()
		case *slack.SectionBlock:
			if b.Accessory != nil && b.Accessory.OverflowElement != nil {
				overflowCount++
				gt.Value(t, b.Accessory.OverflowElement.ActionID).Equal("default_item_actions")
			}
		}
	}

	gt.Array(t, inputIDs).Equal([]string{
		"open_day_block", "open_time_block", "close_day_block", "close_time_block",
	})
	gt.Value(t, overflowCount).Equal(2)
}

func TestAdminHomeDayPickers(t *testing.T) {
	settings := model.DefaultScheduleSettings("T001")

	view := homeview.AdminHome(settings, nil, "")

	weekOrder := []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}
	var pickers int
	for _, block := range view.Blocks.BlockSet {
		input, ok := block.(*slack.InputBlock)
		if !ok {
			continue
		}
		sel, ok := input.Element.(*slack.SelectBlockElement)
		if !ok {
			continue
		}
		pickers++

		var values []string
		for _, opt := range sel.Options {
			values = append(values, opt.Value)
		}
		gt.Array(t, values).Equal(weekOrder)
	}
	gt.Value(t, pickers).Equal(2)
}

func TestUserWelcome(t *testing.T) {
	view := homeview.UserWelcome("C0GROCERY", "office-grocery", "")

	gt.Value(t, view.Type).Equal(slack.VTHomeTab)

	var hasChannelLink bool
	for _, block := range view.Blocks.BlockSet {
		action, ok := block.(*slack.ActionBlock)
		if !ok {
			continue
		}
		for _, el := range action.Elements.ElementSet {
			if btn, ok := el.(*slack.ButtonBlockElement); ok && btn.URL != "" {
				hasChannelLink = true
			}
		}
	}
	gt.Bool(t, hasChannelLink).True()
}

func TestDefaultModals(t *testing.T) {
	t.Run("add modal carries ADD metadata", func(t *testing.T) {
		view := homeview.AddDefaultModal()

		gt.Value(t, view.CallbackID).Equal("add_edit_default_modal")
		gt.Value(t, view.PrivateMetadata).Equal("ADD|")
	})

	t.Run("edit modal prefills name and quantity", func(t *testing.T) {
		view := homeview.EditDefaultModal("apples", 4)

		gt.Value(t, view.PrivateMetadata).Equal("EDIT|apples")

		var initialValues []string
		for _, block := range view.Blocks.BlockSet {
			input, ok := block.(*slack.InputBlock)
			if !ok {
				continue
			}
			if el, ok := input.Element.(*slack.PlainTextInputBlockElement); ok {
				initialValues = append(initialValues, el.InitialValue)
			}
		}
		gt.Array(t, initialValues).Equal([]string{"apples", "4"})
	})
}
