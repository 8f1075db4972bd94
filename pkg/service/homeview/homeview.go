package homeview

import (
	"strconv"

	"github.com/slack-go/slack"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// Action IDs of the admin home controls. The interaction handler treats
// this as a closed set.
const (
	ActionIDOpenDayPicker      = "open_day_picker"
	ActionIDOpenTimePicker     = "open_time_picker"
	ActionIDCloseDayPicker     = "close_day_picker"
	ActionIDCloseTimePicker    = "close_time_picker"
	ActionIDSaveSchedule       = "save_schedule"
	ActionIDAddDefault         = "add_default"
	ActionIDDefaultItemActions = "default_item_actions"
)

// Identifiers of the add/edit default item modal.
const (
	CallbackIDDefaultModal = "add_edit_default_modal"
	BlockIDItemName        = "item_name_block"
	ActionIDItemName       = "item_name"
	BlockIDQuantity        = "quantity_block"
	ActionIDQuantity       = "quantity"

	// MetadataAdd and MetadataEditPrefix encode the modal mode in
	// private_metadata: "ADD|" or "EDIT|<original item name>".
	MetadataAdd        = "ADD|"
	MetadataEditPrefix = "EDIT|"
)

const welcomeHeader = "👋 Welcome to GrocFriend! Your best grocery friend"

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func dayOption(day types.Weekday) *slack.OptionBlockObject {
	return slack.NewOptionBlockObject(string(day), plainText(day.Label()), nil)
}

func daySelect(actionID string, selected types.Weekday) *slack.SelectBlockElement {
	days := types.AllWeekdays()
	options := make([]*slack.OptionBlockObject, 0, len(days))
	for _, day := range days {
		options = append(options, dayOption(day))
	}
	return slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, nil, actionID, options...).
		WithInitialOption(dayOption(selected))
}

func timePicker(actionID, initial string) *slack.TimePickerBlockElement {
	picker := slack.NewTimePickerBlockElement(actionID)
	picker.InitialTime = initial
	return picker
}

func scheduleInput(blockID, label string, element slack.BlockElement) *slack.InputBlock {
	input := slack.NewInputBlock(blockID, plainText(label), nil, element)
	input.DispatchAction = true
	return input
}

// AdminHome renders the admin dashboard: schedule pickers, the default item
// list with edit/delete menus, and the live order summary.
func AdminHome(settings *model.ScheduleSettings, defaults []*model.DefaultItem, summaryMD string) slack.HomeTabViewRequest {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plainText(welcomeHeader)),
		slack.NewSectionBlock(markdown("Hello admin, below is your dashboard."), nil, nil),
		slack.NewDividerBlock(),
		scheduleInput("open_day_block", "Order thread opens on", daySelect(ActionIDOpenDayPicker, settings.OpenDay)),
		scheduleInput("open_time_block", "Time", timePicker(ActionIDOpenTimePicker, settings.OpenTime)),
		scheduleInput("close_day_block", "Order thread closes on", daySelect(ActionIDCloseDayPicker, settings.CloseDay)),
		scheduleInput("close_time_block", "Time", timePicker(ActionIDCloseTimePicker, settings.CloseTime)),
	}

	saveBtn := slack.NewButtonBlockElement(ActionIDSaveSchedule, "", plainText("Apply Changes"))
	saveBtn.Style = slack.StylePrimary
	blocks = append(blocks,
		slack.NewActionBlock("", saveBtn),
		slack.NewSectionBlock(markdown("*Current Defaults:*"), nil, nil),
	)

	for _, item := range defaults {
		overflow := slack.NewOverflowBlockElement(ActionIDDefaultItemActions,
			slack.NewOptionBlockObject(MetadataEditPrefix+item.Name, plainText("Edit"), nil),
			slack.NewOptionBlockObject("DELETE|"+item.Name, plainText("Delete"), nil),
		)
		blocks = append(blocks, slack.NewSectionBlock(
			markdown("• *"+item.Name+"* — "+strconv.Itoa(item.Quantity)),
			nil,
			slack.NewAccessory(overflow),
		))
	}

	addBtn := slack.NewButtonBlockElement(ActionIDAddDefault, "", plainText("➕ Add New Default"))
	addBtn.Style = slack.StylePrimary
	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewActionBlock("", addBtn),
	)

	blocks = appendSummary(blocks, summaryMD)

	return slack.HomeTabViewRequest{
		Type:   slack.VTHomeTab,
		Blocks: slack.Blocks{BlockSet: blocks},
	}
}

// UserWelcome renders the home tab for non-admins: how to order, a deep
// link into the order channel, and the live order summary.
func UserWelcome(orderChannelID types.ChannelID, orderChannelName, summaryMD string) slack.HomeTabViewRequest {
	instructions := "To place your weekly grocery orders, go to #" + orderChannelName +
		" and mention @GrocFriend in the weekly thread; `@GrocFriend 2 apples, 3 bananas`."

	blocks := []slack.Block{
		slack.NewHeaderBlock(plainText(welcomeHeader)),
		slack.NewSectionBlock(markdown(instructions), nil, nil),
		slack.NewDividerBlock(),
	}

	if orderChannelID != "" {
		channelBtn := slack.NewButtonBlockElement("", "", plainText("🏠 Go to #"+orderChannelName))
		channelBtn.URL = "https://slack.com/app_redirect?channel=" + string(orderChannelID)
		blocks = append(blocks, slack.NewActionBlock("", channelBtn))
	}

	blocks = appendSummary(blocks, summaryMD)

	return slack.HomeTabViewRequest{
		Type:   slack.VTHomeTab,
		Blocks: slack.Blocks{BlockSet: blocks},
	}
}

func appendSummary(blocks []slack.Block, summaryMD string) []slack.Block {
	if summaryMD == "" {
		return blocks
	}
	return append(blocks,
		slack.NewDividerBlock(),
		slack.NewSectionBlock(markdown(summaryMD), nil, nil),
	)
}

// AddDefaultModal builds the blank add-item modal.
func AddDefaultModal() slack.ModalViewRequest {
	return defaultModal("Add / Edit Default", MetadataAdd, "", "")
}

// EditDefaultModal builds the modal prefilled with an existing item; the
// original name travels in private_metadata so a rename can delete it.
func EditDefaultModal(name string, quantity int) slack.ModalViewRequest {
	return defaultModal("Edit Default", MetadataEditPrefix+name, name, strconv.Itoa(quantity))
}

func defaultModal(title, metadata, initialName, initialQty string) slack.ModalViewRequest {
	nameInput := slack.NewPlainTextInputBlockElement(plainText("e.g. Apple"), ActionIDItemName)
	nameInput.InitialValue = initialName

	qtyInput := slack.NewPlainTextInputBlockElement(plainText("e.g. 2"), ActionIDQuantity)
	qtyInput.InitialValue = initialQty

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackIDDefaultModal,
		PrivateMetadata: metadata,
		Title:           plainText(title),
		Submit:          plainText("Save"),
		Close:           plainText("Cancel"),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewInputBlock(BlockIDItemName, plainText("Item Name"), nil, nameInput),
				slack.NewInputBlock(BlockIDQuantity, plainText("Quantity"), nil, qtyInput),
			},
		},
	}
}
