package summary

import (
	"strconv"
	"strings"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/service/order"
)

const (
	// Header is the first line of every rendered summary.
	Header = "*Weekly Grocery Summary:*"

	// NoOrdersMessage is posted when the closing thread has no orders.
	NoOrdersMessage = "No orders were placed this week."

	// AffirmativeReaction is the emoji counted as a vote for an order.
	AffirmativeReaction = "+1"
)

// userOrders accumulates one user's parsed orders. Items keep the order of
// first appearance; quantities of repeated items are summed.
type userOrders struct {
	user  types.UserID
	items []string
	qty   map[string]float64
	ts    map[string][]types.MessageTS
}

// Build renders the weekly summary for one tenant's window of message and
// reaction events. It is a pure function: every message is run through the
// order parser, quantities are summed per user and item, and affirmative
// reactions are tallied against the messages that mentioned the item.
func Build(messages []*model.MessageEvent, reactions []*model.ReactionEvent) string {
	byUser := map[types.UserID]*userOrders{}
	var users []types.UserID

	for _, msg := range messages {
		uo, ok := byUser[msg.UserID]
		if !ok {
			uo = &userOrders{
				user: msg.UserID,
				qty:  map[string]float64{},
				ts:   map[string][]types.MessageTS{},
			}
			byUser[msg.UserID] = uo
			users = append(users, msg.UserID)
		}

		for _, po := range order.Parse(msg.Text) {
			if _, seen := uo.qty[po.Item]; !seen {
				uo.items = append(uo.items, po.Item)
			}
			uo.qty[po.Item] += po.Quantity
			uo.ts[po.Item] = append(uo.ts[po.Item], msg.TS)
		}
	}

	plusOnes := countAffirmative(reactions)

	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteString("\n")
	for _, user := range users {
		uo := byUser[user]
		sb.WriteString("• <@")
		sb.WriteString(string(user))
		sb.WriteString(">: ")

		entries := make([]string, 0, len(uo.items))
		for _, item := range uo.items {
			entries = append(entries, formatEntry(item, uo.qty[item], uo.ts[item], plusOnes))
		}
		sb.WriteString(strings.Join(entries, ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// countAffirmative tallies "+1" reactions by the ts of the target message.
// Other reaction names are ignored; repeated reactions count every row.
func countAffirmative(reactions []*model.ReactionEvent) map[types.MessageTS]int {
	counts := map[types.MessageTS]int{}
	for _, r := range reactions {
		if r.Reaction == AffirmativeReaction {
			counts[r.TS]++
		}
	}
	return counts
}

// FormatOrder renders one parsed order as "{qty}× {item}".
func FormatOrder(po order.ParsedOrder) string {
	return formatQuantity(po.Quantity) + "× " + po.Item
}

func formatEntry(item string, qty float64, messageTS []types.MessageTS, plusOnes map[types.MessageTS]int) string {
	reacts := 0
	for _, ts := range messageTS {
		reacts += plusOnes[ts]
	}

	entry := formatQuantity(qty) + "× " + item
	if reacts > 0 {
		entry += " (" + strconv.Itoa(reacts) + "× 👍)"
	}
	return entry
}

// formatQuantity drops the fractional part of whole quantities.
func formatQuantity(qty float64) string {
	if qty == float64(int64(qty)) {
		return strconv.FormatInt(int64(qty), 10)
	}
	return strconv.FormatFloat(qty, 'f', -1, 64)
}
