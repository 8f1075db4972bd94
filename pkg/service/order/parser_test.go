package order_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/andreycorp/grocfriend/pkg/service/order"
)

func TestParse(t *testing.T) {
	t.Run("single entry with quantity", func(t *testing.T) {
		orders := order.Parse("2 apples")

		gt.Array(t, orders).Length(1)
		gt.Value(t, orders[0].Quantity).Equal(2.0)
		gt.Value(t, orders[0].Item).Equal("apples")
	})

	t.Run("entries separated by commas", func(t *testing.T) {
		orders := order.Parse("2 apples, 3 bananas, 1 milk")

		gt.Array(t, orders).Length(3)
		gt.Value(t, orders[0].Item).Equal("apples")
		gt.Value(t, orders[1].Quantity).Equal(3.0)
		gt.Value(t, orders[1].Item).Equal("bananas")
		gt.Value(t, orders[2].Item).Equal("milk")
	})

	t.Run("entries separated by periods", func(t *testing.T) {
		orders := order.Parse("2 apples. 3 bananas. 1 milk")

		gt.Array(t, orders).Length(3)
		gt.Value(t, orders[0].Item).Equal("apples")
		gt.Value(t, orders[1].Item).Equal("bananas")
		gt.Value(t, orders[2].Item).Equal("milk")
	})

	t.Run("mixed delimiters", func(t *testing.T) {
		orders := order.Parse("2 apples, 3 bananas. 1 orange; 4 peaches")

		gt.Array(t, orders).Length(4)
		gt.Value(t, orders[2].Item).Equal("orange")
		gt.Value(t, orders[3].Item).Equal("peaches")
	})

	t.Run("leading bot mention is stripped", func(t *testing.T) {
		orders := order.Parse("<@BOTID> 2 apples, 3 bananas")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Quantity).Equal(2.0)
		gt.Value(t, orders[0].Item).Equal("apples")
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		orders := order.Parse("apples")

		gt.Array(t, orders).Length(1)
		gt.Value(t, orders[0].Quantity).Equal(1.0)
		gt.Value(t, orders[0].Item).Equal("apples")
	})

	t.Run("mixed explicit and default quantities", func(t *testing.T) {
		orders := order.Parse("2 apples, bananas, 3 oranges")

		gt.Array(t, orders).Length(3)
		gt.Value(t, orders[0].Quantity).Equal(2.0)
		gt.Value(t, orders[1].Quantity).Equal(1.0)
		gt.Value(t, orders[1].Item).Equal("bananas")
		gt.Value(t, orders[2].Quantity).Equal(3.0)
	})

	t.Run("empty and whitespace-only input", func(t *testing.T) {
		gt.Array(t, order.Parse("")).Length(0)
		gt.Array(t, order.Parse("   ")).Length(0)
	})

	t.Run("blank tokens between delimiters are skipped", func(t *testing.T) {
		orders := order.Parse("2 apples,, 3 bananas")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Item).Equal("apples")
		gt.Value(t, orders[1].Item).Equal("bananas")
	})

	t.Run("item names are lowercased", func(t *testing.T) {
		orders := order.Parse("2 APPLES, 3 BaNaNaS")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Item).Equal("apples")
		gt.Value(t, orders[1].Item).Equal("bananas")
	})

	t.Run("irregular whitespace", func(t *testing.T) {
		orders := order.Parse("  2    apples   ,   3     bananas  ")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Quantity).Equal(2.0)
		gt.Value(t, orders[0].Item).Equal("apples")
		gt.Value(t, orders[1].Quantity).Equal(3.0)
		gt.Value(t, orders[1].Item).Equal("bananas")
	})

	t.Run("multi-word item names", func(t *testing.T) {
		orders := order.Parse("2 green apples, 3 red onions")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Item).Equal("green apples")
		gt.Value(t, orders[1].Item).Equal("red onions")
	})

	t.Run("non-ASCII item names", func(t *testing.T) {
		orders := order.Parse("2 hähnchen, 3 crème fraîche")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Item).Equal("hähnchen")
		gt.Value(t, orders[1].Item).Equal("crème fraîche")
	})

	t.Run("items with emoji", func(t *testing.T) {
		orders := order.Parse("2 🍎 apples, 3 🍌 bananas")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Item).Equal("🍎 apples")
		gt.Value(t, orders[1].Item).Equal("🍌 bananas")
	})

	t.Run("digits embedded in item names", func(t *testing.T) {
		orders := order.Parse("2 7up, 3 coca-cola")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Quantity).Equal(2.0)
		gt.Value(t, orders[0].Item).Equal("7up")
		gt.Value(t, orders[1].Item).Equal("coca-cola")
	})

	t.Run("word quantities fall back to one", func(t *testing.T) {
		orders := order.Parse("two apples, many bananas")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Quantity).Equal(1.0)
		gt.Value(t, orders[0].Item).Equal("two apples")
		gt.Value(t, orders[1].Item).Equal("many bananas")
	})

	t.Run("fractional quantity", func(t *testing.T) {
		orders := order.Parse("2.5 apples")

		gt.Array(t, orders).Length(1)
		gt.Value(t, orders[0].Quantity).Equal(2.5)
		gt.Value(t, orders[0].Item).Equal("apples")
	})

	t.Run("large quantity", func(t *testing.T) {
		orders := order.Parse("999999 apples")

		gt.Array(t, orders).Length(1)
		gt.Value(t, orders[0].Quantity).Equal(999999.0)
	})

	t.Run("period splits only before whitespace and digit", func(t *testing.T) {
		orders := order.Parse("apples. 2 bananas")

		gt.Array(t, orders).Length(2)
		gt.Value(t, orders[0].Quantity).Equal(1.0)
		gt.Value(t, orders[0].Item).Equal("apples")
		gt.Value(t, orders[1].Quantity).Equal(2.0)
		gt.Value(t, orders[1].Item).Equal("bananas")
	})

	t.Run("full message with mention, defaults and fractions", func(t *testing.T) {
		orders := order.Parse("<@B1> 2 apples, bananas, 1.5 kg sugar. 7up")

		gt.Array(t, orders).Length(4)
		gt.Value(t, orders[0].Quantity).Equal(2.0)
		gt.Value(t, orders[0].Item).Equal("apples")
		gt.Value(t, orders[1].Quantity).Equal(1.0)
		gt.Value(t, orders[1].Item).Equal("bananas")
		gt.Value(t, orders[2].Quantity).Equal(1.5)
		gt.Value(t, orders[2].Item).Equal("kg sugar")
		gt.Value(t, orders[3].Quantity).Equal(1.0)
		gt.Value(t, orders[3].Item).Equal("7up")
	})
}
