package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// DefaultItem is a standing grocery item an admin pre-configures for a
// tenant. Items keep their insertion position: updating the quantity of an
// existing item does not move it.
type DefaultItem struct {
	TeamID   types.TeamID
	Name     string
	Quantity int
}

// Validate checks if the DefaultItem is valid
func (d *DefaultItem) Validate() error {
	if err := d.TeamID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid team ID")
	}
	if d.Name == "" {
		return goerr.New("item name is required")
	}
	if d.Quantity < 1 {
		return goerr.New("quantity must be at least 1", goerr.V("item", d.Name), goerr.V("quantity", d.Quantity))
	}
	return nil
}
