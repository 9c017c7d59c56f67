package output

import (
	"fmt"

	"colonyfeed/internal/model"
)

// Describe renders the title and description shown on an event card.
func Describe(record model.Record) (string, string, error) {
	switch r := record.(type) {
	case model.ColonyInitialised:
		return "Colony initialised",
			fmt.Sprintf("Initialised through network %s", r.UserAddress), nil
	case model.ColonyRoleSet:
		return fmt.Sprintf("%s role set", r.Role),
			fmt.Sprintf("Role %s set for user %s in domain %s", r.Role, r.UserAddress, r.DomainID), nil
	case model.PayoutClaimed:
		return "Payout claimed",
			fmt.Sprintf("User %s claimed %s of token %s from pot %s", r.UserAddress, r.Amount, r.Token, r.FundingPotID), nil
	case model.DomainAdded:
		return fmt.Sprintf("Domain %s added", r.DomainID),
			fmt.Sprintf("Domain %s was added to colony %s", r.DomainID, r.UserAddress), nil
	default:
		return "", "", fmt.Errorf("unsupported record type %T", record)
	}
}
