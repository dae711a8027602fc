package service

import (
	"time"

	"github.com/sebastianmarines/assetgridapp/internal/models"
)

// ViewPermissions is the permission tier as rendered to clients. Unlike the
// stored enum it has an explicit None, used for redacted accounts.
type ViewPermissions int

const (
	ViewPermissionsNone ViewPermissions = iota
	ViewPermissionsRead
	ViewPermissionsModifyTransactions
	ViewPermissionsAll
)

func viewPermissions(p models.AccountPermissions) ViewPermissions {
	return ViewPermissions(p) + 1
}

// AccountView is an account as seen by one user: the shared account fields
// plus that user's own grant tier and display flags.
type AccountView struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Favorite          bool            `json:"favorite"`
	IncludeInNetWorth bool            `json:"includeInNetWorth"`
	Permissions       ViewPermissions `json:"permissions"`
	Balance           int64           `json:"balance"`
}

// noReadAccessAccount is the redacted placeholder rendered when a
// transaction references an account the user cannot see. Only the id is
// carried; name, description and flags are withheld.
func noReadAccessAccount(id uint) *AccountView {
	return &AccountView{ID: id, Permissions: ViewPermissionsNone}
}

func accountView(account *models.Account, grant *models.UserAccount) *AccountView {
	if account == nil {
		return nil
	}
	if grant == nil {
		return noReadAccessAccount(account.ID)
	}
	return &AccountView{
		ID:                account.ID,
		Name:              account.Name,
		Description:       account.Description,
		Favorite:          grant.Favorite,
		IncludeInNetWorth: grant.IncludeInNetWorth,
		Permissions:       viewPermissions(grant.Permissions),
	}
}

// TransactionView is the full current-state rendering of a transaction.
type TransactionView struct {
	ID          uint                  `json:"id"`
	Source      *AccountView          `json:"source"`
	Destination *AccountView          `json:"destination"`
	DateTime    time.Time             `json:"dateTime"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Total       int64                 `json:"total"`
	Identifiers []string              `json:"identifiers"`
	Lines       []TransactionLineView `json:"lines"`
}

type TransactionLineView struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// SearchResponse is a page of search results plus the unpaginated count.
type SearchResponse[T any] struct {
	Data       []T   `json:"data"`
	TotalItems int64 `json:"totalItems"`
}
