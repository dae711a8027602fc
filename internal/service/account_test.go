package service

import (
	"testing"

	"github.com/sebastianmarines/assetgridapp/internal/models"
	"github.com/sebastianmarines/assetgridapp/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCreateGrantsCreatorAll(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	view, err := accounts.Create(alice.ID, CreateAccount{
		Name:        "Checking",
		Description: "Daily spending",
		Favorite:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, ViewPermissionsAll, view.Permissions)
	assert.True(t, view.Favorite)

	got, err := accounts.Get(alice.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)
	assert.Equal(t, "Daily spending", got.Description)
	assert.Equal(t, ViewPermissionsAll, got.Permissions)

	// Other users cannot even learn that the account exists.
	_, err = accounts.Get(bob.ID, view.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountBalance(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountService(db)
	transactions := NewTransactionService(db)
	alice := createUser(t, db, "alice")
	accountA := createAccount(t, accounts, alice.ID, "A")
	accountB := createAccount(t, accounts, alice.ID, "B")

	for _, tc := range []struct {
		source, destination *uint
		total               int64
	}{
		{&accountA.ID, &accountB.ID, 500},
		{&accountB.ID, &accountA.ID, 200},
		{&accountA.ID, nil, 100},
	} {
		_, err := transactions.Create(alice.ID, CreateTransaction{
			SourceID:      tc.source,
			DestinationID: tc.destination,
			DateTime:      testTime,
			Total:         ptr(tc.total),
		})
		require.NoError(t, err)
	}

	got, err := accounts.Get(alice.ID, accountA.ID)
	require.NoError(t, err)
	assert.EqualValues(t, -400, got.Balance)
	got, err = accounts.Get(alice.ID, accountB.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 300, got.Balance)

	views, err := accounts.List(alice.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "A", views[0].Name)
	assert.EqualValues(t, -400, views[0].Balance)
	assert.Equal(t, "B", views[1].Name)
	assert.EqualValues(t, 300, views[1].Balance)
}

func TestAccountUpdatePermissions(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	account := createAccount(t, accounts, alice.ID, "Joint")
	require.NoError(t, accounts.SetGrant(alice.ID, account.ID, "bob", models.PermissionRead))

	// Renaming requires the All tier.
	_, err := accounts.Update(bob.ID, account.ID, UpdateAccount{Name: ptr("Renamed")})
	assert.ErrorIs(t, err, ErrForbidden)

	// Display flags are per user; any tier may set their own.
	view, err := accounts.Update(bob.ID, account.ID, UpdateAccount{Favorite: ptr(true)})
	require.NoError(t, err)
	assert.True(t, view.Favorite)
	aliceView, err := accounts.Get(alice.ID, account.ID)
	require.NoError(t, err)
	assert.False(t, aliceView.Favorite)

	view, err = accounts.Update(alice.ID, account.ID, UpdateAccount{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Name)

	// Everyone with a grant sees the shared fields change.
	bobView, err := accounts.Get(bob.ID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", bobView.Name)
}

func TestAccountSharing(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	account := createAccount(t, accounts, alice.ID, "Joint")

	// Without a grant the account does not exist for bob.
	_, err := accounts.ListGrants(bob.ID, account.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = accounts.SetGrant(bob.ID, account.ID, "alice", models.PermissionRead)
	assert.ErrorIs(t, err, ErrNotFound)

	// Unknown users and invalid tiers are rejected.
	err = accounts.SetGrant(alice.ID, account.ID, "nobody", models.PermissionRead)
	assert.ErrorIs(t, err, ErrValidation)
	err = accounts.SetGrant(alice.ID, account.ID, "bob", models.AccountPermissions(7))
	assert.ErrorIs(t, err, ErrValidation)

	// Usernames resolve case-insensitively.
	require.NoError(t, accounts.SetGrant(alice.ID, account.ID, "BOB", models.PermissionModifyTransactions))

	grants, err := accounts.ListGrants(alice.ID, account.ID)
	require.NoError(t, err)
	require.Len(t, grants, 2)
	byUser := map[string]ViewPermissions{}
	for _, grant := range grants {
		byUser[grant.Username] = grant.Permissions
	}
	assert.Equal(t, ViewPermissionsAll, byUser["alice"])
	assert.Equal(t, ViewPermissionsModifyTransactions, byUser["bob"])

	// ModifyTransactions does not allow sharing further.
	err = accounts.SetGrant(bob.ID, account.ID, "alice", models.PermissionRead)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = accounts.ListGrants(bob.ID, account.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// An existing grant is changed in place, not duplicated.
	require.NoError(t, accounts.SetGrant(alice.ID, account.ID, "bob", models.PermissionAll))
	grants, err = accounts.ListGrants(alice.ID, account.ID)
	require.NoError(t, err)
	require.Len(t, grants, 2)
}

func TestAccountDeletePreservesHistory(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountService(db)
	transactions := NewTransactionService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	accountA := createAccount(t, accounts, alice.ID, "Doomed")
	accountB := createAccount(t, accounts, alice.ID, "Kept")

	oneSided, err := transactions.Create(alice.ID, CreateTransaction{
		SourceID:    &accountA.ID,
		DateTime:    testTime,
		Category:    "Fees",
		Total:       ptr(int64(100)),
		Identifiers: []string{"del-1"},
	})
	require.NoError(t, err)
	twoSided, err := transactions.Create(alice.ID, CreateTransaction{
		SourceID:      &accountA.ID,
		DestinationID: &accountB.ID,
		DateTime:      testTime,
		Category:      "Transfers",
		Total:         ptr(int64(250)),
	})
	require.NoError(t, err)

	// Deletion requires the All tier.
	require.NoError(t, accounts.SetGrant(alice.ID, accountA.ID, "bob", models.PermissionRead))
	assert.ErrorIs(t, accounts.Delete(bob.ID, accountA.ID), ErrForbidden)

	require.NoError(t, accounts.Delete(alice.ID, accountA.ID))

	// The transaction with no other account is gone with everything on it.
	assert.EqualValues(t, 0, countRows(t, db, &models.Transaction{}, "id = ?", oneSided.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.TransactionIdentifier{}, ""))
	assert.EqualValues(t, 0, countRows(t, db, &models.Category{}, "name = ?", "Fees"))

	// The two-sided one survives with the deleted side cleared.
	var survivor models.Transaction
	require.NoError(t, db.First(&survivor, twoSided.ID).Error)
	assert.Nil(t, survivor.SourceAccountID)
	require.NotNil(t, survivor.DestinationAccountID)
	assert.Equal(t, accountB.ID, *survivor.DestinationAccountID)
	assert.EqualValues(t, 1, countRows(t, db, &models.Category{}, "name = ?", "Transfers"))

	// All grants on the account are gone with it.
	assert.EqualValues(t, 0, countRows(t, db, &models.UserAccount{}, "account_id = ?", accountA.ID))

	// The survivor now renders its missing side as external.
	view, err := transactions.Get(alice.ID, twoSided.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Source)
	require.NotNil(t, view.Destination)
	assert.Equal(t, accountB.ID, view.Destination.ID)
}

func TestAccountSearch(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	for _, name := range []string{"Checking", "Savings", "Shared savings"} {
		createAccount(t, accounts, alice.ID, name)
	}

	resp, err := accounts.Search(alice.ID, query.SearchRequest{
		From: 0,
		To:   10,
		Query: &query.SearchGroup{
			Type:  query.GroupQuery,
			Query: &query.SearchQuery{Column: "Name", Operator: query.OpContains, Value: "sav"},
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.TotalItems)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Savings", resp.Data[0].Name)
	assert.Equal(t, "Shared savings", resp.Data[1].Name)

	// Pagination windows are honored.
	resp, err = accounts.Search(alice.ID, query.SearchRequest{From: 0, To: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.TotalItems)
	assert.Len(t, resp.Data, 2)

	// Only the caller's own grants are searched.
	resp, err = accounts.Search(bob.ID, query.SearchRequest{From: 0, To: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 0, resp.TotalItems)
}
