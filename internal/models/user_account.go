package models

// AccountPermissions is the permission tier a user holds on an account.
type AccountPermissions int

const (
	// PermissionRead lets the user see the account and its transactions but
	// not change anything.
	PermissionRead AccountPermissions = iota
	// PermissionModifyTransactions additionally lets the user create, update
	// and delete transactions touching the account.
	PermissionModifyTransactions
	// PermissionAll additionally lets the user change account properties,
	// delete the account and share it with other users.
	PermissionAll
)

// CanModifyTransactions reports whether this tier allows transaction writes.
func (p AccountPermissions) CanModifyTransactions() bool {
	return p >= PermissionModifyTransactions
}

// UserAccount is a permission grant of a user on an account, plus the
// per-user display flags. A user with no UserAccount row for an account has
// no access to it at all.
type UserAccount struct {
	ID                uint `gorm:"primaryKey"`
	UserID            uint `gorm:"uniqueIndex:idx_user_account;not null"`
	AccountID         uint `gorm:"uniqueIndex:idx_user_account;not null"`
	Permissions       AccountPermissions
	Favorite          bool
	IncludeInNetWorth bool

	User    User    `gorm:"constraint:OnDelete:CASCADE"`
	Account Account `gorm:"constraint:OnDelete:CASCADE"`
}
