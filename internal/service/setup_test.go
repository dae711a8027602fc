package service

import (
	"strings"
	"testing"

	"github.com/sebastianmarines/assetgridapp/internal/database"
	"github.com/sebastianmarines/assetgridapp/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database named after the test so that
// tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "irrelevant"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createAccount(t *testing.T, s *AccountService, userID uint, name string) *AccountView {
	t.Helper()
	view, err := s.Create(userID, CreateAccount{Name: name, Description: "Description"})
	require.NoError(t, err)
	return view
}

// setPermissions changes an existing grant in place.
func setPermissions(t *testing.T, db *gorm.DB, userID, accountID uint, p models.AccountPermissions) {
	t.Helper()
	res := db.Model(&models.UserAccount{}).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Update("permissions", p)
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}

func grantAccess(t *testing.T, db *gorm.DB, userID, accountID uint, p models.AccountPermissions) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserAccount{
		UserID:      userID,
		AccountID:   accountID,
		Permissions: p,
	}).Error)
}

func removeGrant(t *testing.T, db *gorm.DB, userID, accountID uint) {
	t.Helper()
	require.NoError(t, db.
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Delete(&models.UserAccount{}).Error)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}

func ptr[T any](v T) *T { return &v }
