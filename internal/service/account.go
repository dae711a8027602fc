package service

import (
	"errors"

	"github.com/sebastianmarines/assetgridapp/internal/models"
	"github.com/sebastianmarines/assetgridapp/internal/query"

	"gorm.io/gorm"
)

// AccountService manages accounts and their permission grants. Like the
// transaction engine it takes the acting user id explicitly on every call.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// CreateAccount is the input model for account creation.
type CreateAccount struct {
	Name              string `json:"name" binding:"required,max=100"`
	Description       string `json:"description" binding:"max=250"`
	Favorite          bool   `json:"favorite"`
	IncludeInNetWorth bool   `json:"includeInNetWorth"`
}

// UpdateAccount patches account fields and the caller's own display flags.
type UpdateAccount struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Favorite          *bool   `json:"favorite"`
	IncludeInNetWorth *bool   `json:"includeInNetWorth"`
}

// GrantView renders one user's grant on an account.
type GrantView struct {
	UserID      uint            `json:"userId"`
	Username    string          `json:"username"`
	Permissions ViewPermissions `json:"permissions"`
}

// Create stores a new account and grants the creator full permissions on it.
func (s *AccountService) Create(userID uint, model CreateAccount) (*AccountView, error) {
	account := models.Account{Name: model.Name, Description: model.Description}
	grant := models.UserAccount{
		UserID:            userID,
		Permissions:       models.PermissionAll,
		Favorite:          model.Favorite,
		IncludeInNetWorth: model.IncludeInNetWorth,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		grant.AccountID = account.ID
		return tx.Create(&grant).Error
	})
	if err != nil {
		return nil, err
	}
	view := accountView(&account, &grant)
	return view, nil
}

// Get returns the account as seen by the user, ErrNotFound when the user has
// no grant on it.
func (s *AccountService) Get(userID, id uint) (*AccountView, error) {
	account, grant, err := s.load(s.db, userID, id)
	if err != nil {
		return nil, err
	}
	view := accountView(account, grant)
	balance, err := s.balance(s.db, id)
	if err != nil {
		return nil, err
	}
	view.Balance = balance
	return view, nil
}

// Update changes account fields (requires the All tier) or just the caller's
// own display flags (any tier).
func (s *AccountService) Update(userID, id uint, model UpdateAccount) (*AccountView, error) {
	var view *AccountView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, grant, err := s.load(tx, userID, id)
		if err != nil {
			return err
		}
		if model.Name != nil || model.Description != nil {
			if grant.Permissions != models.PermissionAll {
				return ErrForbidden
			}
			if model.Name != nil {
				account.Name = *model.Name
			}
			if model.Description != nil {
				account.Description = *model.Description
			}
			if err := tx.Save(account).Error; err != nil {
				return err
			}
		}
		if model.Favorite != nil || model.IncludeInNetWorth != nil {
			if model.Favorite != nil {
				grant.Favorite = *model.Favorite
			}
			if model.IncludeInNetWorth != nil {
				grant.IncludeInNetWorth = *model.IncludeInNetWorth
			}
			if err := tx.Save(grant).Error; err != nil {
				return err
			}
		}
		view = accountView(account, grant)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Delete removes an account (requires the All tier). Transaction history is
// kept where possible: references to the account are nulled out, and only
// transactions whose other side is already external are deleted, so that no
// transaction ends up without any account. Categories orphaned by those
// deletions are collected in the same unit of work.
func (s *AccountService) Delete(userID, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		_, grant, err := s.load(tx, userID, id)
		if err != nil {
			return err
		}
		if grant.Permissions != models.PermissionAll {
			return ErrForbidden
		}

		var doomed []models.Transaction
		err = tx.
			Where("(source_account_id = ? AND destination_account_id IS NULL) OR (destination_account_id = ? AND source_account_id IS NULL)", id, id).
			Find(&doomed).Error
		if err != nil {
			return err
		}
		for _, t := range doomed {
			if err := tx.Where("transaction_id = ?", t.ID).Delete(&models.TransactionLine{}).Error; err != nil {
				return err
			}
			if err := tx.Where("transaction_id = ?", t.ID).Delete(&models.TransactionIdentifier{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Transaction{}, t.ID).Error; err != nil {
				return err
			}
		}

		err = tx.Model(&models.Transaction{}).
			Where("source_account_id = ?", id).
			Update("source_account_id", nil).Error
		if err != nil {
			return err
		}
		err = tx.Model(&models.Transaction{}).
			Where("destination_account_id = ?", id).
			Update("destination_account_id", nil).Error
		if err != nil {
			return err
		}

		if err := tx.Where("account_id = ?", id).Delete(&models.UserAccount{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Account{}, id).Error; err != nil {
			return err
		}
		return tx.
			Where("NOT EXISTS (SELECT 1 FROM transactions WHERE transactions.category_id = categories.id)").
			Delete(&models.Category{}).Error
	})
}

// List returns every account the user holds a grant on, with balances.
func (s *AccountService) List(userID uint) ([]AccountView, error) {
	var grants []models.UserAccount
	err := s.db.Preload("Account").Where("user_id = ?", userID).
		Joins("JOIN accounts ON accounts.id = user_accounts.account_id").
		Order("accounts.name ASC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	views := make([]AccountView, 0, len(grants))
	for i := range grants {
		view := accountView(&grants[i].Account, &grants[i])
		balance, err := s.balance(s.db, grants[i].AccountID)
		if err != nil {
			return nil, err
		}
		view.Balance = balance
		views = append(views, *view)
	}
	return views, nil
}

// Search returns a page of the user's accounts matching the filter.
func (s *AccountService) Search(userID uint, req query.SearchRequest) (*SearchResponse[AccountView], error) {
	cond, args, err := query.Compile(req.Query, query.AccountColumns)
	if err != nil {
		return nil, validationf("%v", err)
	}
	orderBy, err := req.OrderBy(query.AccountColumns, "accounts.name")
	if err != nil {
		return nil, validationf("%v", err)
	}
	if req.From < 0 || req.To < req.From {
		return nil, validationf("invalid page window [%d, %d)", req.From, req.To)
	}

	base := func() *gorm.DB {
		db := s.db.Model(&models.UserAccount{}).
			Joins("JOIN accounts ON accounts.id = user_accounts.account_id").
			Where("user_accounts.user_id = ?", userID)
		if cond != "" {
			db = db.Where(cond, args...)
		}
		return db
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	var grants []models.UserAccount
	err = base().Select("user_accounts.*").Preload("Account").
		Order(orderBy).Offset(req.From).Limit(req.To - req.From).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}

	views := make([]AccountView, 0, len(grants))
	for i := range grants {
		views = append(views, *accountView(&grants[i].Account, &grants[i]))
	}
	return &SearchResponse[AccountView]{Data: views, TotalItems: total}, nil
}

// ListGrants returns every user's grant on the account. Requires the All
// tier, since only sharers may see who an account is shared with.
func (s *AccountService) ListGrants(userID, id uint) ([]GrantView, error) {
	_, grant, err := s.load(s.db, userID, id)
	if err != nil {
		return nil, err
	}
	if grant.Permissions != models.PermissionAll {
		return nil, ErrForbidden
	}
	var grants []models.UserAccount
	err = s.db.Preload("User").Where("account_id = ?", id).Find(&grants).Error
	if err != nil {
		return nil, err
	}
	views := make([]GrantView, 0, len(grants))
	for i := range grants {
		views = append(views, GrantView{
			UserID:      grants[i].UserID,
			Username:    grants[i].User.Username,
			Permissions: viewPermissions(grants[i].Permissions),
		})
	}
	return views, nil
}

// SetGrant shares the account with another user at the given tier, or
// changes their existing tier. Requires the All tier.
func (s *AccountService) SetGrant(userID, id uint, username string, permissions models.AccountPermissions) error {
	if permissions < models.PermissionRead || permissions > models.PermissionAll {
		return validationf("invalid permission tier %d", permissions)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		_, grant, err := s.load(tx, userID, id)
		if err != nil {
			return err
		}
		if grant.Permissions != models.PermissionAll {
			return ErrForbidden
		}
		var target models.User
		err = tx.Where("LOWER(username) = LOWER(?)", username).First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationf("unknown user %q", username)
		}
		if err != nil {
			return err
		}
		var existing models.UserAccount
		err = tx.Where("user_id = ? AND account_id = ?", target.ID, id).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.UserAccount{
				UserID:      target.ID,
				AccountID:   id,
				Permissions: permissions,
			}).Error
		}
		if err != nil {
			return err
		}
		existing.Permissions = permissions
		return tx.Save(&existing).Error
	})
}

// load fetches the account together with the acting user's grant,
// ErrNotFound when the user has no grant (existence is concealed).
func (s *AccountService) load(tx *gorm.DB, userID, id uint) (*models.Account, *models.UserAccount, error) {
	var grant models.UserAccount
	err := tx.Preload("Account").Where("user_id = ? AND account_id = ?", userID, id).First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &grant.Account, &grant, nil
}

// balance is money moved into the account minus money moved out of it.
func (s *AccountService) balance(tx *gorm.DB, accountID uint) (int64, error) {
	var in, out int64
	err := tx.Model(&models.Transaction{}).
		Where("destination_account_id = ?", accountID).
		Select("COALESCE(SUM(total), 0)").Scan(&in).Error
	if err != nil {
		return 0, err
	}
	err = tx.Model(&models.Transaction{}).
		Where("source_account_id = ?", accountID).
		Select("COALESCE(SUM(total), 0)").Scan(&out).Error
	if err != nil {
		return 0, err
	}
	return in - out, nil
}
