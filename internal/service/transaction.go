package service

import (
	"errors"
	"strings"
	"time"

	"github.com/sebastianmarines/assetgridapp/internal/models"
	"github.com/sebastianmarines/assetgridapp/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClearAccount is the sentinel id meaning "clear this account reference" in
// a sparse update.
const ClearAccount = -1

// TransactionService enforces the permission-aware visibility and mutation
// rules for transactions. Every method takes the acting user id explicitly;
// there is no ambient current-user state.
type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// CreateTransaction is the input model for transaction creation. Total may
// be omitted when Lines are given, in which case it is their sum.
type CreateTransaction struct {
	SourceID      *uint                 `json:"sourceId"`
	DestinationID *uint                 `json:"destinationId"`
	DateTime      time.Time             `json:"dateTime"`
	Description   string                `json:"description"`
	Category      string                `json:"category"`
	Total         *int64                `json:"total"`
	Identifiers   []string              `json:"identifiers"`
	Lines         []TransactionLineView `json:"lines"`
}

// UpdateTransaction is a sparse patch: only non-nil fields are applied.
// Account ids use ClearAccount to null out a reference. Supplying Lines
// replaces the whole line set.
type UpdateTransaction struct {
	SourceID      *int64                 `json:"sourceId"`
	DestinationID *int64                 `json:"destinationId"`
	DateTime      *time.Time             `json:"dateTime"`
	Description   *string                `json:"description"`
	Category      *string                `json:"category"`
	Total         *int64                 `json:"total"`
	Identifiers   *[]string              `json:"identifiers"`
	Lines         *[]TransactionLineView `json:"lines"`
}

// CreateManyResponse partitions a batch creation into per-item outcomes.
// Items are independent attempts; there is no atomicity across the batch.
type CreateManyResponse struct {
	Succeeded []CreateTransaction `json:"succeeded"`
	Duplicate []CreateTransaction `json:"duplicate"`
	Failed    []CreateTransaction `json:"failed"`
}

// grantSubquery selects the ids of all accounts the user holds any grant on.
func grantSubquery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.UserAccount{}).
		Select("account_id").
		Where("user_id = ?", userID)
}

// visible restricts a transaction query to rows the user may see: any grant
// (Read or above) on the source or the destination account.
func visible(db *gorm.DB, userID uint) *gorm.DB {
	sub := grantSubquery(db, userID)
	return db.Where(
		"transactions.source_account_id IN (?) OR transactions.destination_account_id IN (?)",
		sub, sub,
	)
}

// grantFor loads the user's grant on an account, nil when there is none.
func grantFor(tx *gorm.DB, userID uint, accountID *uint) (*models.UserAccount, error) {
	if accountID == nil {
		return nil, nil
	}
	var grant models.UserAccount
	err := tx.Where("user_id = ? AND account_id = ?", userID, *accountID).First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func canModify(grant *models.UserAccount) bool {
	return grant != nil && grant.Permissions.CanModifyTransactions()
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("transaction_lines.line_order ASC")
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", orderedLines).
		Preload("Identifiers").
		Preload("SourceAccount").
		Preload("DestinationAccount").
		Preload("Category")
}

// Get returns the transaction if the user may see it, ErrNotFound otherwise.
func (s *TransactionService) Get(userID, id uint) (*TransactionView, error) {
	var t models.Transaction
	err := visible(withAssociations(s.db), userID).First(&t, "transactions.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.view(s.db, &t, userID)
}

// Create validates and stores a new transaction. Preconditions in order:
// shape (one side set, sides differ), visibility-scoped duplicate
// identifiers, then ModifyTransactions or better on every referenced
// account. Nothing is written when any of them fails.
func (s *TransactionService) Create(userID uint, model CreateTransaction) (*TransactionView, error) {
	var view *TransactionView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		v, err := s.create(tx, userID, model)
		view = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *TransactionService) create(tx *gorm.DB, userID uint, model CreateTransaction) (*TransactionView, error) {
	if model.SourceID == nil && model.DestinationID == nil {
		return nil, validationf("either source or destination must be set")
	}
	if model.SourceID != nil && model.DestinationID != nil && *model.SourceID == *model.DestinationID {
		return nil, validationf("source and destination must be different")
	}

	identifiers := cleanIdentifiers(model.Identifiers)
	if len(identifiers) > 0 {
		duplicates, err := s.findDuplicates(tx, userID, identifiers)
		if err != nil {
			return nil, err
		}
		if len(duplicates) > 0 {
			return nil, ErrDuplicate
		}
	}

	for _, accountID := range []*uint{model.SourceID, model.DestinationID} {
		if accountID == nil {
			continue
		}
		grant, err := grantFor(tx, userID, accountID)
		if err != nil {
			return nil, err
		}
		if !canModify(grant) {
			return nil, ErrForbidden
		}
	}

	total := int64(0)
	if model.Total != nil {
		total = *model.Total
	} else {
		for _, line := range model.Lines {
			total += line.Amount
		}
	}

	t := models.Transaction{
		SourceAccountID:      model.SourceID,
		DestinationAccountID: model.DestinationID,
		DateTime:             model.DateTime,
		Description:          model.Description,
		Total:                total,
	}
	for i, line := range model.Lines {
		t.Lines = append(t.Lines, models.TransactionLine{
			Order:       i + 1,
			Amount:      line.Amount,
			Description: line.Description,
		})
	}
	for _, identifier := range identifiers {
		t.Identifiers = append(t.Identifiers, models.TransactionIdentifier{Identifier: identifier})
	}

	// Always store transactions in a format where the total is positive.
	t.NormalizeSign()

	category, err := findOrCreateCategory(tx, model.Category)
	if err != nil {
		return nil, err
	}
	if category != nil {
		t.CategoryID = &category.ID
		t.Category = category
	}

	if err := t.Validate(); err != nil {
		return nil, validationf("%v", err)
	}
	if err := tx.Create(&t).Error; err != nil {
		return nil, err
	}
	return s.loadView(tx, t.ID, userID)
}

// CreateMany attempts each creation independently and partitions the inputs
// into succeeded, duplicate and failed buckets. Unlike the bulk mutations
// this reports per-item outcomes.
func (s *TransactionService) CreateMany(userID uint, items []CreateTransaction) (*CreateManyResponse, error) {
	resp := &CreateManyResponse{
		Succeeded: []CreateTransaction{},
		Duplicate: []CreateTransaction{},
		Failed:    []CreateTransaction{},
	}
	for _, item := range items {
		_, err := s.Create(userID, item)
		switch {
		case err == nil:
			resp.Succeeded = append(resp.Succeeded, item)
		case errors.Is(err, ErrDuplicate):
			resp.Duplicate = append(resp.Duplicate, item)
		default:
			resp.Failed = append(resp.Failed, item)
		}
	}
	return resp, nil
}

// Update applies a sparse patch to one transaction and returns its full
// current state. A user with no grant on either side gets ErrNotFound, a
// user with only Read on both sides gets ErrForbidden; moving a reference to
// a new account additionally requires write permission on that account.
func (s *TransactionService) Update(userID, id uint, patch UpdateTransaction) (*TransactionView, error) {
	var view *TransactionView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		v, err := s.update(tx, userID, id, patch)
		view = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *TransactionService) update(tx *gorm.DB, userID, id uint, patch UpdateTransaction) (*TransactionView, error) {
	var t models.Transaction
	err := tx.Preload("Lines", orderedLines).Preload("Identifiers").First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sourceGrant, err := grantFor(tx, userID, t.SourceAccountID)
	if err != nil {
		return nil, err
	}
	destinationGrant, err := grantFor(tx, userID, t.DestinationAccountID)
	if err != nil {
		return nil, err
	}
	if sourceGrant == nil && destinationGrant == nil {
		// No grant on either side: the transaction's existence is hidden.
		return nil, ErrNotFound
	}
	if !canModify(sourceGrant) && !canModify(destinationGrant) {
		return nil, ErrForbidden
	}

	// Moving a reference to a new account requires write permission there
	// too, checked before anything is touched.
	for _, id := range []*int64{patch.SourceID, patch.DestinationID} {
		if id == nil || *id == ClearAccount {
			continue
		}
		if *id <= 0 {
			return nil, validationf("invalid account id %d", *id)
		}
		newID := uint(*id)
		grant, err := grantFor(tx, userID, &newID)
		if err != nil {
			return nil, err
		}
		if !canModify(grant) {
			return nil, ErrForbidden
		}
	}

	if patch.DateTime != nil {
		t.DateTime = *patch.DateTime
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.SourceID != nil {
		if *patch.SourceID == ClearAccount {
			t.SourceAccountID = nil
		} else {
			v := uint(*patch.SourceID)
			t.SourceAccountID = &v
		}
		t.SourceAccount = nil
	}
	if patch.DestinationID != nil {
		if *patch.DestinationID == ClearAccount {
			t.DestinationAccountID = nil
		} else {
			v := uint(*patch.DestinationID)
			t.DestinationAccountID = &v
		}
		t.DestinationAccount = nil
	}

	identifiersChanged := false
	if patch.Identifiers != nil {
		identifiersChanged = true
		t.Identifiers = nil
		for _, identifier := range cleanIdentifiers(*patch.Identifiers) {
			t.Identifiers = append(t.Identifiers, models.TransactionIdentifier{
				TransactionID: t.ID,
				Identifier:    identifier,
			})
		}
	}

	var previousCategory *uint
	categoryChanged := false
	if patch.Category != nil {
		previousCategory = t.CategoryID
		categoryChanged = true
		category, err := findOrCreateCategory(tx, *patch.Category)
		if err != nil {
			return nil, err
		}
		if category == nil {
			t.CategoryID = nil
			t.Category = nil
		} else {
			t.CategoryID = &category.ID
			t.Category = category
		}
	}

	// A split transaction's total is derived from its lines, so a bare total
	// is only honored while the transaction has no lines.
	if patch.Total != nil && len(t.Lines) == 0 && patch.Lines == nil {
		t.Total = *patch.Total
		t.NormalizeSign()
	}
	linesChanged := false
	if patch.Lines != nil {
		if patch.Total != nil {
			t.Total = *patch.Total
		}
		linesChanged = true
		t.Lines = nil
		for i, line := range *patch.Lines {
			t.Lines = append(t.Lines, models.TransactionLine{
				TransactionID: t.ID,
				Order:         i + 1,
				Amount:        line.Amount,
				Description:   line.Description,
			})
		}
		t.NormalizeSign()
	}

	if err := t.Validate(); err != nil {
		return nil, validationf("%v", err)
	}

	if linesChanged {
		if err := tx.Where("transaction_id = ?", t.ID).Delete(&models.TransactionLine{}).Error; err != nil {
			return nil, err
		}
		if len(t.Lines) > 0 {
			if err := tx.Create(&t.Lines).Error; err != nil {
				return nil, err
			}
		}
	}
	if identifiersChanged {
		if err := tx.Where("transaction_id = ?", t.ID).Delete(&models.TransactionIdentifier{}).Error; err != nil {
			return nil, err
		}
		if len(t.Identifiers) > 0 {
			if err := tx.Create(&t.Identifiers).Error; err != nil {
				return nil, err
			}
		}
	}
	if err := tx.Omit(clause.Associations).Save(&t).Error; err != nil {
		return nil, err
	}

	// Categories are garbage collected as soon as their last reference goes
	// away, within the same unit of work.
	if categoryChanged && previousCategory != nil &&
		(t.CategoryID == nil || *t.CategoryID != *previousCategory) {
		if err := gcCategory(tx, *previousCategory); err != nil {
			return nil, err
		}
	}

	return s.loadView(tx, t.ID, userID)
}

// UpdateMultiple applies the patch to every transaction matching the query
// that the user can see, in one commit-or-rollback unit. Rows failing the
// per-row authorization or field rules are skipped silently: callers cannot
// distinguish "matched but forbidden" from "did not match". Storage errors
// still abort and roll back the whole call.
func (s *TransactionService) UpdateMultiple(userID uint, group *query.SearchGroup, patch UpdateTransaction) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		ids, err := matchingIDs(tx, userID, group)
		if err != nil {
			return err
		}
		for _, id := range ids {
			_, err := s.update(tx, userID, id, patch)
			if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) && !errors.Is(err, ErrValidation) {
				return err
			}
		}
		return nil
	})
}

// Delete removes a transaction and its lines, then garbage collects its
// category. Permission rules mirror Update.
func (s *TransactionService) Delete(userID, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.delete(tx, userID, id, true)
	})
}

func (s *TransactionService) delete(tx *gorm.DB, userID, id uint, collectCategory bool) error {
	var t models.Transaction
	err := tx.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	sourceGrant, err := grantFor(tx, userID, t.SourceAccountID)
	if err != nil {
		return err
	}
	destinationGrant, err := grantFor(tx, userID, t.DestinationAccountID)
	if err != nil {
		return err
	}
	if sourceGrant == nil && destinationGrant == nil {
		return ErrNotFound
	}
	if !canModify(sourceGrant) && !canModify(destinationGrant) {
		return ErrForbidden
	}

	if err := tx.Where("transaction_id = ?", id).Delete(&models.TransactionLine{}).Error; err != nil {
		return err
	}
	if err := tx.Where("transaction_id = ?", id).Delete(&models.TransactionIdentifier{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.Transaction{}, id).Error; err != nil {
		return err
	}
	if collectCategory && t.CategoryID != nil {
		return gcCategory(tx, *t.CategoryID)
	}
	return nil
}

// DeleteMultiple deletes every matching visible transaction the user may
// modify, silently skipping the rest. The category garbage collection pass
// runs once at the end across all deletions.
func (s *TransactionService) DeleteMultiple(userID uint, group *query.SearchGroup) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		ids, err := matchingIDs(tx, userID, group)
		if err != nil {
			return err
		}
		for _, id := range ids {
			err := s.delete(tx, userID, id, false)
			if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) {
				return err
			}
		}
		return tx.
			Where("NOT EXISTS (SELECT 1 FROM transactions WHERE transactions.category_id = categories.id)").
			Delete(&models.Category{}).Error
	})
}

// Search returns a page of visible transactions matching the filter, plus
// the unpaginated match count.
func (s *TransactionService) Search(userID uint, req query.SearchRequest) (*SearchResponse[TransactionView], error) {
	cond, args, err := query.Compile(req.Query, query.TransactionColumns)
	if err != nil {
		return nil, validationf("%v", err)
	}
	orderBy, err := req.OrderBy(query.TransactionColumns, "transactions.date_time")
	if err != nil {
		return nil, validationf("%v", err)
	}
	if req.From < 0 || req.To < req.From {
		return nil, validationf("invalid page window [%d, %d)", req.From, req.To)
	}

	base := func() *gorm.DB {
		db := s.db.Model(&models.Transaction{}).
			Joins("LEFT JOIN categories ON categories.id = transactions.category_id")
		db = visible(db, userID)
		if cond != "" {
			db = db.Where(cond, args...)
		}
		return db
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	err = withAssociations(base().Select("transactions.*").Order(orderBy).Offset(req.From).Limit(req.To-req.From)).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	grants, err := s.grantsFor(s.db, userID, &transactions)
	if err != nil {
		return nil, err
	}
	views := make([]TransactionView, 0, len(transactions))
	for i := range transactions {
		views = append(views, *buildView(&transactions[i], grants))
	}
	return &SearchResponse[TransactionView]{Data: views, TotalItems: total}, nil
}

// Export returns every transaction visible to the user, oldest first.
func (s *TransactionService) Export(userID uint) ([]TransactionView, error) {
	db := s.db.Model(&models.Transaction{}).Select("transactions.*")
	var transactions []models.Transaction
	err := withAssociations(visible(db, userID)).
		Order("transactions.date_time ASC, transactions.id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	grants, err := s.grantsFor(s.db, userID, &transactions)
	if err != nil {
		return nil, err
	}
	views := make([]TransactionView, 0, len(transactions))
	for i := range transactions {
		views = append(views, *buildView(&transactions[i], grants))
	}
	return views, nil
}

// FindDuplicates returns the subset of the given identifiers already used by
// a transaction visible to the user. Identifiers on wholly inaccessible
// transactions are not reported.
func (s *TransactionService) FindDuplicates(userID uint, identifiers []string) ([]string, error) {
	return s.findDuplicates(s.db, userID, identifiers)
}

func (s *TransactionService) findDuplicates(tx *gorm.DB, userID uint, identifiers []string) ([]string, error) {
	found := []string{}
	if len(identifiers) == 0 {
		return found, nil
	}
	sub := grantSubquery(tx, userID)
	err := tx.Model(&models.TransactionIdentifier{}).
		Distinct().
		Joins("JOIN transactions ON transactions.id = transaction_identifiers.transaction_id").
		Where("transaction_identifiers.identifier IN ?", identifiers).
		Where("transactions.source_account_id IN (?) OR transactions.destination_account_id IN (?)", sub, sub).
		Pluck("transaction_identifiers.identifier", &found).Error
	if err != nil {
		return nil, err
	}
	return found, nil
}

// CategoryAutocomplete returns the distinct category names matching the
// prefix, drawn only from transactions visible to the user so that names
// never leak from inaccessible data.
func (s *TransactionService) CategoryAutocomplete(userID uint, prefix string) ([]string, error) {
	names := []string{}
	db := s.db.Model(&models.Transaction{}).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("LOWER(categories.name) LIKE ?", "%"+strings.ToLower(prefix)+"%")
	err := visible(db, userID).
		Distinct().
		Order("categories.name ASC").
		Pluck("categories.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// matchingIDs resolves query-matched ∩ visible-to-user transaction ids.
func matchingIDs(tx *gorm.DB, userID uint, group *query.SearchGroup) ([]uint, error) {
	cond, args, err := query.Compile(group, query.TransactionColumns)
	if err != nil {
		return nil, validationf("%v", err)
	}
	db := tx.Model(&models.Transaction{}).
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id")
	db = visible(db, userID)
	if cond != "" {
		db = db.Where(cond, args...)
	}
	var ids []uint
	if err := db.Pluck("transactions.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *TransactionService) loadView(tx *gorm.DB, id, userID uint) (*TransactionView, error) {
	var t models.Transaction
	if err := withAssociations(tx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return s.view(tx, &t, userID)
}

func (s *TransactionService) view(tx *gorm.DB, t *models.Transaction, userID uint) (*TransactionView, error) {
	transactions := []models.Transaction{*t}
	grants, err := s.grantsFor(tx, userID, &transactions)
	if err != nil {
		return nil, err
	}
	return buildView(t, grants), nil
}

// grantsFor fetches the user's grants for every account referenced by the
// given transactions, keyed by account id.
func (s *TransactionService) grantsFor(tx *gorm.DB, userID uint, transactions *[]models.Transaction) (map[uint]*models.UserAccount, error) {
	idSet := map[uint]struct{}{}
	for i := range *transactions {
		t := &(*transactions)[i]
		if t.SourceAccountID != nil {
			idSet[*t.SourceAccountID] = struct{}{}
		}
		if t.DestinationAccountID != nil {
			idSet[*t.DestinationAccountID] = struct{}{}
		}
	}
	grants := map[uint]*models.UserAccount{}
	if len(idSet) == 0 {
		return grants, nil
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	var rows []models.UserAccount
	err := tx.Where("user_id = ? AND account_id IN ?", userID, ids).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		grants[rows[i].AccountID] = &rows[i]
	}
	return grants, nil
}

func buildView(t *models.Transaction, grants map[uint]*models.UserAccount) *TransactionView {
	view := &TransactionView{
		ID:          t.ID,
		DateTime:    t.DateTime,
		Description: t.Description,
		Total:       t.Total,
		Identifiers: []string{},
		Lines:       []TransactionLineView{},
	}
	if t.Category != nil {
		view.Category = t.Category.Name
	}
	if t.SourceAccountID != nil {
		if t.SourceAccount != nil {
			view.Source = accountView(t.SourceAccount, grants[*t.SourceAccountID])
		} else {
			view.Source = noReadAccessAccount(*t.SourceAccountID)
		}
	}
	if t.DestinationAccountID != nil {
		if t.DestinationAccount != nil {
			view.Destination = accountView(t.DestinationAccount, grants[*t.DestinationAccountID])
		} else {
			view.Destination = noReadAccessAccount(*t.DestinationAccountID)
		}
	}
	for _, identifier := range t.Identifiers {
		view.Identifiers = append(view.Identifiers, identifier.Identifier)
	}
	for _, line := range t.Lines {
		view.Lines = append(view.Lines, TransactionLineView{
			Amount:      line.Amount,
			Description: line.Description,
		})
	}
	return view
}

// findOrCreateCategory resolves a category by its normalized name, creating
// the row on first use. An empty normalized name means "no category".
func findOrCreateCategory(tx *gorm.DB, name string) (*models.Category, error) {
	normalized := models.NormalizeCategoryName(name)
	if normalized == "" {
		return nil, nil
	}
	var category models.Category
	err := tx.Where("normalized_name = ?", normalized).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = models.Category{
			Name:           strings.TrimSpace(name),
			NormalizedName: normalized,
		}
		if err := tx.Create(&category).Error; err != nil {
			return nil, err
		}
		return &category, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// gcCategory deletes the category when no transaction references it anymore.
func gcCategory(tx *gorm.DB, categoryID uint) error {
	var count int64
	err := tx.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Delete(&models.Category{}, categoryID).Error
}

// cleanIdentifiers trims, drops blanks and deduplicates while preserving
// order.
func cleanIdentifiers(identifiers []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		identifier = strings.TrimSpace(identifier)
		if identifier == "" {
			continue
		}
		if _, ok := seen[identifier]; ok {
			continue
		}
		seen[identifier] = struct{}{}
		out = append(out, identifier)
	}
	return out
}
