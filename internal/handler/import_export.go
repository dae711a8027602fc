package handler

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sebastianmarines/assetgridapp/internal/service"
	"github.com/sebastianmarines/assetgridapp/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ImportExportHandler serves CSV/XLSX export of visible transactions and
// bank-statement CSV import.
type ImportExportHandler struct {
	Service *service.TransactionService
}

func NewImportExportHandler(s *service.TransactionService) *ImportExportHandler {
	return &ImportExportHandler{Service: s}
}

var exportHeader = []string{"Date", "Description", "Category", "Source", "Destination", "Total", "Identifiers"}

func exportRow(t *service.TransactionView) []string {
	source := ""
	if t.Source != nil {
		source = t.Source.Name
	}
	destination := ""
	if t.Destination != nil {
		destination = t.Destination.Name
	}
	return []string{
		t.DateTime.Format("2006-01-02"),
		t.Description,
		t.Category,
		source,
		destination,
		formatCents(t.Total),
		strings.Join(t.Identifiers, ";"),
	}
}

// formatCents renders an amount in cents as a decimal string.
func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ExportCSV writes all transactions visible to the user as CSV.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactions, err := h.Service.Export(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader)
	for i := range transactions {
		writer.Write(exportRow(&transactions[i]))
	}
}

// ExportXLSX writes all transactions visible to the user as an XLSX sheet.
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactions, err := h.Service.Export(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Transactions"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for row := range transactions {
		for col, value := range exportRow(&transactions[row]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write workbook")
		return
	}
}

// ImportCSV parses a bank statement CSV (Date, Description, Amount,
// Identifier, optional Category) and creates the rows as transactions on the
// given account. Positive amounts move money into the account, negative out.
// The response reuses the batch-creation partition so the client can see
// which rows were imported, which were already known and which failed.
func (h *ImportExportHandler) ImportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accountID, err := strconv.Atoi(c.PostForm("account_id"))
	if err != nil || accountID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account_id")
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing file")
		return
	}
	defer file.Close()

	items, parseErrors, err := parseStatement(file, uint(accountID))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	resp, err := h.Service.CreateMany(user.ID, items)
	if err != nil {
		serviceError(c, err)
		return
	}

	util.Success(c, util.Response{
		"batch_id":     uuid.NewString(),
		"succeeded":    resp.Succeeded,
		"duplicate":    resp.Duplicate,
		"failed":       resp.Failed,
		"parse_errors": parseErrors,
	})
}

// parseStatement reads statement rows into creation models. Rows that cannot
// be parsed are reported, not fatal; a malformed header is.
func parseStatement(r io.Reader, accountID uint) ([]service.CreateTransaction, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("empty file")
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "description", "amount", "identifier"} {
		if _, ok := columns[required]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", required)
		}
	}

	var items []service.CreateTransaction
	parseErrors := []string{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		field := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		dateTime, err := util.ParseTimestamp(field("date"))
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		amount, err := decimal.NewFromString(field("amount"))
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: invalid amount %q", line, field("amount")))
			continue
		}
		cents := amount.Shift(2)
		if !cents.IsInteger() {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: amount %q has more than two decimals", line, field("amount")))
			continue
		}
		identifier := field("identifier")
		if err := util.ValidateIdentifier(identifier); err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		id := accountID
		total := cents.IntPart()
		item := service.CreateTransaction{
			// The account is always the destination; a negative total makes
			// the engine swap it to the source side on store.
			DestinationID: &id,
			DateTime:      dateTime,
			Description:   field("description"),
			Total:         &total,
			Identifiers:   []string{identifier},
		}
		if i, ok := columns["category"]; ok && i < len(record) {
			item.Category = strings.TrimSpace(record[i])
		}
		items = append(items, item)
	}
	return items, parseErrors, nil
}
