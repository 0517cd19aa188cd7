// Package export renders a group's expenses as a spreadsheet-friendly CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/money"
)

// ErrNothingToExport is returned for a group without expenses.
var ErrNothingToExport = errors.New("no expenses to export")

var unsafeFilenameChars = regexp.MustCompile(`(?i)[^a-z0-9]`)

// Filename is the suggested download name for a group's export.
func Filename(group *models.Group) string {
	return strings.ToLower(unsafeFilenameChars.ReplaceAllString(group.Name, "_")) + "_expenses.csv"
}

// WriteGroupCSV writes one row per expense with a column per current member
// showing what they owe. names maps user IDs to display names.
func WriteGroupCSV(w io.Writer, group *models.Group, expenses []*models.Expense, names map[string]string) error {
	if len(expenses) == 0 {
		return ErrNothingToExport
	}

	cur := group.MasterCurrency
	header := []string{
		"Date",
		"Description",
		"Paid By",
		fmt.Sprintf("Amount (%s)", cur),
		"Original Amount",
		"Original Currency",
		"Conversion Rate",
		"Tags",
	}
	for _, id := range group.Members {
		header = append(header, fmt.Sprintf("Owed by %s (%s)", memberName(id, names), cur))
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range expenses {
		paidBy, ok := names[e.PaidBy]
		if !ok {
			paidBy = "Unknown"
		}
		rate := "N/A"
		if e.ConversionRate != nil {
			rate = fmt.Sprintf("%.6f", *e.ConversionRate)
		}

		row := []string{
			e.Date.Format("2006-01-02"),
			e.Description,
			paidBy,
			money.FormatPlain(e.Amount),
			money.FormatPlain(e.OriginalAmount),
			e.OriginalCurrency,
			rate,
			strings.Join(e.Tags, ", "),
		}
		for _, id := range group.Members {
			row = append(row, money.FormatPlain(e.ShareOf(id)))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func memberName(id string, names map[string]string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	short := id
	if len(short) > 5 {
		short = short[:5]
	}
	return fmt.Sprintf("Unknown User (%s)", short)
}
