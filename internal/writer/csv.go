// Package writer serializes parse results to CSV for the UI and CLI.
package writer

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
)

// CSVWriter writes reconciled transactions in CSV form.
type CSVWriter struct {
	// IncludeHeader prepends statement metadata as comment-style rows.
	IncludeHeader bool
}

// WriteToFile writes the result to a CSV file at path.
func (w *CSVWriter) WriteToFile(path string, result *models.ParseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create output file %q", path)
	}
	defer f.Close()
	return w.Write(f, result)
}

// Write writes the result in CSV form to out. Quote escaping is handled
// by encoding/csv; descriptions pass through untouched.
func (w *CSVWriter) Write(out io.Writer, result *models.ParseResult) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	md := result.Metadata
	if w.IncludeHeader {
		rows := [][]string{
			{"# Bank", md.Bank},
			{"# Account Number", md.AccountNumber},
			{"# Client Name", md.ClientName},
			{"# Statement ID", md.StatementID},
		}
		if md.OpeningBalance != nil {
			rows = append(rows, []string{"# Opening Balance", md.OpeningBalance.StringFixed(2)})
		}
		if md.ClosingBalance != nil {
			rows = append(rows, []string{"# Closing Balance", md.ClosingBalance.StringFixed(2)})
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return errors.Wrap(err, "write metadata row")
			}
		}
	}

	header := []string{"Date", "Description", "Amount", "Balance", "Account", "Client Name", "Bank", "Source File"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, txn := range result.Transactions {
		row := []string{
			txn.Date.Slash(),
			txn.Description,
			txn.Amount.StringFixed(2),
			txn.Balance.StringFixed(2),
			txn.Account,
			txn.ClientName,
			txn.Bank,
			txn.SourceFile,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	cw.Flush()
	return cw.Error()
}
