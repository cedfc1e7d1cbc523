package reader

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// nubankRow is one line of a Nubank card export.
type nubankRow struct {
	Date   string `csv:"date"`
	Title  string `csv:"title"`
	Amount string `csv:"amount"`
}

// parseNubank converts a Nubank card export. Card exports carry charges as
// positive values, so the sign is flipped: purchases become negative
// amounts, payments and refunds positive.
func parseNubank(r io.Reader, logger logging.Logger) ([]models.Transaction, error) {
	var rows []*nubankRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		logger.WithError(err).Error("Failed to read Nubank CSV")
		return nil, fmt.Errorf("error reading Nubank CSV: %w", err)
	}

	var txs []models.Transaction
	for _, row := range rows {
		if row.Date == "" {
			continue
		}
		tx, err := convertNubankRow(*row)
		if err != nil {
			logger.WithError(err).Warn("Failed to convert row to transaction, skipping")
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func convertNubankRow(row nubankRow) (models.Transaction, error) {
	date, err := time.Parse("2006-01-02", row.Date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid date %q: %w", row.Date, err)
	}
	amount, err := decimal.NewFromString(normalizeAmount(row.Amount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", row.Amount, err)
	}

	tx := models.NewTransaction(date, amount.Neg(), row.Title)
	return tx, nil
}
