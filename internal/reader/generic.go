package reader

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// genericRow is one line of a generic statement export with Portuguese
// headers. Categoria is optional; when present it is kept as a preset
// category if it names a known label.
type genericRow struct {
	Data      string `csv:"Data"`
	Descricao string `csv:"Descrição"`
	Valor     string `csv:"Valor"`
	Categoria string `csv:"Categoria"`
}

// genericDateLayouts are tried in order when parsing the Data column.
var genericDateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

// parseGeneric converts a generic statement export. Amounts keep their sign:
// negative values are expenses, positive values income.
func parseGeneric(r io.Reader, logger logging.Logger) ([]models.Transaction, error) {
	var rows []*genericRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		logger.WithError(err).Error("Failed to read statement CSV")
		return nil, fmt.Errorf("error reading statement CSV: %w", err)
	}

	var txs []models.Transaction
	for _, row := range rows {
		if row.Data == "" {
			continue
		}
		tx, err := convertGenericRow(*row)
		if err != nil {
			logger.WithError(err).Warn("Failed to convert row to transaction, skipping")
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func convertGenericRow(row genericRow) (models.Transaction, error) {
	var date time.Time
	var err error
	for _, layout := range genericDateLayouts {
		if date, err = time.Parse(layout, row.Data); err == nil {
			break
		}
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid date %q: %w", row.Data, err)
	}

	amount, err := decimal.NewFromString(normalizeAmount(row.Valor))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", row.Valor, err)
	}

	tx := models.NewTransaction(date, amount, row.Descricao)
	if category := models.Category(strings.TrimSpace(row.Categoria)); category.Valid() {
		tx.Category = category
		tx.Source = models.SourcePreset
	}
	return tx, nil
}

// normalizeAmount turns Brazilian formatted numbers ("1.234,56", "R$ 10,00")
// into a form decimal.NewFromString accepts.
func normalizeAmount(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}
