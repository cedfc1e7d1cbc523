package reader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// outputRow is the categorized CSV layout written back to disk. It matches
// the generic input layout so categorized files can be re-ingested with
// their categories preset.
type outputRow struct {
	Data      string `csv:"Data"`
	Descricao string `csv:"Descrição"`
	Valor     string `csv:"Valor"`
	Categoria string `csv:"Categoria"`
	Fonte     string `csv:"Fonte"`
}

// WriteFile writes categorized transactions as CSV.
func WriteFile(path string, txs []models.Transaction, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger = logger.WithField(logging.FieldComponent, "reader")

	rows := make([]*outputRow, len(txs))
	for i, tx := range txs {
		rows[i] = &outputRow{
			Data:      tx.Date.Format("2006-01-02"),
			Descricao: tx.Description,
			Valor:     tx.Amount.StringFixed(2),
			Categoria: string(tx.Category),
			Fonte:     string(tx.Source),
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close output file")
		}
	}()

	if err := gocsv.Marshal(rows, file); err != nil {
		return fmt.Errorf("error writing categorized CSV: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
	).Info("Categorized CSV written")
	return nil
}
