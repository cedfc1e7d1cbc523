// Package reader loads bank statement CSV exports into transactions. Two
// layouts are supported: the Nubank card export (date,title,amount) and a
// generic statement layout with Portuguese headers (Data, Descrição, Valor
// and an optional Categoria). The layout is detected from the header row.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// ParseFile reads a statement CSV and returns its transactions. Rows that
// cannot be converted are skipped with a warning; only an unreadable file or
// unrecognized header is an error.
func ParseFile(path string, logger logging.Logger) ([]models.Transaction, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger = logger.WithField(logging.FieldComponent, "reader")
	logger.WithField(logging.FieldInputFile, path).Info("Reading statement CSV")

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error opening statement file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close statement file")
		}
	}()

	header, err := peekHeader(file)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	switch {
	case isNubankHeader(header):
		txs, err = parseNubank(file, logger)
	case isGenericHeader(header):
		txs, err = parseGeneric(file, logger)
	default:
		return nil, fmt.Errorf("unrecognized statement layout: %s", header)
	}
	if err != nil {
		return nil, err
	}

	logger.WithField(logging.FieldCount, len(txs)).Info("Statement loaded")
	return txs, nil
}

// peekHeader reads the first line without consuming the file.
func peekHeader(file *os.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if n == 0 && err != nil {
		return "", fmt.Errorf("error reading statement header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("error rewinding statement file: %w", err)
	}

	header := string(buf[:n])
	if idx := strings.IndexAny(header, "\r\n"); idx >= 0 {
		header = header[:idx]
	}
	return strings.TrimPrefix(header, "\ufeff"), nil
}

func isNubankHeader(header string) bool {
	lowered := strings.ToLower(header)
	return strings.Contains(lowered, "date") &&
		strings.Contains(lowered, "title") &&
		strings.Contains(lowered, "amount")
}

func isGenericHeader(header string) bool {
	lowered := strings.ToLower(header)
	return strings.Contains(lowered, "data") &&
		(strings.Contains(lowered, "descri") || strings.Contains(lowered, "hist")) &&
		strings.Contains(lowered, "valor")
}
