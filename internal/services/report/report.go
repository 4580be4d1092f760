// Package report renders transaction history exports.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"walletapi/internal/models"
	"walletapi/internal/repositories"
)

// Generator produces CSV exports of a wallet's ledger.
type Generator struct {
	transactions repositories.TransactionRepository
}

func NewGenerator(transactions repositories.TransactionRepository) *Generator {
	return &Generator{transactions: transactions}
}

// GenerateCSV writes the wallet's (optionally filtered) transactions as CSV,
// most recent first.
func (g *Generator) GenerateCSV(ctx context.Context, walletID uint, filter repositories.TransactionFilter) ([]byte, error) {
	txs, err := g.transactions.GetFiltered(ctx, walletID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for report: %w", err)
	}
	return renderCSV(txs)
}

func renderCSV(txs []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Id", "Date", "Type", "Amount", "Status", "Description"}); err != nil {
		return nil, err
	}
	for _, t := range txs {
		record := []string{
			fmt.Sprintf("%d", t.ID),
			t.Date.Format("2006-01-02 15:04"),
			string(t.Type),
			t.Amount.StringFixed(2),
			string(t.Status),
			t.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
