package services

import (
	"fmt"

	"github.com/desertthunder/carvy/internal/models"
)

// TransactionService records sales and leases.
type TransactionService struct {
	transactions models.Repository[models.Transaction]
}

func NewTransactionService(transactions models.Repository[models.Transaction]) *TransactionService {
	return &TransactionService{transactions: transactions}
}

// Add stores tx, dating it now when it carries no date.
func (s *TransactionService) Add(tx *models.Transaction) error {
	if tx.TransactionDate.IsZero() {
		tx.TransactionDate = clock()
	}
	if err := models.Validate(tx); err != nil {
		return err
	}
	if err := s.transactions.Create(tx); err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) Find(id int64) (*models.Transaction, error) {
	return find(s.transactions, "transaction", id)
}

func (s *TransactionService) List() ([]*models.Transaction, error) {
	return s.transactions.ReadAll()
}

// ByType lists the transactions of kind t.
func (s *TransactionService) ByType(t models.TransactionType) ([]*models.Transaction, error) {
	all, err := s.transactions.ReadAll()
	if err != nil {
		return nil, err
	}
	return filter(all, func(tx *models.Transaction) bool { return tx.TransactionType == t }), nil
}

// ByClient lists the transactions of clientID.
func (s *TransactionService) ByClient(clientID int64) ([]*models.Transaction, error) {
	all, err := s.transactions.ReadAll()
	if err != nil {
		return nil, err
	}
	return filter(all, func(tx *models.Transaction) bool { return tx.ClientID == clientID }), nil
}
