package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/tierforge/tierforge/internal/domain/payment"
	ierr "github.com/tierforge/tierforge/internal/errors"
)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*payment.Transaction
}

var _ payment.Repository = (*TransactionRepository)(nil)

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{transactions: make(map[string]*payment.Transaction)}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *payment.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[txn.ID]; ok {
		return ierr.NewErrorf("transaction %s already exists", txn.ID).
			WithReportableDetails(map[string]interface{}{"transaction_id": txn.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	r.transactions[txn.ID] = txn
	return nil
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (*payment.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	txn, ok := r.transactions[id]
	if !ok {
		return nil, transactionNotFound(id)
	}
	return txn, nil
}

func (r *TransactionRepository) Update(ctx context.Context, txn *payment.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[txn.ID]; !ok {
		return transactionNotFound(txn.ID)
	}
	r.transactions[txn.ID] = txn
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, filter *payment.TransactionFilter) ([]*payment.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*payment.Transaction, 0, len(r.transactions))
	for _, txn := range r.transactions {
		if !matchesFilter(txn, filter) {
			continue
		}
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if filter == nil {
		return out, nil
	}
	return paginate(out, filter.QueryFilter), nil
}

func (r *TransactionRepository) ListByParent(ctx context.Context, parentID string) ([]*payment.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*payment.Transaction, 0)
	for _, txn := range r.transactions {
		if txn.ParentID == parentID {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[id]; !ok {
		return transactionNotFound(id)
	}
	delete(r.transactions, id)
	return nil
}

func matchesFilter(txn *payment.Transaction, filter *payment.TransactionFilter) bool {
	if filter == nil {
		return true
	}
	if filter.CustomerID != "" && txn.CustomerID != filter.CustomerID {
		return false
	}
	if filter.Currency != "" && txn.Currency != filter.Currency {
		return false
	}
	if filter.ParentID != "" && txn.ParentID != filter.ParentID {
		return false
	}
	if len(filter.Types) > 0 && !lo.Contains(filter.Types, txn.Type) {
		return false
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, txn.TxStatus) {
		return false
	}
	return true
}

func transactionNotFound(id string) error {
	return ierr.NewErrorf("transaction %s not found", id).
		WithReportableDetails(map[string]interface{}{"transaction_id": id}).
		Mark(ierr.ErrNotFound)
}
