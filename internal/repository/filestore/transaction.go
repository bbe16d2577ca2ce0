package filestore

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/tierforge/tierforge/internal/domain/payment"
	ierr "github.com/tierforge/tierforge/internal/errors"
)

type TransactionRepository struct {
	store *docStore[payment.Transaction]
}

var _ payment.Repository = (*TransactionRepository)(nil)

func NewTransactionRepository(baseDir string) (*TransactionRepository, error) {
	store, err := newDocStore[payment.Transaction](baseDir, "transactions")
	if err != nil {
		return nil, err
	}
	return &TransactionRepository{store: store}, nil
}

func (r *TransactionRepository) Create(ctx context.Context, txn *payment.Transaction) error {
	if r.store.exists(txn.ID) {
		return ierr.NewErrorf("transaction %s already exists", txn.ID).
			WithReportableDetails(map[string]interface{}{"transaction_id": txn.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return r.store.write(ctx, txn.ID, txn)
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (*payment.Transaction, error) {
	return r.store.read(ctx, id)
}

func (r *TransactionRepository) Update(ctx context.Context, txn *payment.Transaction) error {
	if !r.store.exists(txn.ID) {
		return ierr.NewErrorf("transaction %s not found", txn.ID).
			WithReportableDetails(map[string]interface{}{"transaction_id": txn.ID}).
			Mark(ierr.ErrNotFound)
	}
	return r.store.write(ctx, txn.ID, txn)
}

func (r *TransactionRepository) List(ctx context.Context, filter *payment.TransactionFilter) ([]*payment.Transaction, error) {
	all, err := r.store.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*payment.Transaction, 0, len(all))
	for _, txn := range all {
		if !matches(txn, filter) {
			continue
		}
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if filter == nil {
		return out, nil
	}
	return applyPagination(out, filter.QueryFilter), nil
}

func (r *TransactionRepository) ListByParent(ctx context.Context, parentID string) ([]*payment.Transaction, error) {
	all, err := r.store.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*payment.Transaction, 0)
	for _, txn := range all {
		if txn.ParentID == parentID {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(ctx, id)
}

func matches(txn *payment.Transaction, filter *payment.TransactionFilter) bool {
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
