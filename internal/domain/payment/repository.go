package payment

import (
	"context"

	"github.com/tierforge/tierforge/internal/types"
)

// Repository persists transactions. Implementations must preserve the
// refunds list and status history exactly as written.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	Update(ctx context.Context, txn *Transaction) error
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	ListByParent(ctx context.Context, parentID string) ([]*Transaction, error)
	Delete(ctx context.Context, id string) error
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	*types.QueryFilter
	CustomerID string                    `json:"customer_id,omitempty" form:"customer_id"`
	Types      []types.TransactionType   `json:"types,omitempty" form:"types"`
	Statuses   []types.TransactionStatus `json:"statuses,omitempty" form:"statuses"`
	Currency   string                    `json:"currency,omitempty" form:"currency"`
	ParentID   string                    `json:"parent_id,omitempty" form:"parent_id"`
}

// NewTransactionFilter returns a filter with default pagination options.
func NewTransactionFilter() *TransactionFilter {
	return &TransactionFilter{QueryFilter: types.NewDefaultQueryFilter()}
}

// NewNoLimitTransactionFilter returns a filter without pagination.
func NewNoLimitTransactionFilter() *TransactionFilter {
	return &TransactionFilter{QueryFilter: types.NewNoLimitQueryFilter()}
}

func (f *TransactionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	for _, t := range f.Types {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
