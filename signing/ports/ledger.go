package ports

import (
	"context"

	"github.com/pentasign/pentasign-sdk/signing/entities"
)

// LedgerRepository manages ledger persistence.
type LedgerRepository interface {
	Load(ctx context.Context, path string) (*entities.Ledger, error)
	Save(ctx context.Context, ledger *entities.Ledger, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
