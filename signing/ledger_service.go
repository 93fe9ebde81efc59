package signing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/ports"
)

// LedgerService records signing events in a ledger file.
type LedgerService struct {
	repo ports.LedgerRepository
	now  func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(repo ports.LedgerRepository) *LedgerService {
	return &LedgerService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Record adds an entry for result under name and saves the ledger,
// creating it when absent. Recording the same name again replaces the entry.
func (s *LedgerService) Record(
	ctx context.Context,
	ledgerPath string,
	name string,
	scheme string,
	result *entities.SigningResult,
	archivePath string,
) (*entities.LedgerEntry, error) {
	if result == nil || result.Bundle == nil {
		return nil, fmt.Errorf("recording %q: no signing result", name)
	}

	ledger, err := s.repo.Load(ctx, ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	if ledger == nil {
		ledger = entities.NewLedger()
	}

	bundle := result.Bundle
	entry := entities.LedgerEntry{
		ID:             uuid.NewString(),
		DocHash:        bundle.DocHash().String(),
		Sofi:           bundle.Identity().String(),
		KeyFingerprint: bundle.KeyFingerprint(),
		Scheme:         scheme,
		ArchivePath:    archivePath,
		SignedAt:       s.now(),
	}
	if err := ledger.AddEntry(name, entry); err != nil {
		return nil, err
	}

	ledger.Generated = s.now()
	if err := s.repo.Save(ctx, ledger, ledgerPath); err != nil {
		return nil, fmt.Errorf("saving ledger: %w", err)
	}

	return &entry, nil
}

// Lookup retrieves the entry recorded under name.
// Returns nil if the ledger or the entry does not exist.
func (s *LedgerService) Lookup(ctx context.Context, ledgerPath, name string) (*entities.LedgerEntry, error) {
	ledger, err := s.repo.Load(ctx, ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	if ledger == nil {
		return nil, nil
	}
	return ledger.GetEntry(name), nil
}

// Show returns the whole ledger, or an empty one when none exists yet.
func (s *LedgerService) Show(ctx context.Context, ledgerPath string) (*entities.Ledger, error) {
	ledger, err := s.repo.Load(ctx, ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	if ledger == nil {
		return entities.NewLedger(), nil
	}
	return ledger, nil
}
