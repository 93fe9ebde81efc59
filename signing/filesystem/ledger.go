package filesystem

import (
	"time"

	"github.com/pentasign/pentasign-sdk/signing/entities"
)

// Ledger represents the YAML structure of a signing ledger.
type Ledger struct {
	Generated time.Time              `yaml:"generated"`
	Entries   map[string]LedgerEntry `yaml:"entries"`
	Version   string                 `yaml:"ledger_version"`
}

// LedgerEntry represents one signing event in YAML.
type LedgerEntry struct {
	SignedAt       time.Time `yaml:"signed_at"`
	ID             string    `yaml:"id"`
	DocHash        string    `yaml:"digest"`
	Sofi           string    `yaml:"sofi"`
	KeyFingerprint string    `yaml:"key_fingerprint"`
	Scheme         string    `yaml:"scheme,omitempty"`
	ArchivePath    string    `yaml:"archive,omitempty"`
}

// ToEntity converts the ledger to a domain entity.
func (l *Ledger) ToEntity() *entities.Ledger {
	entity := &entities.Ledger{
		Generated: l.Generated,
		Version:   l.Version,
		Entries:   make(map[string]entities.LedgerEntry, len(l.Entries)),
	}

	for name, e := range l.Entries {
		entity.Entries[name] = entities.LedgerEntry{
			SignedAt:       e.SignedAt,
			ID:             e.ID,
			DocHash:        e.DocHash,
			Sofi:           e.Sofi,
			KeyFingerprint: e.KeyFingerprint,
			Scheme:         e.Scheme,
			ArchivePath:    e.ArchivePath,
		}
	}

	return entity
}

// FromEntity converts a domain ledger to YAML representation.
func FromEntity(entity *entities.Ledger) *Ledger {
	if entity == nil {
		return nil
	}

	l := &Ledger{
		Generated: entity.Generated,
		Version:   entity.Version,
		Entries:   make(map[string]LedgerEntry, len(entity.Entries)),
	}

	for name, e := range entity.Entries {
		l.Entries[name] = LedgerEntry{
			SignedAt:       e.SignedAt,
			ID:             e.ID,
			DocHash:        e.DocHash,
			Sofi:           e.Sofi,
			KeyFingerprint: e.KeyFingerprint,
			Scheme:         e.Scheme,
			ArchivePath:    e.ArchivePath,
		}
	}

	return l
}
