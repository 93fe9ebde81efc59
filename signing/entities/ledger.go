package entities

import (
	"fmt"
	"time"
)

// CurrentLedgerVersion is the ledger format written by this module.
const CurrentLedgerVersion = "1.0.0"

// Ledger is an aggregate root recording which documents were signed, by
// which identity and with which ephemeral key.
//
// Invariants:
// - Each entry must have a digest
// - Generated timestamp must be set when entries exist
type Ledger struct {
	Generated time.Time
	Entries   map[string]LedgerEntry
	Version   string
}

// LedgerEntry is a value object describing one signing event.
// Immutable after creation.
type LedgerEntry struct {
	SignedAt       time.Time
	ID             string
	DocHash        string // sha256:<hex>
	Sofi           string
	KeyFingerprint string
	Scheme         string
	ArchivePath    string
}

// NewLedger creates a new ledger with the current format version.
func NewLedger() *Ledger {
	return &Ledger{
		Version:   CurrentLedgerVersion,
		Generated: time.Now().UTC(),
		Entries:   make(map[string]LedgerEntry),
	}
}

// AddEntry adds or replaces the entry recorded under name.
// Returns error if digest is empty (invariant enforcement).
func (l *Ledger) AddEntry(name string, entry LedgerEntry) error {
	if entry.DocHash == "" {
		return fmt.Errorf("entry %q: digest is required", name)
	}
	if l.Entries == nil {
		l.Entries = make(map[string]LedgerEntry)
	}
	l.Entries[name] = entry
	return nil
}

// GetEntry retrieves an entry by name.
// Returns nil if not found.
func (l *Ledger) GetEntry(name string) *LedgerEntry {
	if l.Entries == nil {
		return nil
	}
	if entry, ok := l.Entries[name]; ok {
		return &entry
	}
	return nil
}

// FindByDigest returns the names of all entries for a digest, unordered.
func (l *Ledger) FindByDigest(docHash string) []string {
	var names []string
	for name, entry := range l.Entries {
		if entry.DocHash == docHash {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks ledger invariants.
func (l *Ledger) Validate() error {
	if l.EntryCount() > 0 && l.Generated.IsZero() {
		return fmt.Errorf("generated timestamp is required")
	}
	for name, entry := range l.Entries {
		if entry.DocHash == "" {
			return fmt.Errorf("entry %q: digest is required", name)
		}
	}
	return nil
}

// EntryCount returns the number of recorded entries.
func (l *Ledger) EntryCount() int {
	return len(l.Entries)
}
