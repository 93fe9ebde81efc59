// Package filesystem provides file-based repositories for the infrastructure layer.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"

	"github.com/pentasign/pentasign-sdk/signing/entities"
)

// SupportedLedgerVersions is the constraint a ledger's format version must satisfy.
const SupportedLedgerVersions = "^1"

// FileLedgerRepository implements ports.LedgerRepository using the local filesystem.
type FileLedgerRepository struct {
	supported *semver.Constraints
}

// NewFileLedgerRepository creates a new FileLedgerRepository.
func NewFileLedgerRepository() *FileLedgerRepository {
	c, err := semver.NewConstraint(SupportedLedgerVersions)
	if err != nil {
		panic(fmt.Sprintf("invalid ledger version constraint: %v", err))
	}
	return &FileLedgerRepository{supported: c}
}

// Load reads a ledger from the given path.
// A missing ledger is not an error: Load returns nil, nil.
func (r *FileLedgerRepository) Load(ctx context.Context, path string) (*entities.Ledger, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open directory %q: %w", dir, err)
	}
	defer func() { _ = root.Close() }()

	file, err := root.Open(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ledger %q: %w", base, err)
	}
	defer func() { _ = file.Close() }()

	var out Ledger
	if err := yaml.NewDecoder(file).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding ledger YAML: %w", err)
	}

	if err := r.checkVersion(out.Version); err != nil {
		return nil, err
	}

	ledger := out.ToEntity()
	if err := ledger.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger: %w", err)
	}

	return ledger, nil
}

func (r *FileLedgerRepository) checkVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid ledger version %q: %w", version, err)
	}
	if !r.supported.Check(v) {
		return fmt.Errorf("unsupported ledger version %s (want %s)", v, SupportedLedgerVersions)
	}
	return nil
}

// Save writes a ledger to the given path, creating the directory if needed.
func (r *FileLedgerRepository) Save(ctx context.Context, ledger *entities.Ledger, path string) error {
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("invalid ledger: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return fmt.Errorf("opening directory for write %q: %w", dir, err)
	}
	defer func() { _ = root.Close() }()

	base := filepath.Base(path)
	file, err := root.OpenFile(base, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating ledger %q: %w", base, err)
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	defer func() { _ = encoder.Close() }()

	if err := encoder.Encode(FromEntity(ledger)); err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	return nil
}

// Exists checks if a ledger exists at the given path.
func (r *FileLedgerRepository) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
