// Package repository implements bundle archive adapters.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pentasign/pentasign-sdk/signing/dto"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

// Archive file names inside a digest directory.
const (
	BundleFile  = "bundle.json"
	PatternFile = "pattern.svg"
	DigestFile  = "digest.txt"
)

// FSBundleRepository implements ports.BundleRepository using the filesystem.
// Layout: <root>/sha256/<hex>/{bundle.json,pattern.svg,digest.txt}.
type FSBundleRepository struct {
	root string // ~/.pentasign/bundles
}

// NewFSBundleRepository creates a filesystem-based archive.
func NewFSBundleRepository(root string) (*FSBundleRepository, error) {
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".pentasign", "bundles")
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	return &FSBundleRepository{root: root}, nil
}

// Root returns the archive root directory.
func (r *FSBundleRepository) Root() string {
	return r.root
}

// Store writes the bundle, its pattern and its digest. A later signature of
// the same document replaces the earlier one.
func (r *FSBundleRepository) Store(ctx context.Context, result *entities.SigningResult) (string, error) {
	if result == nil || result.Bundle == nil {
		return "", fmt.Errorf("store: no signing result")
	}
	path, err := r.bundlePath(result.Bundle.DocHash())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(path, 0o750); err != nil {
		return "", err
	}

	data, err := dto.FromBundle(result.Bundle).MarshalIndent()
	if err != nil {
		return "", fmt.Errorf("encode bundle: %w", err)
	}
	if err := writeFileAtomic(path, BundleFile, data); err != nil {
		return "", fmt.Errorf("write bundle: %w", err)
	}
	if err := writeFileAtomic(path, PatternFile, []byte(result.Pattern.SVG)); err != nil {
		return "", fmt.Errorf("write pattern: %w", err)
	}
	if err := r.saveDigest(path, result.Bundle.DocHash()); err != nil {
		return "", err
	}

	return path, nil
}

// Find retrieves the archived bundle for a digest.
func (r *FSBundleRepository) Find(ctx context.Context, digest values.DocumentDigest) (*entities.SignatureBundle, error) {
	path, err := r.bundlePath(digest)
	if err != nil {
		return nil, err
	}

	bundlePath := filepath.Join(path, BundleFile)
	if _, err := os.Stat(bundlePath); err != nil {
		return nil, &entities.BundleNotFoundError{Digest: digest}
	}

	stored, err := r.loadDigest(path)
	if err != nil {
		return nil, err
	}
	if !stored.Equals(digest) {
		return nil, fmt.Errorf("archive entry %s records digest %s", digest.Hex(), stored.Hex())
	}

	data, err := os.ReadFile(filepath.Clean(bundlePath))
	if err != nil {
		return nil, err
	}
	var wire dto.BundleDTO
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidBundle, err)
	}
	return wire.ToEntity()
}

// PatternPath returns the location of the archived SVG for a digest.
func (r *FSBundleRepository) PatternPath(digest values.DocumentDigest) (string, error) {
	path, err := r.bundlePath(digest)
	if err != nil {
		return "", err
	}
	return filepath.Join(path, PatternFile), nil
}

// List returns the digests of all archived bundles.
func (r *FSBundleRepository) List(ctx context.Context) ([]values.DocumentDigest, error) {
	var digests []values.DocumentDigest

	algoDir := filepath.Join(r.root, "sha256")
	entries, err := os.ReadDir(algoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		d, err := values.ParseHex(entry.Name())
		if err != nil {
			continue // not an archive entry
		}
		if _, err := os.Stat(filepath.Join(algoDir, entry.Name(), BundleFile)); err != nil {
			continue
		}
		digests = append(digests, d)
	}

	return digests, nil
}

// Delete removes an archived bundle.
func (r *FSBundleRepository) Delete(ctx context.Context, digest values.DocumentDigest) error {
	path, err := r.bundlePath(digest)
	if err != nil {
		return err
	}
	return os.RemoveAll(path)
}

// Helper methods

func (r *FSBundleRepository) bundlePath(digest values.DocumentDigest) (string, error) {
	if digest.IsZero() {
		return "", fmt.Errorf("archive path: empty digest")
	}
	rel := filepath.Join("sha256", digest.Hex())

	fullPath := filepath.Join(r.root, rel)

	cleanRoot := filepath.Clean(r.root)
	cleanPath := filepath.Clean(fullPath)

	// Security: Verify the resolved path is still within the root directory
	if !strings.HasPrefix(cleanPath, cleanRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("security violation: path traversal detected for digest %q", digest.Hex())
	}

	return cleanPath, nil
}

func (r *FSBundleRepository) loadDigest(path string) (values.DocumentDigest, error) {
	cleanPath := filepath.Clean(filepath.Join(path, DigestFile))
	data, err := os.ReadFile(cleanPath) // Validated internal path
	if err != nil {
		return values.DocumentDigest{}, err
	}
	return values.ParseDigest(strings.TrimSpace(string(data)))
}

func (r *FSBundleRepository) saveDigest(path string, digest values.DocumentDigest) error {
	return writeFileAtomic(path, DigestFile, []byte(digest.String()+"\n"))
}

// writeFileAtomic replaces dir/name via a temp file and rename, so
// concurrent stores of one digest never leave a mixed file behind.
func writeFileAtomic(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+name+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, name))
}
