package signing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pentasign/pentasign-sdk/signing"
	"github.com/pentasign/pentasign-sdk/signing/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepo implements ports.LedgerRepository
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Load(ctx context.Context, path string) (*entities.Ledger, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ledger), args.Error(1)
}

func (m *MockRepo) Save(ctx context.Context, ledger *entities.Ledger, path string) error {
	args := m.Called(ctx, ledger, path)
	return args.Error(0)
}

func (m *MockRepo) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func signResult(t *testing.T) *entities.SigningResult {
	t.Helper()
	result, err := newService().Sign(context.Background(), []byte("hello world"), "123456")
	require.NoError(t, err)
	return result
}

func TestLedgerService_Record(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledgerPath := "pentasign.ledger.yaml"

	t.Run("creates new ledger if missing", func(t *testing.T) {
		mockRepo := new(MockRepo)
		svc := signing.NewLedgerService(mockRepo)

		mockRepo.On("Load", ctx, ledgerPath).Return(nil, nil).Once()
		mockRepo.On("Save", ctx, mock.AnythingOfType("*entities.Ledger"), ledgerPath).Return(nil).Once()

		result := signResult(t)
		entry, err := svc.Record(ctx, ledgerPath, "hello.txt", "ed25519", result, "/archive/x")
		require.NoError(t, err)

		assert.Equal(t, result.Bundle.DocHash().String(), entry.DocHash)
		assert.Equal(t, "123456", entry.Sofi)
		assert.Equal(t, result.Bundle.KeyFingerprint(), entry.KeyFingerprint)
		assert.Equal(t, "/archive/x", entry.ArchivePath)
		assert.False(t, entry.SignedAt.IsZero())
		_, err = uuid.Parse(entry.ID)
		assert.NoError(t, err)

		saved := mockRepo.Calls[1].Arguments.Get(1).(*entities.Ledger)
		assert.Equal(t, 1, saved.EntryCount())
		mockRepo.AssertExpectations(t)
	})

	t.Run("appends to existing ledger", func(t *testing.T) {
		mockRepo := new(MockRepo)
		svc := signing.NewLedgerService(mockRepo)

		existing := entities.NewLedger()
		_ = existing.AddEntry("older.txt", entities.LedgerEntry{DocHash: "sha256:aa"})

		mockRepo.On("Load", ctx, ledgerPath).Return(existing, nil).Once()
		mockRepo.On("Save", ctx, existing, ledgerPath).Return(nil).Once()

		_, err := svc.Record(ctx, ledgerPath, "hello.txt", "ed25519", signResult(t), "")
		require.NoError(t, err)
		assert.Equal(t, 2, existing.EntryCount())
		mockRepo.AssertExpectations(t)
	})

	t.Run("load failure", func(t *testing.T) {
		mockRepo := new(MockRepo)
		svc := signing.NewLedgerService(mockRepo)
		mockRepo.On("Load", ctx, ledgerPath).Return(nil, errors.New("disk error")).Once()

		_, err := svc.Record(ctx, ledgerPath, "hello.txt", "ed25519", signResult(t), "")
		assert.ErrorContains(t, err, "loading ledger")
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save failure", func(t *testing.T) {
		mockRepo := new(MockRepo)
		svc := signing.NewLedgerService(mockRepo)
		mockRepo.On("Load", ctx, ledgerPath).Return(nil, nil).Once()
		mockRepo.On("Save", ctx, mock.Anything, ledgerPath).Return(errors.New("read-only")).Once()

		_, err := svc.Record(ctx, ledgerPath, "hello.txt", "ed25519", signResult(t), "")
		assert.ErrorContains(t, err, "saving ledger")
	})

	t.Run("nil result", func(t *testing.T) {
		svc := signing.NewLedgerService(new(MockRepo))
		_, err := svc.Record(ctx, ledgerPath, "hello.txt", "ed25519", nil, "")
		assert.ErrorContains(t, err, "no signing result")
	})
}

func TestLedgerService_Lookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &signing.MockLedgerRepository{}
	svc := signing.NewLedgerService(repo)

	entry, err := svc.Lookup(ctx, "missing.yaml", "x")
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = svc.Record(ctx, "ledger.yaml", "hello.txt", "ed25519", signResult(t), "")
	require.NoError(t, err)

	entry, err = svc.Lookup(ctx, "ledger.yaml", "hello.txt")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "123456", entry.Sofi)

	entry, err = svc.Lookup(ctx, "ledger.yaml", "other.txt")
	require.NoError(t, err)
	assert.Nil(t, entry)

	ledger, err := svc.Show(ctx, "ledger.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.EntryCount())
}
