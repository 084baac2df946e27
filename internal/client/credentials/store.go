// Package credentials persists the session token and the biometric unlock
// settings across process restarts.
//
// The token is sealed with AES-GCM before it touches disk. The sealing key
// is derived with argon2id from a per-device secret and a per-install salt,
// so copying the database to another machine does not reveal the token.
//
// Biometric state is kept as two separate facts:
//
//   - the user's preference (SetBiometricEnabled / IsBiometricEnabled),
//     which survives Clear so a later sign-in can re-offer biometric unlock;
//   - the binding of biometric unlock to the currently stored session
//     (BindBiometric / BiometricBinding), which Clear always removes.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/oddsup/internal/client/models"
	"github.com/dmitrijs2005/oddsup/internal/client/repositories/kv"
	"github.com/dmitrijs2005/oddsup/internal/common"
	"github.com/dmitrijs2005/oddsup/internal/cryptox"
	"github.com/dmitrijs2005/oddsup/internal/dbx"
	"github.com/google/uuid"
)

// Store is the durable credential contract used by the session store.
type Store interface {
	// Save replaces the stored session token.
	Save(ctx context.Context, token string) error
	// Load returns the stored token, or "" when there is none.
	Load(ctx context.Context) (string, error)
	// Clear removes the token and the biometric binding atomically.
	Clear(ctx context.Context) error

	SetBiometricEnabled(ctx context.Context, enabled bool) error
	IsBiometricEnabled(ctx context.Context) (bool, error)

	// BindBiometric ties biometric unlock to the stored session of userID.
	BindBiometric(ctx context.Context, userID models.ID) error
	// BiometricBinding returns the bound user id, or "" when unbound.
	BiometricBinding(ctx context.Context) (models.ID, error)
}

const (
	keyToken       = "session_token"
	keyTokenNonce  = "session_token_nonce"
	keyBioEnabled  = "biometric_enabled"
	keyBioBinding  = "biometric_binding"
	keySealingSalt = "sealing_salt"
	keyDeviceID    = "device_id"
)

// SQLiteStore implements Store on the local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	key []byte

	// serialises read-modify-write sequences across goroutines
	mu sync.Mutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore prepares a store on a migrated database. secret is the
// device secret the sealing key is derived from.
func NewSQLiteStore(ctx context.Context, db *sql.DB, secret []byte) (*SQLiteStore, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty device secret")
	}

	repo := kv.NewSQLiteRepository(db)
	salt, err := repo.Get(ctx, keySealingSalt)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = common.GenerateRandByteArray(16)
		if err := repo.Set(ctx, keySealingSalt, salt); err != nil {
			return nil, err
		}
	}

	return &SQLiteStore{db: db, key: cryptox.DeriveKey(secret, salt)}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrInvalidToken
	}

	ciphertext, nonce, err := cryptox.Seal([]byte(token), s.key)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, ciphertext); err != nil {
			return err
		}
		return repo.Set(ctx, keyTokenNonce, nonce)
	})
}

// Load returns common.ErrInvalidToken when a stored token cannot be
// unsealed, for example after the device secret changed.
func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := kv.NewSQLiteRepository(s.db)
	ciphertext, err := repo.Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	if ciphertext == nil {
		return "", nil
	}
	nonce, err := repo.Get(ctx, keyTokenNonce)
	if err != nil {
		return "", err
	}

	plaintext, err := cryptox.Open(ciphertext, nonce, s.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	defer common.WipeByteArray(plaintext)
	return string(plaintext), nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return kv.NewSQLiteRepository(tx).Delete(ctx, keyToken, keyTokenNonce, keyBioBinding)
	})
}

// SetBiometricEnabled records the user's preference. Disabling also drops
// the binding so no unlock is possible until it is enabled again.
func (s *SQLiteStore) SetBiometricEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if !enabled {
			if err := repo.Delete(ctx, keyBioBinding); err != nil {
				return err
			}
			return repo.Set(ctx, keyBioEnabled, []byte("0"))
		}
		return repo.Set(ctx, keyBioEnabled, []byte("1"))
	})
}

func (s *SQLiteStore) IsBiometricEnabled(ctx context.Context) (bool, error) {
	v, err := kv.NewSQLiteRepository(s.db).Get(ctx, keyBioEnabled)
	if err != nil {
		return false, err
	}
	return string(v) == "1", nil
}

func (s *SQLiteStore) BindBiometric(ctx context.Context, userID models.ID) error {
	if userID == "" {
		return errors.New("bind biometric: empty user id")
	}
	return kv.NewSQLiteRepository(s.db).Set(ctx, keyBioBinding, []byte(userID))
}

func (s *SQLiteStore) BiometricBinding(ctx context.Context) (models.ID, error) {
	v, err := kv.NewSQLiteRepository(s.db).Get(ctx, keyBioBinding)
	if err != nil {
		return "", err
	}
	return models.ID(v), nil
}

// DeviceID returns a stable identifier for this installation, generating
// one on first use. It is not cleared by Clear.
func (s *SQLiteStore) DeviceID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := kv.NewSQLiteRepository(s.db)
	v, err := repo.Get(ctx, keyDeviceID)
	if err != nil {
		return "", err
	}
	if v != nil {
		return string(v), nil
	}

	id := uuid.NewString()
	if err := repo.Set(ctx, keyDeviceID, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}
