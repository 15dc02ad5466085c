package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/config"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/repositories/repomanager"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)

// PasswordHasher produces and checks stored password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	NeedsRehash(encoded string) bool
}

type AccountService struct {
	base
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, h PasswordHasher, log logging.Logger) *AccountService {
	return &AccountService{base: newBase(db, m, cfg, log), hasher: h}
}

// Exists reports whether an account already uses username or email.
// Both are compared exactly.
func (s *AccountService) Exists(ctx context.Context, username, email string) (bool, error) {
	var found bool
	err := s.run(ctx, "check account", func(ctx context.Context) error {
		var err error
		found, err = s.repomanager.Accounts(s.db).Exists(ctx, username, email)
		return err
	})
	return found, err
}

// CreateAccount registers a new account and returns its id.
//
// Input is checked in a fixed order: empty fields, email shape, password
// length, then uniqueness. The uniqueness check and the insert share one
// transaction and the UNIQUE constraints back it up, so a concurrent signup
// with the same username or email fails with common.ErrDuplicate.
func (s *AccountService) CreateAccount(ctx context.Context, username, email, password string) (models.AccountID, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	switch {
	case username == "":
		return 0, common.NewValidationError(common.RuleEmptyField, "username")
	case email == "":
		return 0, common.NewValidationError(common.RuleEmptyField, "email")
	case password == "":
		return 0, common.NewValidationError(common.RuleEmptyField, "password")
	}
	if !emailRe.MatchString(email) {
		return 0, common.NewValidationError(common.RuleEmailFormat, "email")
	}
	if len(password) < MinPasswordLength {
		return 0, common.NewValidationError(common.RulePasswordLength, "password")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	var created *models.Account
	err = s.run(ctx, "create account", func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repomanager.Accounts(tx)

			taken, err := repo.Exists(ctx, username, email)
			if err != nil {
				return err
			}
			if taken {
				return common.ErrDuplicate
			}

			created, err = repo.Create(ctx, &models.Account{Username: username, Email: email, PasswordHash: hash})
			return err
		})
	}, common.ErrDuplicate)
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			s.log.Info(ctx, "signup rejected: duplicate", "username", username)
		}
		return 0, err
	}

	s.log.Info(ctx, "account created", "account_id", created.ID, "username", username)
	return created.ID, nil
}

// Authenticate returns the account matching username and password. An
// unknown username and a wrong password both yield
// common.ErrInvalidCredentials. A hash in an outdated format is replaced
// after a successful match.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" {
		return nil, common.NewValidationError(common.RuleEmptyField, "username")
	}
	if password == "" {
		return nil, common.NewValidationError(common.RuleEmptyField, "password")
	}

	var acc *models.Account
	err := s.run(ctx, "find account", func(ctx context.Context) error {
		var err error
		acc, err = s.repomanager.Accounts(s.db).GetByUsername(ctx, username)
		return err
	}, common.ErrNotFound)

	if errors.Is(err, common.ErrNotFound) {
		// keep the unknown-user path as slow as a real comparison
		_, _ = s.hasher.Verify(password, s.dummy())
		s.log.Info(ctx, "login failed", "username", username)
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, acc.PasswordHash)
	if err != nil {
		s.log.Warn(ctx, "stored password hash unreadable", "account_id", acc.ID, "error", err)
	}
	if !ok {
		s.log.Info(ctx, "login failed", "username", username)
		return nil, common.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(acc.PasswordHash) {
		s.rehash(ctx, acc, password)
	}

	s.log.Info(ctx, "login succeeded", "account_id", acc.ID)
	return acc, nil
}

// rehash stores a fresh hash for acc. A failure only costs the upgrade, so it
// is logged and the login proceeds.
func (s *AccountService) rehash(ctx context.Context, acc *models.Account, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Warn(ctx, "password rehash failed", "account_id", acc.ID, "error", err)
		return
	}
	err = s.run(ctx, "upgrade password hash", func(ctx context.Context) error {
		return s.repomanager.Accounts(s.db).UpdatePasswordHash(ctx, acc.ID, hash)
	})
	if err != nil {
		s.log.Warn(ctx, "password rehash not stored", "account_id", acc.ID, "error", err)
		return
	}
	acc.PasswordHash = hash
	s.log.Info(ctx, "password hash upgraded", "account_id", acc.ID)
}

func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("lostfound-dummy-password")
	})
	return s.dummyHash
}

// DeleteAccount removes an account together with every item it reported.
func (s *AccountService) DeleteAccount(ctx context.Context, id models.AccountID) error {
	err := s.run(ctx, "delete account", func(ctx context.Context) error {
		return s.repomanager.Accounts(s.db).Delete(ctx, id)
	}, common.ErrNotFound)
	if err != nil {
		return err
	}
	s.log.Info(ctx, "account deleted", "account_id", id)
	return nil
}
