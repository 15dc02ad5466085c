// Package cli is the interactive terminal front-end: a small REPL for
// signing up, logging in, reporting items and browsing the lost and found
// lists.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/models"
	"github.com/dmitrijs2005/lostfound/internal/services"
)

// AccountService is the account surface the front-end uses.
type AccountService interface {
	CreateAccount(ctx context.Context, username, email, password string) (models.AccountID, error)
	Authenticate(ctx context.Context, username, password string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id models.AccountID) error
}

// ItemService is the item surface the front-end uses.
type ItemService interface {
	ReportItem(ctx context.Context, owner models.AccountID, v models.Variant, r services.ItemReport) (models.ItemID, error)
	ListItems(ctx context.Context, v models.Variant) ([]models.ItemView, error)
	GetItem(ctx context.Context, v models.Variant, id models.ItemID) (*models.ItemView, error)
	Search(ctx context.Context, v models.Variant, query string) ([]models.ItemView, error)
}

type App struct {
	accounts AccountService
	items    ItemService
	debounce time.Duration
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer

	account *models.Account
}

func NewApp(a AccountService, i ItemService, debounce time.Duration, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.NewNop()
	}
	return &App{
		accounts: a,
		items:    i,
		debounce: debounce,
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run prints status, then serves commands until EOF or exit.
func (a *App) Run(ctx context.Context, status string) {
	a.println("Welcome to Lost & Found (type 'help' for commands)")
	if status != "" {
		a.println(status)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.account != nil
}

func (a *App) getStatus() string {
	if a.account == nil {
		return "guest"
	}
	return a.account.Username
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// explain prints a user-facing message for err and returns it.
func (a *App) explain(err error) error {
	var ve *common.ValidationError
	var se *common.StorageError

	switch {
	case errors.As(err, &ve):
		a.println(capitalize(ve.Error()))
	case errors.Is(err, common.ErrDuplicate):
		a.println("Username or email already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		a.println("Invalid credentials")
	case errors.Is(err, common.ErrNotFound):
		a.println("Not found")
	case errors.As(err, &se):
		a.println("Storage error:", se.Err)
	default:
		a.println("Error:", err)
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
