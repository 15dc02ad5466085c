package cli

import (
	"context"
	"errors"
	"strings"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errCancelled = errors.New("cancelled")

// Signup asks for username, email and password and creates the account.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	if _, err := a.accounts.CreateAccount(ctx, username, email, password); err != nil {
		return a.explain(err)
	}

	a.printf("Sign up successful! Welcome %s\n", strings.TrimSpace(username))
	return nil
}

// Login authenticates and keeps the account for later commands.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	acc, err := a.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return a.explain(err)
	}

	a.account = acc
	a.printf("Login successful! Welcome %s\n", acc.Username)
	return nil
}

// Logout forgets the current account.
func (a *App) Logout(ctx context.Context) error {
	if a.account == nil {
		a.println("Not logged in")
		return nil
	}
	a.account = nil
	a.println("Logged out")
	return nil
}

// DeleteAccount removes the logged-in account and all of its reports after
// the user retypes the username.
func (a *App) DeleteAccount(ctx context.Context) error {
	confirm, err := getSimpleText(a.reader, "Type your username to delete the account and all its reports", a.out)
	if err != nil {
		return err
	}
	if confirm != a.account.Username {
		a.println("Cancelled")
		return errCancelled
	}

	if err := a.accounts.DeleteAccount(ctx, a.account.ID); err != nil {
		return a.explain(err)
	}

	a.account = nil
	a.println("Account deleted")
	return nil
}
