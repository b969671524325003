package cli

import (
	"context"
	"fmt"

	"github.com/flexrent/flexrent/internal/client/client"
	"github.com/flexrent/flexrent/internal/common"
)

// getSimpleText, getPassword and getConfirmation are swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Register prompts for the sign-up form and creates the account.
func (a *App) Register(ctx context.Context) error {
	var req client.RegisterRequest
	var err error

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
		{"Enter email", &req.Email},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.label, a.out); err != nil {
			return err
		}
	}

	password, err := getPassword("Enter password (8+ chars, an uppercase letter and a digit)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	if req.AgreeToTerms, err = getConfirmation(a.reader, "Do you agree to the terms of service?", a.out); err != nil {
		return err
	}

	if err := a.authService.Register(ctx, req); err != nil {
		return err
	}

	a.printf("Account created, you can log in now\n")
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		if client.IsUnavailable(err) {
			a.setMode(ctx, ModeOffline)
		}
		return err
	}

	a.setMode(ctx, ModeOnline)
	a.printf("Logged in as %s\n", email)
	return nil
}

// Logout revokes the session and forgets it locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.printf("Logged out\n")
	return nil
}
