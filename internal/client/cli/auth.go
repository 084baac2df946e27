package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/oddsup/internal/client/session"
)

// Indirections for interactive input, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// Login prompts for credentials, offering the email remembered from a
// pending signup.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter email"
	prefill := a.store.Snapshot().PrefillEmail
	if prefill != "" {
		prompt = fmt.Sprintf("Enter email (Enter for %s)", prefill)
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = prefill
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	if err := a.store.Login(ctx, email, password); err != nil {
		return err
	}
	a.greet(ctx)
	return nil
}

func (a *App) greet(ctx context.Context) {
	snap := a.store.Snapshot()
	fmt.Fprintf(a.out, "Signed in as %s.\n", snap.Profile.Name)
	if c := a.store.Capability(ctx); c.Available && !c.UserEnabled {
		fmt.Fprintf(a.out, "Tip: 'bio on' enables %s unlock.\n", c.Kind)
	}
}

// Signup registers an account and leaves the client waiting for email
// verification.
func (a *App) Signup(ctx context.Context) error {
	var f session.SignupForm
	var err error
	if f.Name, err = getSimpleText(a.reader, "Your name", a.out); err != nil {
		return err
	}
	if f.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if f.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if f.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}
	if f.TermsAccepted, err = confirm(a.reader, "Accept the terms of service?", a.out); err != nil {
		return err
	}

	if err := a.store.Signup(ctx, f); err != nil {
		return err
	}
	snap := a.store.Snapshot()
	if snap.Notice != "" {
		fmt.Fprintln(a.out, snap.Notice)
	}
	fmt.Fprintf(a.out, "Check %s for a verification link, then log in.\n", snap.PendingEmail)
	a.store.ReturnToSignIn()
	return nil
}

func (a *App) BioLogin(ctx context.Context) error {
	fmt.Fprintln(a.out, "Waiting for biometric verification...")
	if err := a.store.LoginWithBiometric(ctx); err != nil {
		return err
	}
	a.greet(ctx)
	return nil
}

// Bio turns biometric unlock on or off, or shows its state.
func (a *App) Bio(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c := a.store.Capability(ctx)
		fmt.Fprintf(a.out, "Biometric: available=%t kind=%s enabled=%t\n", c.Available, c.Kind, c.UserEnabled)
		return nil
	}
	switch args[0] {
	case "on":
		if err := a.store.EnableBiometric(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Biometric unlock enabled.")
	case "off":
		if err := a.store.DisableBiometric(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Biometric unlock disabled.")
	default:
		return usageError("bio [on|off]")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
