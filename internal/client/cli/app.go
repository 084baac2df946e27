package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/oddsup/internal/client/session"
	"github.com/dmitrijs2005/oddsup/internal/logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// App is the interactive client bound to one session store.
type App struct {
	store  *session.Store
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
	p      *message.Printer
}

func NewApp(store *session.Store, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{
		store:  store,
		reader: bufio.NewReader(in),
		out:    out,
		log:    log,
		p:      message.NewPrinter(language.English),
	}
}

// Run resumes a saved session if there is one and then blocks in the
// REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.watch(ctx)

	fmt.Fprintln(a.out, "Welcome to oddsup (type 'help' for commands)")

	restored, err := a.store.Resume(ctx)
	switch {
	case err != nil:
		fmt.Fprintln(a.out, "Error:", describe(err))
	case restored:
		fmt.Fprintf(a.out, "Welcome back, %s!\n", a.store.Snapshot().Profile.Name)
	default:
		if c := a.store.Capability(ctx); c.Available && c.UserEnabled {
			fmt.Fprintf(a.out, "Type 'biologin' to unlock with %s.\n", c.Kind)
		}
	}

	runREPL(ctx, a, a.prompt, a.reader)
}

// watch logs session transitions.
func (a *App) watch(ctx context.Context) {
	last := session.Status(-1)
	for snap := range a.store.Subscribe(ctx) {
		if snap.Status != last {
			a.log.Debug(ctx, "session status", "status", snap.Status.String(), "loading", snap.IsLoading)
			last = snap.Status
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().IsAuthenticated()
}

func (a *App) prompt() string {
	snap := a.store.Snapshot()
	switch snap.Status {
	case session.StatusAuthenticated:
		return a.p.Sprintf("oddsup (%s, %d tokens)>", snap.Profile.Username, tokens(snap.Profile.TokensBalance))
	case session.StatusSignupPending:
		return "oddsup (verify " + snap.PendingEmail + ")>"
	default:
		return "oddsup>"
	}
}
