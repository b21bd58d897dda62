// Package console is the interactive terminal admin for a loja server. Each
// catalog resource has a page backed by its own list controller; commands act
// on the current page and every command prints the resulting page state.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/loja/internal/client"
	"github.com/erazemk/loja/internal/listctl"
)

const helpText = `Commands:
  pages                 list pages
  use <page>            switch to a page
  list                  show the current page
  new                   start a new record
  edit <id>             edit a record
  set <field> <value>   set a field of the record being edited
  show                  show the record being edited
  save                  save the record being edited
  cancel                discard the record being edited
  delete <id>           delete a record
  dismiss               clear notifications
  passwd                change your password
  help                  show this help
  quit                  log out and leave
`

// App is one console session.
type App struct {
	client  *client.Client
	in      *bufio.Scanner
	out     io.Writer
	log     *slog.Logger
	pages   []page
	current page
}

// New returns an App reading commands from in and writing to out. The
// client must not be shared with another App.
func New(c *client.Client, in io.Reader, out io.Writer, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	pages := newPages(c, listctl.Options{Logger: log})
	return &App{
		client:  c,
		in:      bufio.NewScanner(in),
		out:     out,
		log:     log,
		pages:   pages,
		current: pages[0],
	}
}

// Login authenticates the session, prompting for the username when it is
// empty and always for the password.
func (a *App) Login(ctx context.Context, username string) error {
	var err error
	if username == "" {
		if username, err = a.promptLine("Username: "); err != nil {
			return err
		}
	}
	password, err := a.promptPassword("Password: ")
	if err != nil {
		return err
	}

	s, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	a.log.Info("logged in", "user", s.Username, "role", s.Role)
	fmt.Fprintf(a.out, "Logged in as %s (%s).\n", s.Username, s.Role)
	return nil
}

// Init loads every page concurrently. Failed loads are reported on their
// page.
func (a *App) Init(ctx context.Context) {
	var g errgroup.Group
	for _, p := range a.pages {
		g.Go(func() error {
			p.init(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// Run reads commands until quit or end of input, then logs out.
func (a *App) Run(ctx context.Context) error {
	defer a.logout(ctx)

	a.current.render(a.out)
	for {
		fmt.Fprintf(a.out, "loja:%s> ", a.current.name())
		if !a.in.Scan() {
			fmt.Fprintln(a.out)
			return a.in.Err()
		}
		if a.Execute(ctx, a.in.Text()) {
			return nil
		}
	}
}

// Execute runs one command line and reports whether the session should end.
func (a *App) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		fmt.Fprint(a.out, helpText)
		fmt.Fprintf(a.out, "Fields on %s: %s\n", a.current.name(), strings.Join(a.current.fieldNames(), ", "))

	case "pages":
		a.listPages()

	case "use":
		err = a.use(args)

	case "list", "ls":
		a.current.render(a.out)

	case "new":
		a.current.beginCreate()
		err = a.current.renderDraft(a.out)

	case "edit":
		var id int64
		if id, err = parseID(args); err == nil {
			if err = a.current.beginEdit(id); err == nil {
				err = a.current.renderDraft(a.out)
			}
		}

	case "set":
		if len(args) == 0 {
			err = fmt.Errorf("usage: set <field> <value>")
			break
		}
		err = a.current.set(args[0], strings.Join(args[1:], " "))

	case "show":
		err = a.current.renderDraft(a.out)

	case "save":
		if err = a.current.save(ctx); err == nil {
			a.current.render(a.out)
		}

	case "cancel":
		a.current.cancel()
		fmt.Fprintln(a.out, "Edit canceled.")

	case "delete", "rm":
		var id int64
		if id, err = parseID(args); err == nil {
			if err = a.current.remove(ctx, id); err == nil {
				a.current.render(a.out)
			}
		}

	case "dismiss":
		a.current.dismiss()
		a.current.render(a.out)

	case "passwd":
		err = a.changePassword(ctx)

	case "quit", "exit":
		fmt.Fprintln(a.out, "Bye!")
		return true

	default:
		fmt.Fprintf(a.out, "Unknown command: %s (type help for a list of commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return false
}

func (a *App) listPages() {
	for _, p := range a.pages {
		marker := " "
		if p == a.current {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %-12s %-12s %d records\n", marker, p.name(), p.title(), p.count())
	}
}

func (a *App) use(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: use <page>")
	}
	for _, p := range a.pages {
		if p.name() == args[0] {
			a.current = p
			p.render(a.out)
			return nil
		}
	}
	return fmt.Errorf("unknown page %q", args[0])
}

func (a *App) changePassword(ctx context.Context) error {
	current, err := a.promptPassword("Current password: ")
	if err != nil {
		return err
	}
	next, err := a.promptPassword("New password: ")
	if err != nil {
		return err
	}
	if err := a.client.ChangePassword(ctx, current, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

func (a *App) logout(ctx context.Context) {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn("logout failed", "error", err)
	}
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected a single record id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", args[0])
	}
	return id, nil
}
