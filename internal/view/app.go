package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	context_ "github.com/tbrandt/shelfshare/internal/infra/context"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
	"github.com/tbrandt/shelfshare/internal/svc/sessionsvc"
)

var (
	// ErrUnknownCommand is returned for input no command matches.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrWrongView is returned when a command does not apply to the
	// currently open view.
	ErrWrongView = errors.New("command does not apply to the open view")
	// ErrUsage is returned when a command is called with bad arguments.
	ErrUsage = errors.New("usage")
)

// App drives the client: it reads commands, navigates between views through
// the router, and dispatches actions to the open view. All work is
// sequential; one command runs at a time.
type App struct {
	router   *Router
	sessions *sessionsvc.SessionService
	client   bookclient.Client
	out      io.Writer
	log      logging.Logger

	current View
}

// NewApp creates the command loop. The home view is open initially.
func NewApp(
	router *Router,
	sessions *sessionsvc.SessionService,
	client bookclient.Client,
	out io.Writer,
) *App {
	return &App{
		router:   router,
		sessions: sessions,
		client:   client,
		out:      out,
		log:      logging.GetLogger("view.app"),
	}
}

// Run reads commands from in until EOF or a quit command. Command failures
// are printed and the loop continues.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	if err := a.open(ctx, RouteHome); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(a.out, "> ")

		if !scanner.Scan() {
			break
		}

		args := fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		if args[0] == "quit" || args[0] == "exit" {
			break
		}

		if err := a.Execute(ctx, args); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	return nil
}

// Execute runs a single command against the open view.
//
//nolint:cyclop,funlen
func (a *App) Execute(ctx context.Context, args []string) error {
	ctx = context_.WithRoute(ctx, a.current.Route())

	switch args[0] {
	case "help":
		return a.help()

	case "open":
		if len(args) != 2 {
			return fmt.Errorf("%w: open <route>", ErrUsage)
		}

		return a.open(ctx, args[1])

	case "login":
		if len(args) != 3 {
			return fmt.Errorf("%w: login <username> <password>", ErrUsage)
		}

		return a.login(ctx, args[1], args[2])

	case "register":
		if len(args) != 7 {
			return fmt.Errorf("%w: register <username> <email> <password> <password2> <city> <state>", ErrUsage)
		}

		return a.register(ctx, args[1:])

	case "locate":
		v, ok := a.current.(*RegisterView)
		if !ok {
			return fmt.Errorf("%w: locate", ErrWrongView)
		}

		v.UseCurrentLocation(ctx)

		return a.render()

	case "rent":
		v, ok := a.current.(*BooksView)
		if !ok {
			return fmt.Errorf("%w: rent", ErrWrongView)
		}

		if len(args) != 2 {
			return fmt.Errorf("%w: rent <book-id>", ErrUsage)
		}

		if err := v.OpenRentDialog(args[1]); err != nil {
			return err
		}

		return a.render()

	case "days":
		v, ok := a.current.(*BooksView)
		if !ok {
			return fmt.Errorf("%w: days", ErrWrongView)
		}

		if len(args) != 2 {
			return fmt.Errorf("%w: days <n>", ErrUsage)
		}

		days, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: days <n>", ErrUsage)
		}

		if err := v.SetRentalDays(days); err != nil {
			return err
		}

		return a.render()

	case "confirm":
		v, ok := a.current.(*BooksView)
		if !ok {
			return fmt.Errorf("%w: confirm", ErrWrongView)
		}

		if err := v.ConfirmRental(ctx); err != nil {
			return err
		}

		return a.render()

	case "cancel":
		v, ok := a.current.(*BooksView)
		if !ok {
			return fmt.Errorf("%w: cancel", ErrWrongView)
		}

		v.CloseRentDialog()

		return a.render()

	case "add":
		return a.addBook(ctx, args[1:])

	case "update":
		return a.updateBook(ctx, args[1:])

	case "remove":
		v, ok := a.current.(*MyBooksView)
		if !ok {
			return fmt.Errorf("%w: remove", ErrWrongView)
		}

		if len(args) != 2 {
			return fmt.Errorf("%w: remove <book-id>", ErrUsage)
		}

		if err := v.RemoveBook(ctx, args[1]); err != nil {
			return err
		}

		return a.render()

	case "return":
		v, ok := a.current.(*MyRentalsView)
		if !ok {
			return fmt.Errorf("%w: return", ErrWrongView)
		}

		if len(args) != 2 {
			return fmt.Errorf("%w: return <rental-id>", ErrUsage)
		}

		if err := v.ReturnBook(ctx, args[1]); err != nil {
			return err
		}

		return a.render()

	case "approve", "reject":
		return a.decideRequest(ctx, args)

	case "logout":
		if err := a.client.Logout(ctx); err != nil {
			return err
		}

		fmt.Fprintln(a.out, "logged out")

		return a.open(ctx, RouteHome)

	case "whoami":
		return a.whoami(ctx)

	case "nearby":
		return a.nearby(ctx, args[1:])

	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func (a *App) open(ctx context.Context, route string) error {
	v, err := a.router.Resolve(ctx, route)
	if err != nil {
		return err
	}

	ctx = context_.WithRoute(ctx, v.Route())

	if err := v.Mount(ctx); err != nil {
		// stale or empty state still renders; the failure is surfaced here
		a.log.ErrorContext(ctx, "mount failed", "error", err)
	}

	a.current = v

	return a.render()
}

func (a *App) login(ctx context.Context, username, password string) error {
	v, ok := a.current.(*LoginView)
	if !ok {
		return fmt.Errorf("%w: login (open the login view first)", ErrWrongView)
	}

	v.Form = LoginForm{Username: username, Password: password}

	if err := v.Submit(ctx); err != nil {
		// the alert carries the message
		return a.render()
	}

	fmt.Fprintf(a.out, "logged in as %s\n", username)

	return a.open(ctx, RouteHome)
}

func (a *App) register(ctx context.Context, args []string) error {
	v, ok := a.current.(*RegisterView)
	if !ok {
		return fmt.Errorf("%w: register (open the register view first)", ErrWrongView)
	}

	form := v.Form // keep coordinates from a previous locate
	form.Username = args[0]
	form.Email = args[1]
	form.Password = args[2]
	form.Password2 = args[3]
	form.City = args[4]
	form.State = args[5]
	v.Form = form

	if err := v.Submit(ctx); err != nil {
		return a.render()
	}

	fmt.Fprintf(a.out, "registered as %s\n", args[0])

	return a.open(ctx, RouteHome)
}

func (a *App) addBook(ctx context.Context, args []string) error {
	v, ok := a.current.(*MyBooksView)
	if !ok {
		return fmt.Errorf("%w: add", ErrWrongView)
	}

	form, err := parseBookForm(args)
	if err != nil {
		return err
	}

	v.Form = form

	if err := v.AddBook(ctx); err != nil {
		return err
	}

	return a.render()
}

func (a *App) updateBook(ctx context.Context, args []string) error {
	v, ok := a.current.(*MyBooksView)
	if !ok {
		return fmt.Errorf("%w: update", ErrWrongView)
	}

	if len(args) != 5 {
		return fmt.Errorf("%w: update <book-id> <title> <author> <isbn> <price-per-day>", ErrUsage)
	}

	form, err := parseBookForm(args[1:])
	if err != nil {
		return err
	}

	v.Form = form

	if err := v.UpdateBook(ctx, args[0]); err != nil {
		return err
	}

	return a.render()
}

func (a *App) decideRequest(ctx context.Context, args []string) error {
	v, ok := a.current.(*RentalRequestsView)
	if !ok {
		return fmt.Errorf("%w: %s", ErrWrongView, args[0])
	}

	if len(args) != 2 {
		return fmt.Errorf("%w: %s <rental-id>", ErrUsage, args[0])
	}

	var err error
	if args[0] == "approve" {
		err = v.Approve(ctx, args[1])
	} else {
		err = v.Reject(ctx, args[1])
	}

	if err != nil {
		return err
	}

	return a.render()
}

func (a *App) whoami(ctx context.Context) error {
	user, ok := a.sessions.CurrentUser(ctx)
	if !ok {
		fmt.Fprintln(a.out, "anonymous")

		return nil
	}

	fmt.Fprintf(a.out, "%s <%s> (%s, %s)\n",
		user.Username, user.Email, user.Location.City, user.Location.State)

	return nil
}

func (a *App) nearby(ctx context.Context, args []string) error {
	var radius float64

	if len(args) == 1 {
		parsed, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("%w: nearby [radius-km]", ErrUsage)
		}

		radius = parsed
	}

	users, err := a.client.NearbyUsers(ctx, radius)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tCITY\tSTATE")

	for _, user := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", user.Username, user.Location.City, user.Location.State)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render nearby users: %w", err)
	}

	return nil
}

func (a *App) render() error {
	//nolint:wrapcheck
	return a.current.Render(a.out)
}

func (a *App) help() error {
	_, err := fmt.Fprint(a.out,
		"commands:\n",
		"  open <route>       home | login | register | books | my-books | my-rentals | rental-requests\n",
		"  login/register     authenticate (on their views)\n",
		"  locate             fill coordinates on the register view\n",
		"  rent/days/confirm/cancel   rent dialog on the books view\n",
		"  add/update/remove  manage listings on the my-books view\n",
		"  return             return a rental on the my-rentals view\n",
		"  approve/reject     decide requests on the rental-requests view\n",
		"  whoami | nearby [radius-km] | logout | quit\n",
	)
	if err != nil {
		return fmt.Errorf("render help: %w", err)
	}

	return nil
}

// fields splits a command line into tokens. Double quotes group words, so
// titles and author names can contain spaces.
func fields(line string) []string {
	var (
		args     []string
		current  []rune
		inQuotes bool
		hasToken bool
	)

	flush := func() {
		if hasToken {
			args = append(args, string(current))
			current = current[:0]
			hasToken = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case (r == ' ' || r == '\t') && !inQuotes:
			flush()
		default:
			current = append(current, r)
			hasToken = true
		}
	}

	flush()

	return args
}

func parseBookForm(args []string) (BookForm, error) {
	if len(args) != 4 {
		return BookForm{}, fmt.Errorf("%w: add <title> <author> <isbn> <price-per-day>", ErrUsage)
	}

	price, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return BookForm{}, fmt.Errorf("%w: price-per-day must be a number", ErrUsage)
	}

	return BookForm{
		Title:       args[0],
		Author:      args[1],
		ISBN:        args[2],
		PricePerDay: price,
	}, nil
}
