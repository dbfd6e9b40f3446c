package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
	"github.com/mysterybox-game/boxctl/internal/core/service"
)

type app struct {
	sessions  *service.SessionService
	selection *service.SelectionService
	admin     *service.AdminService
	log       zerolog.Logger
}

func (a *app) login(ctx context.Context, args []string, asAdmin bool) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if *username == "" || *password == "" {
		return errors.New("both -username and -password are required")
	}

	ok := false
	if asAdmin {
		ok = a.sessions.AdminLogin(ctx, *username, *password)
	} else {
		ok = a.sessions.Login(ctx, *username, *password)
	}
	if !ok {
		return errors.New(a.sessions.Err())
	}

	if u := a.sessions.CurrentUser(); u != nil && !asAdmin {
		fmt.Printf("logged in as %s (credits: %d)\n", u.Username, u.Credits)
	} else if u != nil {
		fmt.Printf("logged in as admin %s\n", u.Username)
	} else {
		fmt.Println("logged in")
	}
	return nil
}

func (a *app) logout() error {
	a.sessions.Logout()
	fmt.Println("logged out")
	return nil
}

func (a *app) whoami() error {
	sess := a.sessions.Session()
	switch sess.State {
	case domain.StateUser:
		if sess.User != nil {
			fmt.Printf("player %s (id %d, credits %d)\n", sess.User.Username, sess.User.ID, sess.User.Credits)
		} else {
			fmt.Println("player (record not cached)")
		}
	case domain.StateAdmin:
		name := ""
		if sess.User != nil {
			name = sess.User.Username
		}
		fmt.Printf("admin %s\n", name)
	default:
		fmt.Println("not logged in")
	}
	return nil
}

func (a *app) boxes(ctx context.Context) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	if err := a.selection.LoadBoxes(ctx); err != nil {
		return err
	}

	color, err := a.admin.GetBoxColor(ctx)
	if err == nil {
		fmt.Printf("theme: %s\n", color)
	}
	a.printGrid()
	if u := a.sessions.CurrentUser(); u != nil {
		fmt.Printf("credits: %d\n", u.Credits)
	}
	return nil
}

// submit picks the given boxes in one shot and submits. The selection is
// process-local, so pick and submit have to happen in the same run.
func (a *app) submit(ctx context.Context, args []string) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: boxctl submit <id> <id> ...")
	}
	if err := a.selection.LoadBoxes(ctx); err != nil {
		return err
	}

	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid box id %q", arg)
		}
		if err := a.selection.Toggle(id); err != nil {
			return fmt.Errorf("box %d: %w", id, err)
		}
	}
	if msg := a.selection.Message(); msg != "" {
		fmt.Println(msg)
	}

	if err := a.selection.Submit(ctx); err != nil {
		if e := a.selection.Err(); e != "" {
			return errors.New(e)
		}
		return err
	}
	fmt.Println(a.selection.SuccessMsg())
	return nil
}

// play is a small REPL: t <id> toggles, s submits, r reloads, q quits.
func (a *app) play(ctx context.Context) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	if err := a.selection.LoadBoxes(ctx); err != nil {
		return err
	}
	a.printGrid()
	fmt.Println("commands: t <id> toggle, s submit, r reload, q quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q":
			return nil
		case "r":
			if err := a.selection.LoadBoxes(ctx); err != nil {
				fmt.Println(err)
				continue
			}
			a.printGrid()
		case "t":
			if len(fields) < 2 {
				fmt.Println("usage: t <id>")
				continue
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("invalid box id")
				continue
			}
			if err := a.selection.Toggle(id); err != nil {
				fmt.Println(err)
				continue
			}
			a.printGrid()
			if msg := a.selection.Message(); msg != "" {
				fmt.Println(msg)
			}
		case "s":
			if err := a.selection.Submit(ctx); err != nil {
				if e := a.selection.Err(); e != "" {
					fmt.Println(e)
				} else {
					fmt.Println(err)
				}
				continue
			}
			fmt.Println(a.selection.SuccessMsg())
			a.printGrid()
		default:
			fmt.Println("commands: t <id> toggle, s submit, r reload, q quit")
		}
	}
}

func (a *app) users(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	term := ""
	if len(args) > 0 {
		term = args[0]
	}
	users, err := a.admin.SearchUsers(ctx, term)
	if err != nil {
		return err
	}
	printUsers(users)
	return nil
}

// search reads terms line by line and issues debounced queries, mirroring
// the admin dashboard's as-you-type search.
func (a *app) search(ctx context.Context) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	results := make(chan service.SearchResult, 8)
	searcher := service.NewSearcher(a.admin, 500*time.Millisecond, func(r service.SearchResult) {
		results <- r
	}, a.log)

	go func() {
		for r := range results {
			if r.Err != nil {
				fmt.Println("search failed:", r.Err)
				continue
			}
			fmt.Printf("-- results for %q --\n", r.Term)
			printUsers(r.Users)
		}
	}()

	fmt.Println("type a term and press enter (empty line lists all, ctrl-d quits)")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		searcher.Query(ctx, strings.TrimSpace(scanner.Text()))
	}
	return nil
}

func (a *app) createUser(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	username := fs.String("username", "", "new account username")
	password := fs.String("password", "", "new account password")
	email := fs.String("email", "", "new account email")
	credits := fs.Int("credits", 0, "starting credit balance")
	_ = fs.Parse(args)

	users, err := a.admin.CreateUser(ctx, ports.CreateUserInput{
		Username: *username,
		Password: *password,
		Email:    *email,
		Credits:  *credits,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", *username)
	printUsers(users)
	return nil
}

func (a *app) deleteUser(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	id := fs.Int("id", 0, "user id to delete")
	yes := fs.Bool("yes", false, "confirm the deletion")
	_ = fs.Parse(args)

	if !*yes {
		return errors.New("deleting a user is permanent; re-run with -yes to confirm")
	}

	users, err := a.admin.DeleteUser(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("deleted user %d\n", *id)
	printUsers(users)
	return nil
}

func (a *app) setCredits(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("set-credits", flag.ExitOnError)
	id := fs.Int("id", 0, "user id")
	credits := fs.Int("credits", 0, "new credit balance")
	_ = fs.Parse(args)

	users, err := a.admin.SetCredits(ctx, *id, *credits)
	if err != nil {
		return err
	}
	printUsers(users)
	return nil
}

func (a *app) resetBoxes(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("reset-boxes", flag.ExitOnError)
	yes := fs.Bool("yes", false, "confirm the reset")
	_ = fs.Parse(args)

	if !*yes {
		return errors.New("resetting releases every claimed box; re-run with -yes to confirm")
	}
	if err := a.admin.ResetAllBoxes(ctx); err != nil {
		return err
	}
	fmt.Println("all boxes reset")
	return nil
}

func (a *app) boxColor(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if len(args) == 0 {
		color, err := a.admin.GetBoxColor(ctx)
		if err != nil {
			return err
		}
		fmt.Println(color)
		return nil
	}
	if err := a.admin.SetBoxColor(ctx, domain.BoxColor(args[0])); err != nil {
		return err
	}
	fmt.Printf("box color set to %s\n", args[0])
	return nil
}

func (a *app) loginText(ctx context.Context, args []string) error {
	if len(args) == 0 {
		lt, err := a.admin.GetLoginText(ctx)
		if err != nil {
			return err
		}
		for k, v := range lt {
			fmt.Printf("%s: %s\n", k, v)
		}
		return nil
	}

	if err := a.requireAdmin(); err != nil {
		return err
	}
	lt := make(domain.LoginText, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		lt[k] = v
	}
	return a.admin.SetLoginText(ctx, lt)
}

func (a *app) requireUser(ctx context.Context) error {
	if !a.sessions.IsAuthenticated() || a.sessions.IsAdmin() {
		return errors.New("log in as a player first: boxctl login -username X -password Y")
	}
	// Credits may have changed since the session was persisted.
	a.sessions.RefreshUserData(ctx)
	return nil
}

func (a *app) requireAdmin() error {
	if !a.sessions.IsAuthenticated() || !a.sessions.IsAdmin() {
		return errors.New("log in as an admin first: boxctl admin-login -username X -password Y")
	}
	return nil
}

func (a *app) printGrid() {
	boxes := a.selection.Boxes()
	selected := make(map[int]bool)
	for _, id := range a.selection.Selected() {
		selected[id] = true
	}

	var me int
	if u := a.sessions.CurrentUser(); u != nil {
		me = u.ID
	}

	for i, b := range boxes {
		cell := fmt.Sprintf("[%3d]", b.ID)
		switch {
		case selected[b.ID]:
			cell = fmt.Sprintf("(%3d)", b.ID)
		case b.TakenBy(me):
			cell = fmt.Sprintf("{%3d}", b.ID)
		case b.Taken():
			cell = fmt.Sprintf(" x%3d", b.ID)
		}
		fmt.Print(cell, " ")
		if (i+1)%8 == 0 {
			fmt.Println()
		}
	}
	if len(boxes)%8 != 0 {
		fmt.Println()
	}
	fmt.Println("legend: [n] free  (n) picked  {n} yours  xn taken")
}

func printUsers(users []domain.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tCREDITS")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", u.ID, u.Username, u.Email, u.Credits)
	}
	_ = w.Flush()
}
