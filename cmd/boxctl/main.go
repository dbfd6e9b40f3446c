// Command boxctl is the terminal client for the mystery-box selection game.
//
// Players log in, inspect the box grid, pick boxes up to their credit
// balance, and submit. Admins manage users, credits, the box theme, and can
// reset the whole grid.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mysterybox-game/boxctl/internal/client"
	"github.com/mysterybox-game/boxctl/internal/config"
	"github.com/mysterybox-game/boxctl/internal/core/service"
	"github.com/mysterybox-game/boxctl/internal/store"
	"github.com/mysterybox-game/boxctl/pkg/logger"
)

const usage = `usage: boxctl <command> [flags]

session:
  login        -username X -password Y    log in as a player
  admin-login  -username X -password Y    log in as an admin
  logout                                  drop the current session
  whoami                                  show the active session

player:
  boxes                                   show the box grid
  submit <id> <id> ...                    pick the given boxes and submit
  play                                    interactive pick-and-submit

admin:
  users [term]                            list users, optionally filtered
  search                                  interactive debounced user search
  create-user -username X -password Y [-email E] [-credits N]
  delete-user -id N -yes
  set-credits -id N -credits M
  reset-boxes -yes                        clear every box (global!)
  box-color [green|black|green-black]     show or set the theme
  login-text [key=value ...]              show or set the login-screen copy
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	sessionFile := cfg.SessionFile
	if sessionFile == "" {
		var err error
		sessionFile, err = store.DefaultPath()
		if err != nil {
			log.Fatal().Err(err).Msg("cannot resolve session file location")
		}
	}

	api := client.New(cfg.APIBaseURL, cfg.Timeout, log)
	sessions := service.NewSessionService(api, api, store.NewFileStore(sessionFile), log)
	selection := service.NewSelectionService(api, sessions, log)
	admin := service.NewAdminService(api, api, api, sessions, log)

	app := &app{
		sessions:  sessions,
		selection: selection,
		admin:     admin,
		log:       log,
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "login":
		err = app.login(ctx, args, false)
	case "admin-login":
		err = app.login(ctx, args, true)
	case "logout":
		err = app.logout()
	case "whoami":
		err = app.whoami()
	case "boxes":
		err = app.boxes(ctx)
	case "submit":
		err = app.submit(ctx, args)
	case "play":
		err = app.play(ctx)
	case "users":
		err = app.users(ctx, args)
	case "search":
		err = app.search(ctx)
	case "create-user":
		err = app.createUser(ctx, args)
	case "delete-user":
		err = app.deleteUser(ctx, args)
	case "set-credits":
		err = app.setCredits(ctx, args)
	case "reset-boxes":
		err = app.resetBoxes(ctx, args)
	case "box-color":
		err = app.boxColor(ctx, args)
	case "login-text":
		err = app.loginText(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
