package client

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/workers"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// App is the command line client. One App serves one invocation.
type App struct {
	services *service.ClientServices
	workers  workers.Worker
	build    models.AppBuildInfo

	stdin  io.Reader
	in     *bufio.Reader
	out    *printer
	logger *logger.Logger
}

type command struct {
	usage string

	// session commands restore the persisted session first and run the
	// background workers while they execute.
	session bool
	run     func(ctx context.Context, args []string) error
}

// NewApp creates the client. bg runs while session commands execute.
func NewApp(services *service.ClientServices, bg workers.Worker, build models.AppBuildInfo, in io.Reader, out io.Writer, logger *logger.Logger) *App {
	return &App{
		services: services,
		workers:  bg,
		build:    build,
		stdin:    in,
		in:       bufio.NewReader(in),
		out:      newPrinter(out),
		logger:   logger,
	}
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"register":    {usage: "register -login <login> [-password <password>]", run: a.register},
		"login":       {usage: "login -login <login> [-password <password>]", run: a.login},
		"logout":      {usage: "logout", session: true, run: a.logout},
		"list":        {usage: "list", session: true, run: a.list},
		"watch":       {usage: "watch", session: true, run: a.watch},
		"get":         {usage: "get <id>", session: true, run: a.get},
		"add":         {usage: "add -name <name> [-category c] [-quantity n] [-threshold n] [-description d] [-photo file]", session: true, run: a.add},
		"update":      {usage: "update <id> [-name n] [-category c] [-quantity n] [-threshold n|-clear-threshold] [-description d] [-photo file|-clear-photo]", session: true, run: a.update},
		"delete":      {usage: "delete <id>", session: true, run: a.delete},
		"history":     {usage: "history [-limit n]", session: true, run: a.history},
		"stats":       {usage: "stats", session: true, run: a.stats},
		"settings":    {usage: "settings [-threshold n]", session: true, run: a.settings},
		"sync":        {usage: "sync", session: true, run: a.sync},
		"consolidate": {usage: "consolidate", session: true, run: a.consolidate},
		"version":     {usage: "version", run: a.version},
	}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	log := a.logger.GetChildLogger()

	commands := a.commands()
	if len(args) == 0 || args[0] == "help" {
		a.usage(commands)
		return nil
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		a.usage(commands)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	if cmd.session {
		userID, err := a.services.AuthService.Restore(ctx)
		if err != nil {
			if errors.Is(err, service.ErrNotAuthenticated) {
				a.out.errorf("not logged in, run `login` first")
			}
			return fmt.Errorf("error restoring session: %w", err)
		}
		log.Debug().Str("func", "App.Run").Int64("user_id", userID).Str("command", name).Msg("session restored")

		a.workers.Start(ctx)
		defer a.workers.Stop()
	}

	err := cmd.run(ctx, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("func", "App.Run").Str("command", name).Msg("command failed")
		return err
	}
	return nil
}

func (a *App) usage(commands map[string]command) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	a.out.line(a.out.styles.title.Render("stock-keeper client"))
	a.out.help("usage: client [flags] <command> [args]")
	for _, name := range names {
		a.out.line("  " + commands[name].usage)
	}
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out.w)
	return fs
}

// parseWithID accepts the item id either before or after the flags.
func parseWithID(fs *flag.FlagSet, args []string) (models.ItemID, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return models.ItemID{}, err
	}
	if id == "" && fs.NArg() > 0 {
		id = fs.Arg(0)
	}
	if strings.TrimSpace(id) == "" {
		return models.ItemID{}, fmt.Errorf("%w: item id", ErrMissingArgument)
	}
	return models.ParseItemID(id), nil
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out.w, label+": ")
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading %s: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}
