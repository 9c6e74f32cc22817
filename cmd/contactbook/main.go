package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/tartampluch/go-contactbook/internal/config"
	"github.com/tartampluch/go-contactbook/internal/contact"
	"github.com/tartampluch/go-contactbook/internal/credentials"
	"github.com/tartampluch/go-contactbook/internal/engine"
	"github.com/tartampluch/go-contactbook/internal/i18n"
)

// CLI is the top-level command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Debug   bool             `help:"Enable debug logging to stderr."`
	Config  string           `help:"Settings file (YAML)." default:"${settings}"`
	Lang    string           `help:"Output language (en, uk)."`
	Policy  string           `help:"Invalid vCard values: strict (abort) or lenient (log and drop)."`

	List      ListCmd      `cmd:"" help:"List contacts in batches."`
	Find      FindCmd      `cmd:"" help:"Show one contact."`
	Birthdays BirthdaysCmd `cmd:"" help:"Show days left until each birthday."`
	Calendar  CalendarCmd  `cmd:"" help:"Write the birthday calendar (iCalendar)."`
	Export    ExportCmd    `cmd:"" help:"Write the address book as vCard 4.0."`
	Serve     ServeCmd     `cmd:"" help:"Serve the calendar and vCards on localhost."`
	Check     CheckCmd     `cmd:"" help:"Validate a phone number or birthday."`
	Login     LoginCmd     `cmd:"" help:"Store the password of a remote source in the keyring."`
}

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr, func(code int) { os.Exit(code) }))
}

// runMain parses args, wires dependencies and runs the selected command.
func runMain(args []string, stdout, stderr io.Writer, exit func(int)) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("contactbook"),
		kong.Description(config.AppName+": a personal contact book."),
		kong.Vars{
			"version":  strings.TrimSpace(fmt.Sprintf(config.MsgVersionOutput, config.AppName, config.Version, runtime.GOOS, runtime.GOARCH)),
			"settings": config.SettingsFileName,
		},
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return config.ExitCodeError
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return config.ExitCodeError
	}

	setupLogging(stderr, cli.Debug)
	logStartupInfo()

	a, err := newApp(cli, stdout)
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintln(stderr, err)
		return config.ExitCodeError
	}

	// Cancel on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(a); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintln(stderr, err)
		return config.ExitCodeError
	}

	slog.Debug(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// newApp resolves settings (file, environment, then flags) and builds the collaborators.
func newApp(cli CLI, stdout io.Writer) (*app, error) {
	settings, err := config.LoadSettings(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.Lang != "" {
		settings.Language = cli.Lang
	}
	if cli.Policy != "" {
		settings.Policy = cli.Policy
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	policy, err := contact.ParsePolicy(settings.Policy)
	if err != nil {
		return nil, err
	}

	clock := contact.RealClock{}
	return &app{
		out:      stdout,
		settings: settings,
		tr:       i18n.New(settings.Language),
		clock:    clock,
		keyring:  credentials.NewStore(),
		loader: &engine.Loader{
			Fetcher: engine.NewHTTPFetcher(),
			Codec:   &engine.Codec{Policy: policy, Clock: clock},
		},
		styles: newStyles(stdout),
	}, nil
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON slog handler on w. Stdout is reserved for
// command output, so logs go to stderr at Warn unless debug is set.
func setupLogging(w io.Writer, debugMode bool) {
	level := slog.LevelWarn
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, opts)))
}
