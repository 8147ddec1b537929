package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"markup/internal/config"
	"markup/pkg/markup"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	env := envFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.Load(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if env.Log, env.closeLog, err = env.Cfg.Logging.Prepare(cmd.Bool("debug")); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.Engine = markup.New(*env.Cfg, env.Log)

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)

	env.Log.Debug("Program ended", zap.Duration("elapsed", env.uptime()), zap.Strings("parsed args", cmd.Args().Slice()))

	// errors must be reported directly to stderr from now on
	_ = env.Log.Sync()
	if env.closeLog != nil {
		if er := env.closeLog(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close log file: %w", er))
		}
	}
	return
}

var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	if env.Cfg != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            config.AppName,
		Usage:           "tolerant HTML tree and CSS declaration toolkit",
		Version:         "1.0.0 (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to console"},
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "Prints the node tree of an HTML document",
				ArgsUsage: "[SOURCE]",
				Action:    runParse,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "attributes", Aliases: []string{"a"}, Usage: "print element attributes"},
				},
			},
			{
				Name:      "format",
				Usage:     "Parses HTML and writes it back using the selected parser profile",
				ArgsUsage: "[SOURCE] [DESTINATION]",
				Action:    runFormat,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "profile", Aliases: []string{"p"},
						Usage: "parser `PROFILE` overriding configuration (" + config.ProfileRoundTrip + ", " + config.ProfileCompact + ", " + config.ProfileText + ")"},
				},
				Description: "SOURCE may be a file, a directory (all .html/.htm files are processed recursively, DESTINATION is required) or absent for STDIN.",
			},
			{
				Name:      "css",
				Usage:     "Prints the entries of one or more stylesheets",
				ArgsUsage: "FILE...",
				Action:    runCSS,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "html", Usage: "read <style> elements of HTML files instead of plain CSS"},
				},
			},
			{
				Name:      "style",
				Usage:     "Prints active style values of an element",
				ArgsUsage: "SOURCE",
				Action:    runStyle,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "element `ID`", Required: true},
					&cli.StringSliceFlag{Name: "property", Aliases: []string{"p"}, Usage: "style `NAME` to resolve, all declared properties when absent"},
				},
			},
			{
				Name:      "select",
				Usage:     "Prints elements matching a CSS selector",
				ArgsUsage: "SELECTOR [SOURCE]",
				Action:    runSelect,
			},
			{
				Name:      "embed",
				Usage:     "Replaces local image references with data URLs",
				ArgsUsage: "SOURCE [DESTINATION]",
				Action:    runEmbed,
			},
			{
				Name:      "stats",
				Usage:     "Prints node statistics of HTML documents",
				ArgsUsage: "FILE...",
				Action:    runStats,
			},
			{
				Name:      "dumpconfig",
				Usage:     "Dumps either default or actual configuration (YAML)",
				ArgsUsage: "[DESTINATION]",
				Action:    outputConfiguration,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default configuration"},
				},
			},
		},
	}
}

func main() {

	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := newApp()

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
