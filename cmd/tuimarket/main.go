package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tuimarket/internal/app"
	"tuimarket/internal/config"
	"tuimarket/internal/logging"
	"tuimarket/internal/watchlist"
)

const usage = `usage: tuimarket [symbols-file]

Shows a live table of stock quotes for the symbols listed one per line in
symbols-file. Without an argument the file is looked up as ./symbols,
./symbols.txt, ~/.config/tuimarket/symbols, ~/.tuimarket/symbols and
~/.tuimarket_symbols.

Keys: q/Esc quit, j/k or arrows scroll, space/b page, g/G top/bottom.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tuimarket", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stdout, usage)
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "tuimarket: too many arguments\n\n%s", usage)
		return 2
	}

	path, optional := config.Path()
	cfg, err := config.Load(path, optional)
	if err != nil {
		fmt.Fprintf(stderr, "tuimarket: config error: %v\n", err)
		return 1
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Path: cfg.Log.Path})
	if err != nil {
		fmt.Fprintf(stderr, "tuimarket: logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx, app.Deps{
		Config:      cfg,
		SymbolsPath: fs.Arg(0),
		Logger:      logger,
	})
	if err != nil {
		logger.Error("fatal", zap.Error(err))
		fmt.Fprintf(stderr, "tuimarket: %s\n", fatalMessage(err))
		return 1
	}
	return 0
}

func fatalMessage(err error) string {
	switch {
	case errors.Is(err, watchlist.ErrSourceNotFound):
		return "Cannot find symbols file.\n" +
			"Please create a file named 'symbols.txt' with one stock symbol per line (e.g., AAPL, GOOG, MSFT)."
	case errors.Is(err, watchlist.ErrNoSymbols):
		return fmt.Sprintf("%v\nAdd at least one stock symbol per line (e.g., AAPL).", err)
	case errors.Is(err, app.ErrTerminal):
		return fmt.Sprintf("%v\ntuimarket needs an interactive terminal.", err)
	default:
		return err.Error()
	}
}
