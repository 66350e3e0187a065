package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
	"github.com/tailored-agentic-units/dfaequiv/checker"
	"github.com/tailored-agentic-units/dfaequiv/equivalence"
	"github.com/tailored-agentic-units/dfaequiv/observability"
	"github.com/tailored-agentic-units/dfaequiv/server"
	"github.com/tailored-agentic-units/dfaequiv/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dfaequiv", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configFile = fs.String("config", "", "Path to checker config JSON file")
		dir        = fs.String("dir", "", "Directory holding DFA descriptions (overrides config)")
		first      = fs.String("first", "", "First DFA description (overrides config)")
		second     = fs.String("second", "", "Second DFA description (overrides config)")
		printDFAs  = fs.Bool("print", false, "Print both DFAs in canonical form before the verdict")
		classify   = fs.Bool("classify", false, "Group the DFA descriptions given as arguments (default: every file in -dir) into equivalence classes")
		out        = fs.String("out", "", "Write the compared DFAs in canonical form to this directory")
		canonical  = fs.Bool("canonical", false, "Rewrite the compared DFA descriptions in canonical form")
		events     = fs.String("events", "", "Append engine and checker events as JSON lines to this file")
		serve      = fs.String("serve", "", "Serve the equivalence RPC service on this address instead of comparing files")
		verbose    = fs.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *out != "" && *canonical {
		fmt.Fprintln(stderr, "-out and -canonical are mutually exclusive")
		return 2
	}

	cfg := checker.DefaultConfig()
	if *configFile != "" {
		loaded, err := checker.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return 1
		}
		cfg = *loaded
	}
	cfg.Merge(&checker.Config{
		Store:  store.Config{Path: *dir},
		First:  *first,
		Second: *second,
	})

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *serve != "" {
		return serveRPC(ctx, *serve, logger, stderr)
	}

	if *events != "" {
		f, err := os.OpenFile(*events, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open events file: %v\n", err)
			return 1
		}
		defer f.Close()

		eventLog := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		observability.Register("events", observability.NewSlogObserver(eventLog))
		cfg.Observer += ",events"
	}

	c, err := checker.New(&cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create checker: %v\n", err)
		return 1
	}

	// dst stays nil for -canonical, which rewrites the sources in place.
	var dst store.Store
	if *out != "" {
		dst = store.NewFileStore(*out)
	}
	export := *out != "" || *canonical

	if *classify {
		var classes [][]string
		if fs.NArg() == 0 {
			classes, err = c.ClassifyAll(ctx)
		} else {
			classes, err = c.Classify(ctx, fs.Args()...)
		}
		if err != nil {
			reportError(stderr, err)
			return 1
		}
		if export {
			if err := c.Export(ctx, dst, slices.Concat(classes...)...); err != nil {
				reportError(stderr, err)
				return 1
			}
		}
		for _, class := range classes {
			fmt.Fprintln(stdout, strings.Join(class, " "))
		}
		return 0
	}

	verdict, err := c.Run(ctx)
	if err != nil {
		reportError(stderr, err)
		return 1
	}

	if export {
		if err := c.Export(ctx, dst, verdict.First, verdict.Second); err != nil {
			reportError(stderr, err)
			return 1
		}
	}

	if *printDFAs {
		// Loads are cached, so this reprints exactly what was compared.
		var b strings.Builder
		for _, key := range []string{verdict.First, verdict.Second} {
			d, err := c.Load(ctx, key)
			if err != nil {
				reportError(stderr, err)
				return 1
			}
			fmt.Fprintf(&b, "%s:\n%s", key, d)
		}
		io.WriteString(stdout, b.String())
	}

	fmt.Fprintln(stdout, verdict.Message())
	if *verbose && !verdict.Report.Equivalent {
		logger.Debug("distinguishing word", "witness", fmt.Sprintf("%q", automaton.FormatWord(verdict.Report.Witness)))
	}
	return 0
}

func reportError(stderr io.Writer, err error) {
	var srcErr *checker.SourceError
	switch {
	case errors.As(err, &srcErr) && errors.Is(err, store.ErrNotFound):
		fmt.Fprintf(stderr, "Could not open file %s\n", srcErr.Key)
	case errors.As(err, &srcErr) && errors.Is(err, store.ErrLoadFailed):
		fmt.Fprintf(stderr, "Could not read file %s\n", srcErr.Key)
	case errors.As(err, &srcErr) && errors.Is(err, store.ErrSaveFailed):
		fmt.Fprintf(stderr, "Could not write file %s: %v\n", srcErr.Key, srcErr.Err)
	case errors.As(err, &srcErr):
		fmt.Fprintf(stderr, "Input format error in %s: %v\n", srcErr.Key, srcErr.Err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
}

func serveRPC(ctx context.Context, addr string, logger *slog.Logger, stderr io.Writer) int {
	engine := equivalence.NewEngine(equivalence.WithObserver(observability.NewSlogObserver(logger)))

	mux := http.NewServeMux()
	mux.Handle(server.NewHandler(engine, server.DefaultLimits()))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(stderr, "Serving %s on %s\n", server.ServiceName, addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(stderr, "Server failed: %v\n", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, "Shutdown failed: %v\n", err)
			return 1
		}
	}

	snap := engine.Metrics().Snapshot()
	logger.Info("server stopped", "comparisons", snap.Comparisons, "pairs_visited", snap.PairsVisited)
	return 0
}
