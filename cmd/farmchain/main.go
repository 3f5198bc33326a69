// Command farmchain is a terminal client for the FarmChainX backend.
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

	"github.com/Adithya91-code/Farmchaingpt/internal/account"
	"github.com/Adithya91-code/Farmchaingpt/internal/config"
	"github.com/Adithya91-code/Farmchaingpt/internal/gateway"
	"github.com/Adithya91-code/Farmchaingpt/internal/obs"
	"github.com/Adithya91-code/Farmchaingpt/internal/session"
	"github.com/Adithya91-code/Farmchaingpt/internal/store/pg"
)

var version = "0.1.0"

var errUsage = errors.New("usage")

func main() {
	obs.Init()
	obs.InitBuildInfo("farmchain", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	store       *session.Store
	client      *gateway.Client
	account     *account.Service
	out         io.Writer
	sessionFile string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	fs := flag.NewFlagSet("farmchain", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "backend base URL")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-call timeout (0 waits indefinitely)")
	fs.StringVar(&cfg.SessionFile, "session", cfg.SessionFile, "session file")
	fs.StringVar(&cfg.PGDSN, "dsn", cfg.PGDSN, "PostgreSQL DSN for shared session storage")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return 2
	}

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "session storage:", err)
		return 1
	}
	defer closeStorage()

	store := session.NewStore(storage)
	client := gateway.New(cfg.APIURL, store,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithRateLimit(cfg.Rate, cfg.Burst),
	)
	a := &app{
		store:   store,
		client:  client,
		account: account.NewService(client, store),
		out:     stdout,
	}
	if fsr, ok := storage.(*session.FileStorage); ok {
		a.sessionFile = fsr.Path()
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
	if err := handler(ctx, a, rest); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func openStorage(ctx context.Context, cfg config.Config) (session.Storage, func(), error) {
	if cfg.PGDSN == "" {
		return session.NewFileStorage(cfg.SessionFile), func() {}, nil
	}
	st, err := pg.Open(cfg.PGDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return st, func() { _ = st.Close() }, nil
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: farmchain [-api URL] [-timeout d] [-session file] [-dsn dsn] <command> [flags]

commands:
  signin       -email -password
  signup       -email -password -name -location -role farmer|distributor|retailer
  signout
  whoami
  list         [-search text] [-type cropType] [-types]
  create       -name -type -harvest -expiry -soil -pesticides -image
  update       -id ... (same fields as create)
  delete       -id
  farmer       [-id farmerId]
  distributor  [-id distributorId]
  scan         <cropId>
`)
}
