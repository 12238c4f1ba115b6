package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/moneymanager/api"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the account over HTTP" }
func (*serveCmd) Usage() string {
	return `mm serve [-addr <host:port>]

Serves the account operations as a JSON API until interrupted.
Run 'mm topic server' for the routes.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, server.addr if empty")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		addr := c.addr
		if addr == "" {
			addr = s.cfg.Server.Addr
		}
		server := api.NewServer(s.ledger, api.Options{
			Currency:   s.cfg.Account.Currency,
			Categories: s.cfg.Account.Categories,
			Log:        s.log,
		})
		s.log.WithField("addr", addr).Info("serving")
		if err := server.ListenAndServe(ctx, addr); err != nil {
			fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}
