package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/announcer"
	nodeclient "github.com/gabapcia/catapultcli/internal/infra/blockchain/catapult"
	"github.com/gabapcia/catapultcli/internal/journal"
	"github.com/gabapcia/catapultcli/internal/monitor"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/txbuilder"

	"github.com/urfave/cli/v3"
)

// Node is the part of the node API commands query directly.
type Node interface {
	AccountPublicKey(ctx context.Context, address catapult.Address) (catapult.PublicKey, error)
	LinkedMosaicID(ctx context.Context, id catapult.NamespaceID) (catapult.MosaicID, error)
	TransactionStatus(ctx context.Context, hash catapult.Hash) (nodeclient.TransactionStatus, error)
}

// Services are the dependencies shared by every command.
type Services struct {
	Accounts  account.Resolver
	Node      Node
	Announcer announcer.Announcer
	Monitor   monitor.Manager

	// Journal is nil when announcements are not journaled.
	Journal journal.Journal

	// AccountWriter is nil unless accounts are kept in Redis.
	AccountWriter account.Writer

	Env txbuilder.Env

	// CurrencyMosaic, when non-zero, is used as is. Otherwise the mosaic
	// linked to CurrencyNamespace is looked up.
	CurrencyNamespace catapult.NamespaceID
	CurrencyMosaic    catapult.MosaicID
}

// Bootstrap builds the services for a node endpoint. release frees them and
// is called once the command returns.
type Bootstrap func(ctx context.Context, endpoint string) (svc *Services, release func(), err error)

// Run executes the catapultcli application with os.Args.
//
// Commands:
//
//   - one per transaction kind (register-namespace, transfer, hashlock, ...)
//   - `monitor`: only print the events of some addresses.
//   - `status`: show what is known about an announced transaction.
//   - `account-import`: copy an accounts file into the Redis account store.
func Run(ctx context.Context, bootstrap Bootstrap) error {
	return newApp(bootstrap, os.Stdin, os.Stdout).Run(ctx, os.Args)
}

// session builds the services lazily so that help and flag errors never
// touch the network.
type session struct {
	bootstrap Bootstrap
	prompter  *Prompter
	out       io.Writer

	once    sync.Once
	svc     *Services
	release func()
	err     error
}

func (s *session) services(ctx context.Context, c *cli.Command) (*Services, error) {
	s.once.Do(func() {
		s.svc, s.release, s.err = s.bootstrap(ctx, c.String(flagEndpoint))
	})
	return s.svc, s.err
}

func (s *session) close() {
	if s.release != nil {
		s.release()
	}
}

func newApp(bootstrap Bootstrap, in io.Reader, out io.Writer) *cli.Command {
	s := &session{
		bootstrap: bootstrap,
		prompter:  NewPrompter(in, out),
		out:       out,
	}

	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "catapultcli",
		Description:           "Build, sign and announce Catapult transactions, then watch the node confirm them.",
		Usage:                 "catapultcli [global flags] command [flags]",
		Reader:                in,
		Writer:                out,
		Flags:                 globalFlags(),
		After: func(ctx context.Context, c *cli.Command) error {
			s.close()
			return nil
		},
		Commands: []*cli.Command{
			registerNamespaceCommand(s),
			accountLinkCommand(s),
			addressAliasCommand(s, catapult.AliasLink),
			addressAliasCommand(s, catapult.AliasUnlink),
			mosaicDefinitionCommand(s),
			mosaicAliasCommand(s),
			mosaicSupplyCommand(s),
			transferCommand(s),
			hashLockCommand(s),
			accountRestrictionCommand(s),
			monitorCommand(s),
			statusCommand(s),
			accountImportCommand(s),
		},
	}
}

const (
	flagEndpoint     = "endpoint"
	flagSigner       = "signer"
	flagAwait        = "await"
	flagAwaitTimeout = "await-timeout"
	flagListen       = "listen"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagEndpoint,
			Aliases: []string{"c"},
			Usage:   "Node REST endpoint",
			Value:   "http://localhost:3000",
			Sources: cli.EnvVars("CATAPULT_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:    flagSigner,
			Aliases: []string{"s"},
			Usage:   "Name of the signing account (defaults to the command's test account)",
		},
		&cli.BoolFlag{
			Name:  flagAwait,
			Usage: "Wait until the announced transaction is confirmed",
		},
		&cli.DurationFlag{
			Name:  flagAwaitTimeout,
			Usage: "How long --await waits for the confirmation",
			Value: 2 * time.Minute,
		},
		&cli.DurationFlag{
			Name:  flagListen,
			Usage: "How long to keep printing events after announcing, 0 until interrupted",
		},
	}
}

// signerName is the --signer flag or the command's default account.
func signerName(c *cli.Command, fallback string) string {
	if name := c.String(flagSigner); name != "" {
		return name
	}
	return fallback
}

// resolveAddress accepts an account name or an address.
func resolveAddress(ctx context.Context, svc *Services, value string) (catapult.Address, error) {
	if address, err := catapult.ParseAddress(value); err == nil {
		return address, nil
	}

	acct, err := svc.Accounts.Resolve(ctx, value)
	if err != nil {
		return catapult.Address{}, fmt.Errorf("%w: %w", invalid("address or account name"), err)
	}
	return acct.Address, nil
}

// currencyMosaic returns the network currency mosaic.
func currencyMosaic(ctx context.Context, svc *Services) (catapult.MosaicID, error) {
	if svc.CurrencyMosaic != 0 {
		return svc.CurrencyMosaic, nil
	}
	return svc.Node.LinkedMosaicID(ctx, svc.CurrencyNamespace)
}
