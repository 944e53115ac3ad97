package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/announcer"
	"github.com/gabapcia/catapultcli/internal/monitor"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/logger"
	"github.com/gabapcia/catapultcli/internal/txbuilder"

	"github.com/urfave/cli/v3"
)

// pipeline is the flow shared by every transaction command: watch the
// signer, build, sign, announce, then await or keep listening.
type pipeline struct {
	c   *cli.Command
	svc *Services
	out io.Writer
}

func (s *session) pipeline(ctx context.Context, c *cli.Command) (*pipeline, error) {
	svc, err := s.services(ctx, c)
	if err != nil {
		return nil, err
	}
	return &pipeline{c: c, svc: svc, out: s.out}, nil
}

// signer resolves the --signer account, or fallback, and checks that it can
// sign. A missing key fails before anything is dialed or queried.
func (p *pipeline) signer(ctx context.Context, fallback string) (account.Account, error) {
	signer, err := p.svc.Accounts.Resolve(ctx, signerName(p.c, fallback))
	if err != nil {
		return account.Account{}, err
	}
	if _, err := signer.KeyPair(); err != nil {
		return account.Account{}, err
	}
	return signer, nil
}

// watch opens the block subscription and one subscription per address.
func (p *pipeline) watch(ctx context.Context, addresses ...catapult.Address) error {
	if err := p.svc.Monitor.MonitorBlocks(ctx); err != nil {
		return err
	}

	for _, address := range addresses {
		created, err := p.svc.Monitor.MonitorAddress(ctx, address)
		if err != nil {
			return err
		}
		if !created {
			logger.Debug(ctx, "address already monitored", "address", address.String())
		}
	}
	return nil
}

// build assembles params with the session's environment.
func (p *pipeline) build(params txbuilder.Params) (catapult.Transaction, error) {
	return txbuilder.Build(p.svc.Env, params)
}

// announce builds params, signs with signer and submits.
func (p *pipeline) announce(ctx context.Context, signer account.Account, params txbuilder.Params) (announcer.Result, error) {
	tx, err := p.build(params)
	if err != nil {
		return announcer.Result{}, err
	}

	signed, err := p.svc.Announcer.Sign(tx, signer)
	if err != nil {
		return announcer.Result{}, err
	}
	return p.submit(ctx, params.Kind(), signed)
}

// submit announces an already signed transaction and prints the outcome.
func (p *pipeline) submit(ctx context.Context, kind txbuilder.Kind, signed catapult.SignedTransaction) (announcer.Result, error) {
	fmt.Fprintf(p.out, "Announcing %s payload: %s\n", kind, signed.PayloadHex())

	result, err := p.svc.Announcer.Submit(ctx, kind, signed)
	if err != nil {
		return result, err
	}

	if result.Status == announcer.StatusAccepted {
		fmt.Fprintf(p.out, "%s announced correctly\nHash:   %s\nSigner: %s\n\n", kind, result.Hash, result.Signer)
	} else {
		fmt.Fprintf(p.out, "%s rejected: %v\n\n", kind, result.Err)
	}
	return result, nil
}

// settle waits for the confirmation of result when --await is set, and
// otherwise keeps the listeners open for --listen.
func (p *pipeline) settle(ctx context.Context, result announcer.Result) error {
	if p.c.Bool(flagAwait) {
		if result.Status != announcer.StatusAccepted {
			return nil
		}
		_, err := p.await(ctx, result.Hash)
		return err
	}
	return p.listen(ctx)
}

// await blocks until hash is confirmed, fails, or --await-timeout elapses.
func (p *pipeline) await(ctx context.Context, hash catapult.Hash) (monitor.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, p.c.Duration(flagAwaitTimeout))
	defer cancel()

	fmt.Fprintf(p.out, "Waiting for %s to be confirmed...\n", hash)

	ev, err := p.svc.Monitor.AwaitConfirmation(ctx, hash)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ev, fmt.Errorf("transaction %s not confirmed within %s: %w", hash, p.c.Duration(flagAwaitTimeout), err)
		}
		return ev, err
	}

	fmt.Fprintf(p.out, "Confirmed %s at height %d\n", hash, ev.Height)
	return ev, nil
}

// listen keeps the process, and with it the listeners, alive for --listen,
// or until ctx is done when --listen is zero.
func (p *pipeline) listen(ctx context.Context) error {
	if d := p.c.Duration(flagListen); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	<-ctx.Done()
	return nil
}
