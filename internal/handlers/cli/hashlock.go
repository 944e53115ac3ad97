package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/announcer"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/txbuilder"

	"github.com/urfave/cli/v3"
)

const (
	defaultLockAmount   = 10_000_000
	defaultLockDuration = 1000
)

// hashLockCommand locks currency for an aggregate bonded transaction whose
// inner transfer is attributed to the recipient. With --await the aggregate
// is announced to the partial cache once the lock is confirmed.
//
// Usage example:
//
//	catapultcli --await hashlock -a tester1
func hashLockCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "hashlock",
		Usage: "Lock funds for an aggregate bonded transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "Recipient address or account name (defaults to the signer)"},
			&cli.Uint64Flag{Name: "amount", Usage: "Locked currency in atomic units", Value: defaultLockAmount},
			&cli.Uint64Flag{Name: "duration", Usage: "Lock duration in blocks", Value: defaultLockDuration},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}
			signer, err := p.signer(ctx, defaultSigner)
			if err != nil {
				return err
			}

			recipient := signer.Address
			if c.IsSet("address") {
				if recipient, err = resolveAddress(ctx, p.svc, c.String("address")); err != nil {
					return err
				}
			}

			if err := p.watch(ctx, signer.Address, recipient); err != nil {
				return err
			}

			recipientKey, err := p.svc.Node.AccountPublicKey(ctx, recipient)
			if err != nil {
				return fmt.Errorf("recipient %s: %w", recipient, err)
			}

			aggregate, err := p.build(txbuilder.AggregateBonded{
				Transactions: []txbuilder.Embedded{{
					Signer: recipientKey,
					Params: txbuilder.Transfer{Recipient: recipient},
				}},
			})
			if err != nil {
				return err
			}
			signedAggregate, err := p.svc.Announcer.Sign(aggregate, signer)
			if err != nil {
				return err
			}

			currency, err := currencyMosaic(ctx, p.svc)
			if err != nil {
				return err
			}

			lock, err := p.announce(ctx, signer, txbuilder.HashLock{
				Mosaic:   catapult.Mosaic{ID: currency, Amount: c.Uint64("amount")},
				Duration: c.Uint64("duration"),
				Hash:     signedAggregate.Hash,
			})
			if err != nil {
				return err
			}

			if !c.Bool(flagAwait) || lock.Status != announcer.StatusAccepted {
				fmt.Fprintf(s.out, "Aggregate bonded %s is announced once the lock is confirmed (use --await)\n", signedAggregate.Hash)
				return p.settle(ctx, lock)
			}

			if _, err := p.await(ctx, lock.Hash); err != nil {
				return err
			}

			result, err := p.submit(ctx, txbuilder.KindAggregateBonded, signedAggregate)
			if err != nil {
				return err
			}
			return p.settle(ctx, result)
		},
	}
}
