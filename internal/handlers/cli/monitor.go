package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/journal"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/transport/rest"
	"github.com/gabapcia/catapultcli/internal/pkg/types"

	"github.com/urfave/cli/v3"
)

// monitorCommand prints the events of some addresses and new blocks until
// interrupted (or for --listen).
//
// Usage example:
//
//	catapultcli monitor -a tester1 -a tester2
func monitorCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Print new blocks and the transactions of some addresses",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "address", Aliases: []string{"a"}, Usage: "Address or account name, repeatable (defaults to the signer)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}

			values := c.StringSlice("address")
			if len(values) == 0 {
				values = []string{signerName(c, defaultSigner)}
			}

			seen := types.NewSet[catapult.Address]()
			addresses := make([]catapult.Address, 0, len(values))
			for _, value := range values {
				address, err := resolveAddress(ctx, p.svc, value)
				if err != nil {
					return err
				}
				if !seen.Add(address) {
					continue
				}
				addresses = append(addresses, address)
			}

			if err := p.watch(ctx, addresses...); err != nil {
				return err
			}
			for _, address := range addresses {
				fmt.Fprintf(s.out, "Monitoring %s\n", address)
			}
			return p.listen(ctx)
		},
	}
}

// statusCommand shows the journal entry of a transaction, or asks the node
// when there is none.
//
// Usage example:
//
//	catapultcli status --hash 058C9204...
func statusCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the status of an announced transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "hash", Usage: "Transaction hash", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			hash, err := catapult.ParseHash(c.String("hash"))
			if err != nil {
				return fmt.Errorf("%w: %w", invalid("transaction hash"), err)
			}

			svc, err := s.services(ctx, c)
			if err != nil {
				return err
			}

			if svc.Journal != nil {
				entry, err := svc.Journal.Lookup(ctx, hash)
				switch {
				case err == nil:
					fmt.Fprintf(s.out, "Hash:    %s\nKind:    %s\nSigner:  %s\nStatus:  %s\n", entry.Hash, entry.Kind, entry.Signer, entry.Status)
					if entry.Code != "" {
						fmt.Fprintf(s.out, "Code:    %s\n", entry.Code)
					}
					if entry.Height != 0 {
						fmt.Fprintf(s.out, "Height:  %d\n", entry.Height)
					}
					fmt.Fprintf(s.out, "Updated: %s\n", entry.UpdatedAt.Format("2006-01-02 15:04:05Z07:00"))
					return nil
				case !errors.Is(err, journal.ErrEntryNotFound):
					return err
				}
			}

			status, err := svc.Node.TransactionStatus(ctx, hash)
			if err != nil {
				if rest.IsNotFound(err) {
					return fmt.Errorf("transaction %s is unknown to the journal and the node", hash)
				}
				return err
			}

			fmt.Fprintf(s.out, "Hash:    %s\nGroup:   %s\nCode:    %s\n", hash, status.Group, status.Code)
			if status.Height != 0 {
				fmt.Fprintf(s.out, "Height:  %d\n", status.Height)
			}
			return nil
		},
	}
}
