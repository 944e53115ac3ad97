package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/config"

	"github.com/urfave/cli/v3"
)

// accountImportCommand loads an accounts file into the writable account
// store.
//
// Usage example:
//
//	CATAPULT_ACCOUNT_STORE=redis catapultcli account-import --file accounts.yaml
func accountImportCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "account-import",
		Usage: "Save the accounts of a YAML file into the Redis account store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Accounts file", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := s.services(ctx, c)
			if err != nil {
				return err
			}
			if svc.AccountWriter == nil {
				return fmt.Errorf("%w: the account store is read-only, set %s_ACCOUNT_STORE=%s", account.ErrConfiguration, config.Prefix, config.AccountStoreRedis)
			}

			records, err := account.LoadFile(c.String("file"))
			if err != nil {
				return err
			}

			n, err := account.Import(ctx, svc.AccountWriter, records)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Imported %d accounts\n", n)
			return nil
		},
	}
}
