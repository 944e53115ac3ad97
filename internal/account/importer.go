package account

import (
	"context"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/pkg/logger"
	"github.com/gabapcia/catapultcli/internal/pkg/types"
)

// Writer persists account records.
type Writer interface {
	// SaveAccount stores record under its name, replacing any previous one.
	SaveAccount(ctx context.Context, record Record) error
}

// Import checks every record and then saves them through w. Nothing is
// written when a record is invalid, a name repeats, or a private key does
// not belong to its address. Addresses are saved in their normalised form.
func Import(ctx context.Context, w Writer, records []Record) (int, error) {
	names := types.NewSet[string]()
	accounts := make([]Account, 0, len(records))
	for _, record := range records {
		if !names.Add(record.Name) {
			return 0, fmt.Errorf("%w: account %q is listed twice", ErrConfiguration, record.Name)
		}

		acct, err := parseRecord(record)
		if err != nil {
			return 0, err
		}
		if acct.PrivateKey != "" {
			if _, err := acct.KeyPair(); err != nil {
				return 0, err
			}
		}
		accounts = append(accounts, acct)
	}

	for i, acct := range accounts {
		err := w.SaveAccount(ctx, Record{
			Name:       acct.Name,
			Address:    acct.Address.String(),
			PrivateKey: acct.PrivateKey,
		})
		if err != nil {
			return i, fmt.Errorf("save account %q: %w", acct.Name, err)
		}
		logger.Debug(ctx, "account imported", "account", acct)
	}
	return len(accounts), nil
}
