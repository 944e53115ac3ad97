package redis

import (
	"context"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/account"

	"github.com/redis/go-redis/v9"
)

const (
	accountKeyPrefix = "account"

	accountFieldAddress    = "address"
	accountFieldPrivateKey = "private_key"
)

// accountKey returns the hash holding one account.
//
// Format: "account:{name}"
func accountKey(name string) string {
	return fmt.Sprintf("%s:%s", accountKeyPrefix, name)
}

// FindAccount implements account.Store. A missing hash, or one without an
// address, is reported as account.ErrAccountNotFound.
func (c *client) FindAccount(ctx context.Context, name string) (account.Record, error) {
	fields, err := c.conn.HGetAll(ctx, accountKey(name)).Result()
	if err != nil {
		return account.Record{}, err
	}

	address, ok := fields[accountFieldAddress]
	if !ok || address == "" {
		return account.Record{}, fmt.Errorf("%w: %s", account.ErrAccountNotFound, name)
	}

	return account.Record{
		Name:       name,
		Address:    address,
		PrivateKey: fields[accountFieldPrivateKey],
	}, nil
}

// SaveAccount writes record, replacing any previous value.
func (c *client) SaveAccount(ctx context.Context, record account.Record) error {
	key := accountKey(record.Name)

	_, err := c.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			accountFieldAddress, record.Address,
			accountFieldPrivateKey, record.PrivateKey,
		)
		return nil
	})
	return err
}

// Compile-time assertions to ensure *client satisfies the account.Store and account.Writer interfaces
var (
	_ account.Store  = new(client)
	_ account.Writer = new(client)
)
