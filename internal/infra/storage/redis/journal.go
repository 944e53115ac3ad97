package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gabapcia/catapultcli/internal/journal"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"

	"github.com/redis/go-redis/v9"
)

const (
	journalKeyPrefix = "journal"

	journalFieldKind      = "kind"
	journalFieldSigner    = "signer"
	journalFieldStatus    = "status"
	journalFieldCode      = "code"
	journalFieldHeight    = "height"
	journalFieldUpdatedAt = "updated_at"
)

// journalEntryKey returns the hash holding the entry of one transaction.
//
// Format: "journal:entry:{hash}"
func journalEntryKey(hash catapult.Hash) string {
	return fmt.Sprintf("%s:entry:%s", journalKeyPrefix, hash)
}

// SaveEntry implements journal.Storage. The whole entry is rewritten and its
// expiry refreshed in one transaction.
func (c *client) SaveEntry(ctx context.Context, entry journal.Entry) error {
	key := journalEntryKey(entry.Hash)

	_, err := c.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			journalFieldKind, entry.Kind,
			journalFieldSigner, entry.Signer,
			journalFieldStatus, string(entry.Status),
			journalFieldCode, entry.Code,
			journalFieldHeight, strconv.FormatUint(entry.Height, 10),
			journalFieldUpdatedAt, entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if c.journalTTL > 0 {
			pipe.Expire(ctx, key, c.journalTTL)
		}
		return nil
	})
	return err
}

// FindEntry implements journal.Storage.
func (c *client) FindEntry(ctx context.Context, hash catapult.Hash) (journal.Entry, error) {
	fields, err := c.conn.HGetAll(ctx, journalEntryKey(hash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = journal.ErrEntryNotFound
		}
		return journal.Entry{}, err
	}

	if len(fields) == 0 {
		return journal.Entry{}, fmt.Errorf("%w: %s", journal.ErrEntryNotFound, hash)
	}

	entry := journal.Entry{
		Hash:   hash,
		Kind:   fields[journalFieldKind],
		Signer: fields[journalFieldSigner],
		Status: journal.Status(fields[journalFieldStatus]),
		Code:   fields[journalFieldCode],
	}

	if raw := fields[journalFieldHeight]; raw != "" {
		if entry.Height, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return journal.Entry{}, fmt.Errorf("journal entry %s: height: %w", hash, err)
		}
	}

	if raw := fields[journalFieldUpdatedAt]; raw != "" {
		if entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return journal.Entry{}, fmt.Errorf("journal entry %s: updated_at: %w", hash, err)
		}
	}

	return entry, nil
}

// Compile-time assertion to ensure *client satisfies the journal.Storage interface
var _ journal.Storage = new(client)
