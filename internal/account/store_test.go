package account

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticStore(t *testing.T) {
	t.Run("should hold every built-in account", func(t *testing.T) {
		store := NewStaticStore()

		for _, name := range []string{"tester1", "tester2", "tester3", "tester4", "multisig1"} {
			r, err := store.FindAccount(t.Context(), name)
			require.NoError(t, err, name)
			assert.Empty(t, r.PrivateKey, name)
		}
	})

	t.Run("should let overlays replace built-in entries", func(t *testing.T) {
		store := NewStaticStore(Record{Name: "tester1", Address: testAddress, PrivateKey: testPrivateKey})

		r, err := store.FindAccount(t.Context(), "tester1")

		require.NoError(t, err)
		assert.Equal(t, testAddress, r.Address)
		assert.Equal(t, testPrivateKey, r.PrivateKey)
	})

	t.Run("should report unknown names", func(t *testing.T) {
		_, err := NewStaticStore().FindAccount(t.Context(), "nobody")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("should read accounts from YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "accounts.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`accounts:
  - name: tester1
    address: `+testAddress+`
    private_key: `+testPrivateKey+`
  - name: cosigner
    address: SC3KUHEEBYHZL35OL6ST7KRMB6RTOEMP2J6UFMY
`), 0o600))

		records, err := LoadFile(path)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, Record{Name: "tester1", Address: testAddress, PrivateKey: testPrivateKey}, records[0])
		assert.Equal(t, "cosigner", records[1].Name)
		assert.Empty(t, records[1].PrivateKey)
	})

	t.Run("should fail with a configuration error for a missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("should fail with a configuration error for invalid YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "accounts.yaml")
		require.NoError(t, os.WriteFile(path, []byte("accounts: [:"), 0o600))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}
