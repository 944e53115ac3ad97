package account

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Record is an account as stored: the address is kept as text so legacy
// 40 character addresses survive until they are resolved.
type Record struct {
	Name       string `yaml:"name" validate:"required"`
	Address    string `yaml:"address" validate:"required,catapult_address"`
	PrivateKey string `yaml:"private_key" validate:"omitempty,catapult_key"`
}

// Store looks accounts up by name.
type Store interface {
	// FindAccount returns ErrAccountNotFound for unknown names.
	FindAccount(ctx context.Context, name string) (Record, error)
}

// DefaultRecords is the built-in table of test accounts. Keys are blank and
// must be supplied through an accounts file or the Redis store.
var DefaultRecords = []Record{
	{Name: "tester1", Address: "SBXTSKD2FDOP4A37ANWSWCOKGPIBGYYK5U3CIYI"},
	{Name: "tester2", Address: "SC3KUHEEBYHZL35OL6ST7KRMB6RTOEMP2J6UFMY"},
	{Name: "tester3", Address: "SD2AMYW6QRH2DQ6BCSMKDHKSL7PMEDOORXM73BY"},
	{Name: "tester4", Address: "SDBTF7Y63B4FONR6PFJ64BQA4EKRYB7CBTWEMOI"},
	{Name: "multisig1", Address: "SCDW6TN6OS7G3QOZZEMDMUGHOJSHM3XZC2WYFFA"},
}

// StaticStore is an in-memory Store. It is safe for concurrent use.
type StaticStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

var _ Store = (*StaticStore)(nil)

// NewStaticStore returns a store holding DefaultRecords overlaid by records.
// An overlay replaces the built-in entry of the same name.
func NewStaticStore(records ...Record) *StaticStore {
	s := &StaticStore{records: make(map[string]Record, len(DefaultRecords)+len(records))}
	s.Put(DefaultRecords...)
	s.Put(records...)
	return s
}

// Put adds or replaces records.
func (s *StaticStore) Put(records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.records[r.Name] = r
	}
}

func (s *StaticStore) FindAccount(_ context.Context, name string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[name]
	if !ok {
		return Record{}, ErrAccountNotFound
	}
	return r, nil
}

type accountsFile struct {
	Accounts []Record `yaml:"accounts"`
}

// LoadFile reads records from a YAML file shaped as
//
//	accounts:
//	  - name: tester1
//	    address: SBXTSKD2FDOP4A37ANWSWCOKGPIBGYYK5U3CIYI
//	    private_key: 575DBB...
func LoadFile(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: accounts file: %w", ErrConfiguration, err)
	}

	var file accountsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: accounts file %s: %w", ErrConfiguration, path, err)
	}

	return file.Accounts, nil
}
