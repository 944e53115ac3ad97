package catapult

import (
	"fmt"
	"strconv"
	"strings"
)

// NetworkType is the one-byte network identifier mixed into addresses and
// transaction headers.
type NetworkType uint8

const (
	MainNet   NetworkType = 0x68
	TestNet   NetworkType = 0x98
	Mijin     NetworkType = 0x60
	MijinTest NetworkType = 0x90
)

var networkNames = map[NetworkType]string{
	MainNet:   "MAIN_NET",
	TestNet:   "TEST_NET",
	Mijin:     "MIJIN",
	MijinTest: "MIJIN_TEST",
}

func (n NetworkType) String() string {
	if name, ok := networkNames[n]; ok {
		return name
	}
	return fmt.Sprintf("NetworkType(%d)", uint8(n))
}

// ParseNetworkType accepts either a network name ("MIJIN_TEST", "testnet",
// ...) or its numeric identifier in decimal ("144") or hex ("0x90").
func ParseNetworkType(s string) (NetworkType, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for network, name := range networkNames {
		if normalized == name || normalized == strings.ReplaceAll(name, "_", "") {
			return network, nil
		}
	}

	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown network type %q", s)
	}

	network := NetworkType(v)
	if _, ok := networkNames[network]; !ok {
		return 0, fmt.Errorf("unknown network type %q", s)
	}

	return network, nil
}

// Decode implements envconfig.Decoder.
func (n *NetworkType) Decode(value string) error {
	network, err := ParseNetworkType(value)
	if err != nil {
		return err
	}

	*n = network
	return nil
}
