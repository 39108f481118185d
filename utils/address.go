package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidEVMAddress reports whether addr is a well-formed EVM receiver
// address: "0x" followed by exactly 40 hex characters. The bare 20-byte hex
// form without the prefix is rejected; the destination router expects the
// prefixed form.
func IsValidEVMAddress(addr string) bool {
	if !strings.HasPrefix(addr, "0x") {
		return false
	}
	return common.IsHexAddress(addr)
}

// EVMAddressBytes decodes a validated EVM address into its 20-byte form.
func EVMAddressBytes(addr string) []byte {
	return common.HexToAddress(addr).Bytes()
}
