package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEVMAddress(t *testing.T) {
	testCases := []struct {
		name    string
		address string
		valid   bool
	}{
		{"checksummed address", "0x9d087fC03ae39b088326b67fA3C788236645b717", true},
		{"lowercase address", "0x9d087fc03ae39b088326b67fa3c788236645b717", true},
		{"too short", "0x123", false},
		{"empty", "", false},
		{"missing prefix", "9d087fC03ae39b088326b67fA3C788236645b717", false},
		{"non-hex characters", "0xZZ087fC03ae39b088326b67fA3C788236645b717", false},
		{"too long", "0x9d087fC03ae39b088326b67fA3C788236645b717aa", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidEVMAddress(tc.address))
		})
	}
}

func TestEVMAddressBytes(t *testing.T) {
	b := EVMAddressBytes("0x9d087fC03ae39b088326b67fA3C788236645b717")
	assert.Len(t, b, 20)
	assert.Equal(t, byte(0x9d), b[0])
	assert.Equal(t, byte(0x17), b[19])
}
