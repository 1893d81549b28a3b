package opinion

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeWallet valida y normaliza un wallet address a su forma
// checksummed EIP-55. Las direcciones truncadas que muestra la UI
// (0x1234...abcd) no pasan la validación.
func NormalizeWallet(addr string) (string, error) {
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("opinion.NormalizeWallet: %q is not a valid address", addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}
