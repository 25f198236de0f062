package replay

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParsePoolID converts a hex string into a 32-byte pool identifier.
func ParsePoolID(input string) (common.Hash, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Hash{}, fmt.Errorf("empty pool id")
	}
	data, err := hexutil.Decode(input)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid pool id: %s", input)
	}
	if len(data) != 32 {
		return common.Hash{}, fmt.Errorf("invalid pool id length: %s", input)
	}
	return common.BytesToHash(data), nil
}
