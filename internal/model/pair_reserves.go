package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PairReserves holds the token ordering and current reserves of an AMM pair.
// Reserves are raw integers in each token's smallest unit.
type PairReserves struct {
	Pair     common.Address
	Token0   common.Address
	Token1   common.Address
	Reserve0 *big.Int
	Reserve1 *big.Int
}
