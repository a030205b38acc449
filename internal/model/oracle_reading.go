package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// OracleReading is the latest answer of a price feed together with its
// fixed-point scale. Answer is signed; callers must check it is positive
// before using it.
type OracleReading struct {
	Feed     common.Address
	Decimals uint8
	Answer   *big.Int
}
