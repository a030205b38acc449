package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RobotTelemetry is the full counter set of the buyback robot contract,
// read as one coherent unit. BoundToken is the zero address when the robot
// has no token configured yet.
type RobotTelemetry struct {
	Address       common.Address
	BoundToken    common.Address
	BuybackCount  *big.Int
	TotalBurned   *big.Int
	LastBuyback   *big.Int
	Interval      *big.Int
	BuyPercent    *big.Int
	NextBuybackIn *big.Int
	Reserve       *big.Int
	TotalBaseUsed *big.Int
}
