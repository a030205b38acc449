package model

import "math/big"

// TokenInfo captures ERC20 metadata.
type TokenInfo struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// TokenDetail extends TokenInfo with supply and transfer-tax fields read from
// a tax-token contract. All raw amounts are in the token's smallest unit.
type TokenDetail struct {
	TokenInfo
	TotalSupply         *big.Int
	TaxPercent          *big.Int
	TaxRecipient        string
	TaxRecipientBalance *big.Int
}
