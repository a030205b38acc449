package model

// Wire types for the two read endpoints. Field names are part of the public
// API consumed by the dashboard client; raw integer amounts travel as decimal
// strings to avoid JSON number precision loss.

// ErrorResponse is the envelope for any failed request.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PriceResponse is the /price success envelope.
type PriceResponse struct {
	OK           bool      `json:"ok"`
	Token        TokenInfo `json:"token"`
	Pair         PairView  `json:"pair"`
	Price        PriceView `json:"price"`
	ServerTimeMs int64     `json:"serverTimeMs"`
}

// PairView describes the resolved token/base pair and its reserves.
type PairView struct {
	Address               string `json:"address"`
	Factory               string `json:"factory"`
	Base                  string `json:"base"`
	ReserveToken          string `json:"reserveToken"`
	ReserveBase           string `json:"reserveBase"`
	ReserveTokenFormatted string `json:"reserveTokenFormatted"`
	ReserveBaseFormatted  string `json:"reserveBaseFormatted"`
}

// PriceView carries the oracle reading and the derived prices.
type PriceView struct {
	OracleFeed              string `json:"oracleFeed"`
	OracleAnswer            string `json:"oracleAnswer"`
	OracleDecimals          uint8  `json:"oracleDecimals"`
	OracleFormatted         string `json:"oracleFormatted"`
	TokenPriceBaseUnits     string `json:"tokenPriceBaseUnits"`
	TokenPriceBaseFormatted string `json:"tokenPriceBaseFormatted"`
	TokenPriceUsdFixed18    string `json:"tokenPriceUsdFixed18"`
	TokenPriceUsd           string `json:"tokenPriceUsd"`
}

// RobotResponse is the /robot success envelope. Token is null when the robot
// has no bound token; the rest of the view is still valid in that case.
type RobotResponse struct {
	OK           bool            `json:"ok"`
	ChainID      uint64          `json:"chainId"`
	Robot        RobotView       `json:"robot"`
	Token        *RobotTokenView `json:"token"`
	ServerTimeMs int64           `json:"serverTimeMs"`
}

// RobotView is the formatted robot counter set.
type RobotView struct {
	Address                string `json:"address"`
	Token                  string `json:"token"`
	BuybackCount           string `json:"buybackCount"`
	TotalBurned            string `json:"totalBurned"`
	TotalBurnedFormatted   string `json:"totalBurnedFormatted"`
	LastBuyback            string `json:"lastBuyback"`
	Interval               string `json:"interval"`
	BuyPercent             string `json:"buyPercent"`
	NextBuybackIn          string `json:"nextBuybackIn"`
	Reserve                string `json:"reserve"`
	ReserveFormatted       string `json:"reserveFormatted"`
	NativeReserve          string `json:"nativeReserve"`
	NativeReserveFormatted string `json:"nativeReserveFormatted"`
	TotalBaseUsed          string `json:"totalBaseUsed"`
	TotalBaseUsedFormatted string `json:"totalBaseUsedFormatted"`
}

// RobotTokenView is the bound-token block of the /robot response, including
// supply and transfer-tax details.
type RobotTokenView struct {
	Address                      string `json:"address"`
	Name                         string `json:"name"`
	Symbol                       string `json:"symbol"`
	Decimals                     uint8  `json:"decimals"`
	TotalSupply                  string `json:"totalSupply"`
	TotalSupplyFormatted         string `json:"totalSupplyFormatted"`
	TaxPercent                   string `json:"taxPercent"`
	TaxRecipient                 string `json:"taxRecipient"`
	TaxRecipientBalance          string `json:"taxRecipientBalance"`
	TaxRecipientBalanceFormatted string `json:"taxRecipientBalanceFormatted"`
}
