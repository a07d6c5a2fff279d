package model

import (
	"github.com/dashfin/assetgraph/pkg/errors"
)

// AssetClass is the closed set of supported asset classes.
type AssetClass string

// Supported asset classes.
const (
	ClassEquity      AssetClass = "equity"
	ClassFixedIncome AssetClass = "fixed_income"
	ClassCommodity   AssetClass = "commodity"
	ClassCurrency    AssetClass = "currency"
)

// Valid reports whether c is one of the supported asset classes.
func (c AssetClass) Valid() bool {
	switch c {
	case ClassEquity, ClassFixedIncome, ClassCommodity, ClassCurrency:
		return true
	}
	return false
}

// SectorUnknown is the sentinel sector for assets without sector data.
// Assets in this sector never produce same-sector relationships.
const SectorUnknown = "Unknown"

// Asset is a financial instrument record. The Class field discriminates
// which of the class-specific optional fields are meaningful:
//
//	equity:       PERatio, DividendYield
//	fixed_income: YieldToMaturity, CouponRate, MaturityDate, CreditRating, IssuerID
//	commodity:    ContractSize, Volatility
//	currency:     ExchangeRate, Country
//
// Use the New* constructors; they validate and apply defaults. A directly
// constructed Asset can be checked with Validate before entering a graph.
type Asset struct {
	ID     string     `json:"id" bson:"id"`
	Symbol string     `json:"symbol" bson:"symbol"`
	Name   string     `json:"name" bson:"name"`
	Class  AssetClass `json:"asset_class" bson:"asset_class"`
	Sector string     `json:"sector" bson:"sector"`
	Price  float64    `json:"price" bson:"price"`

	MarketCap float64 `json:"market_cap,omitempty" bson:"market_cap,omitempty"`
	Currency  string  `json:"currency,omitempty" bson:"currency,omitempty"`

	// Equity
	PERatio       float64 `json:"pe_ratio,omitempty" bson:"pe_ratio,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty" bson:"dividend_yield,omitempty"`

	// Fixed income
	YieldToMaturity float64 `json:"yield_to_maturity,omitempty" bson:"yield_to_maturity,omitempty"`
	CouponRate      float64 `json:"coupon_rate,omitempty" bson:"coupon_rate,omitempty"`
	MaturityDate    string  `json:"maturity_date,omitempty" bson:"maturity_date,omitempty"`
	CreditRating    string  `json:"credit_rating,omitempty" bson:"credit_rating,omitempty"`
	IssuerID        string  `json:"issuer_id,omitempty" bson:"issuer_id,omitempty"`

	// Commodity
	ContractSize float64 `json:"contract_size,omitempty" bson:"contract_size,omitempty"`
	Volatility   float64 `json:"volatility,omitempty" bson:"volatility,omitempty"`

	// Currency
	ExchangeRate float64 `json:"exchange_rate,omitempty" bson:"exchange_rate,omitempty"`
	Country      string  `json:"country,omitempty" bson:"country,omitempty"`
}

// IsBond reports whether the asset is a fixed-income instrument.
// Bond→issuer corporate links are only inferred for these assets.
func (a *Asset) IsBond() bool { return a.Class == ClassFixedIncome }

// HasKnownSector reports whether the asset has real sector data.
func (a *Asset) HasKnownSector() bool { return a.Sector != "" && a.Sector != SectorUnknown }

// Validate checks the invariants the constructors enforce. It is used when
// assets re-enter the core from external data (snapshots, API payloads).
func (a *Asset) Validate() error {
	if err := errors.ValidateAssetID(a.ID); err != nil {
		return err
	}
	if !a.Class.Valid() {
		return errors.New(errors.ErrCodeInvalidAssetClass, "unknown asset class %q for %s", a.Class, a.ID)
	}
	if a.Price <= 0 {
		return errors.New(errors.ErrCodeInvalidPrice, "price for %s must be positive, got %g", a.ID, a.Price)
	}
	return nil
}

// NewAsset constructs a validated asset of the given class.
// An empty sector defaults to the "Unknown" sentinel; empty symbol defaults
// to the id. Class-specific optional fields are set on the returned value.
func NewAsset(class AssetClass, id, symbol, name, sector string, price float64) (*Asset, error) {
	if symbol == "" {
		symbol = id
	}
	if sector == "" {
		sector = SectorUnknown
	}
	a := &Asset{
		ID:     id,
		Symbol: symbol,
		Name:   name,
		Class:  class,
		Sector: sector,
		Price:  price,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// NewEquity constructs an equity asset.
func NewEquity(id, symbol, name, sector string, price float64) (*Asset, error) {
	return NewAsset(ClassEquity, id, symbol, name, sector, price)
}

// NewBond constructs a fixed-income asset. issuerID may be empty when the
// issuer is unknown or outside the modeled universe.
func NewBond(id, symbol, name, sector string, price float64, issuerID string) (*Asset, error) {
	a, err := NewAsset(ClassFixedIncome, id, symbol, name, sector, price)
	if err != nil {
		return nil, err
	}
	a.IssuerID = issuerID
	return a, nil
}

// NewCommodity constructs a commodity asset.
func NewCommodity(id, symbol, name, sector string, price float64) (*Asset, error) {
	return NewAsset(ClassCommodity, id, symbol, name, sector, price)
}

// NewCurrency constructs a currency asset.
func NewCurrency(id, symbol, name, sector string, price float64) (*Asset, error) {
	return NewAsset(ClassCurrency, id, symbol, name, sector, price)
}
