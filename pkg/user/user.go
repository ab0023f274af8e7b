package user

import "time"

// Account is a registered identity. PasswordHash never leaves this package's
// repo/service boundary except for credential comparison in pkg/auth.
type Account struct {
	Id           int
	Uid          string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Currency     Currency
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
	CurrencyCHF Currency = "CHF"
	CurrencyPLN Currency = "PLN"
)

var supportedCurrencies = map[Currency]struct{}{
	CurrencyUSD: {},
	CurrencyEUR: {},
	CurrencyGBP: {},
	CurrencyJPY: {},
	CurrencyCAD: {},
	CurrencyAUD: {},
	CurrencyCHF: {},
	CurrencyPLN: {},
}

// IsSupported reports whether c is one of the closed set of currencies
// accounts and budgets may use. Unknown values are rejected at the boundary.
func (c Currency) IsSupported() bool {
	_, ok := supportedCurrencies[c]
	return ok
}
