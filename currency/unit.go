package currency

import "fmt"

// Unit is a single currency, identified by its (ISO-4217 style) code
type Unit struct {
	code    string
	numeric int
	digits  int
}

// NewUnit creates a new currency unit.
// The code is not validated, use a Registry for resolving user input
func NewUnit(code string, numeric, digits int) Unit {
	return Unit{
		code:    code,
		numeric: numeric,
		digits:  digits,
	}
}

// Code returns the currency code (ex. "USD")
func (u Unit) Code() string {
	return u.code
}

// NumericCode returns the ISO-4217 numeric code, or -1 if there is none
func (u Unit) NumericCode() int {
	return u.numeric
}

// DefaultFractionDigits returns the number of minor unit digits
func (u Unit) DefaultFractionDigits() int {
	return u.digits
}

// IsZero returns true if the unit is unset
func (u Unit) IsZero() bool {
	return u.code == ""
}

func (u Unit) String() string {
	return u.code
}

// Amount is a monetary amount in a specific currency
type Amount struct {
	Currency Unit    `json:"currency"`
	Number   float64 `json:"number"`
}

// NewAmount creates a new monetary amount
func NewAmount(number float64, unit Unit) Amount {
	return Amount{
		Currency: unit,
		Number:   number,
	}
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %.*f", a.Currency.Code(), a.Currency.DefaultFractionDigits(), a.Number)
}

// MarshalText encodes the unit as its code
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.code), nil
}
