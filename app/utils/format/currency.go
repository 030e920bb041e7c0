package format

import (
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"INR": "₹",
	"IDR": "Rp ",
	"USD": "$",
}

func accountantFor(currency string) *accounting.Accounting {
	symbol, ok := symbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}
	return &accounting.Accounting{Symbol: symbol, Precision: 2, Thousand: ",", Decimal: "."}
}

// Money renders an amount for display, e.g. Money(decimal 1010, "INR") is "₹1,010.00".
func Money(amount decimal.Decimal, currency string) string {
	return accountantFor(currency).FormatMoney(amount)
}

func FormatRupee(amount decimal.Decimal) string {
	return Money(amount, "INR")
}
