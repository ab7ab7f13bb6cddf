package ordering

import "strings"

// Payment methods accepted by the transaction step.
const (
	MethodCreditCard     = "CREDIT_CARD"
	MethodDebitCard      = "DEBIT_CARD"
	MethodNetBanking     = "NET_BANKING"
	MethodUPI            = "UPI"
	MethodWallet         = "WALLET"
	MethodCashOnDelivery = "CASH_ON_DELIVERY"
)

var knownMethods = map[string]struct{}{
	MethodCreditCard:     {},
	MethodDebitCard:      {},
	MethodNetBanking:     {},
	MethodUPI:            {},
	MethodWallet:         {},
	MethodCashOnDelivery: {},
}

// NormalizePaymentMethod maps free-form input to a known payment method.
// "pay on delivery" is matched case-insensitively to CASH_ON_DELIVERY; all
// other input is upper-cased with spaces collapsed to underscores before
// lookup. Unrecognized input returns ok=false.
func NormalizePaymentMethod(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, "pay on delivery") {
		return MethodCashOnDelivery, true
	}
	normalized := strings.ToUpper(strings.Join(strings.Fields(trimmed), "_"))
	if _, ok := knownMethods[normalized]; ok {
		return normalized, true
	}
	return "", false
}
