package domain

import "strings"

// TerminalCategory é o conjunto fechado de tipos de terminal com regra de negócio própria
type TerminalCategory string

const (
	TerminalUnknown       TerminalCategory = ""
	TerminalPOS           TerminalCategory = "POS"
	TerminalPOSListOnly   TerminalCategory = "POS SOMENTE LISTA"
	TerminalRechargeTotem TerminalCategory = "TOTEM DE RECARGA"
)

// categoryPaymentMethods lista as formas de pagamento relevantes para cada categoria
var categoryPaymentMethods = map[TerminalCategory][]PaymentMethod{
	TerminalPOS:           {PaymentLista, PaymentPix, PaymentDebito, PaymentCredito},
	TerminalPOSListOnly:   {PaymentLista},
	TerminalRechargeTotem: {PaymentPix, PaymentDinheiro, PaymentDebito, PaymentCredito},
}

// CategoryOf classifica o tipo de terminal; tokens fora do conjunto retornam TerminalUnknown
func CategoryOf(terminalType string) TerminalCategory {
	category := TerminalCategory(strings.ToUpper(strings.TrimSpace(terminalType)))
	if _, ok := categoryPaymentMethods[category]; ok {
		return category
	}
	return TerminalUnknown
}

// PaymentMethods retorna a lista fixa da categoria, ou nil para TerminalUnknown
func (c TerminalCategory) PaymentMethods() []PaymentMethod {
	methods, ok := categoryPaymentMethods[c]
	if !ok {
		return nil
	}
	out := make([]PaymentMethod, len(methods))
	copy(out, methods)
	return out
}
