package services

// CalculatedItem holds the four derived money fields for one line item.
type CalculatedItem struct {
	Subtotal       float64
	DiscountAmount float64
	VATAmount      float64
	Total          float64
}

// CalcLineItem derives the money fields for a single line item:
//
//	subtotal       = quantity * unitPrice
//	discountAmount = subtotal * discountPercent / 100
//	total          = subtotal - discountAmount
//
// VAT is priced at zero under the current business rule. The vatRate
// argument and the VATAmount field are kept so callers and renderers keep
// displaying and summing VAT; only the rule that fills it is zeroed.
// Zero-valued inputs are valid: the calculator tolerates partially-filled
// draft data instead of rejecting it.
func CalcLineItem(quantity, unitPrice, discountPercent, vatRate float64) CalculatedItem {
	_ = vatRate

	subtotal := quantity * unitPrice
	discount := subtotal * discountPercent / 100
	afterDiscount := subtotal - discount

	return CalculatedItem{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		VATAmount:      0,
		Total:          afterDiscount,
	}
}

// AssignSerials numbers an already-ordered batch of items with dense,
// 1-based serials. Callers pass the items in display order; the engine
// owns the numbering so edits and reorders cannot leave gaps.
func AssignSerials(items []ItemData) {
	for i := range items {
		items[i].Serial = i + 1
	}
}
