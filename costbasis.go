package investments

// CostBasis computes the signed, fee-inclusive cost of a fill:
//
//	quantity × (price + feePerUnit)
//
// evaluated in the currency of price and feePerUnit. A positive quantity
// yields the cost of acquiring; a negative quantity yields the (negated)
// proceeds of disposing. Currency conversion happens upstream of this call,
// never inside it.
func CostBasis(quantity int64, price, feePerUnit Money) Money {
	return price.Add(feePerUnit).Mul(quantity)
}
