package domain

// CartEntry is one product line in the cart. Quantity is always >= 1; a
// product appears in at most one entry.
type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// EntriesTotal sums price times quantity over the embedded product
// snapshots. Prices are the ones captured when each entry was added.
func EntriesTotal(entries []CartEntry) Money {
	total := Money{Currency: DefaultCurrency}
	for _, e := range entries {
		line := MoneyFromFloat(e.Product.Price, DefaultCurrency).MulInt(int64(e.Quantity))
		total = total.Add(line)
	}
	return total
}

// EntriesCount sums quantities across all entries.
func EntriesCount(entries []CartEntry) int {
	count := 0
	for _, e := range entries {
		count += e.Quantity
	}
	return count
}
