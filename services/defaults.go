package services

// QuoteTypeOptions are the supported quotation flavors.
var QuoteTypeOptions = []string{"space", "furniture"}

// QuoteStatusOptions are the quote lifecycle labels, in display order.
var QuoteStatusOptions = []string{"draft", "sent", "approved", "rejected"}

// UnitSymbolOptions are the unit-of-measure symbols seeded into the cost
// library.
var UnitSymbolOptions = []string{"m²", "ml", "pza", "global", "kg", "hr"}
