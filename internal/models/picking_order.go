package models

// PickingOrderLine is one row of the upstream picking-notes CSV export,
// renamed to the presentation schema the frontend expects. Every field is
// read as text; empty or missing cells are nil so they serialize as JSON
// null rather than "".
type PickingOrderLine struct {
	OrderNumber     *string `json:"Order Number"`
	DespatchNumber  *string `json:"Despatch Number"`
	ItemCode        *string `json:"Item Code"`
	ItemDescription *string `json:"Item Description"`
	Qty             *string `json:"Qty"`
	CustomerName    *string `json:"Customer Name"`
}
