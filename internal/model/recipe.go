package model

// Recipe is a tradable digital asset. A community recipe is free,
// collaboratively editable and never changes hands; everything else is
// exclusively owned and may be listed for sale.
type Recipe struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       uint64   `json:"price"`
	OwnerID     uint64   `json:"owner_id"`
	IsCommunity bool     `json:"is_community"`
	IsForSale   bool     `json:"is_for_sale"`
	Reviews     []string `json:"reviews"`
}

// Clone returns a deep copy so staged mutations never alias stored state.
func (r *Recipe) Clone() *Recipe {
	out := *r
	out.Reviews = make([]string, len(r.Reviews))
	copy(out.Reviews, r.Reviews)
	return &out
}

// Transferable reports whether the recipe can be bought at all.
// Community recipes are free by definition and never transferable.
func (r *Recipe) Transferable() bool {
	return !r.IsCommunity && r.IsForSale
}
