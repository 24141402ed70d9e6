package domain

// Product is catalog data as served by the remote API. The cart embeds a
// snapshot of the product at the time it was added; it is not re-fetched.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Category    Category `json:"category"`
	Stock       *int     `json:"stock,omitempty"`
}

type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}
