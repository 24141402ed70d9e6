package catalog

// Request and response shapes for the catalog API. Products and
// categories decode straight into the domain types.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// CreateProduct is the payload for POST /products. The API resolves
// CategoryID into the embedded category of the returned product.
type CreateProduct struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	CategoryID  int      `json:"categoryId"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock,omitempty"`
}

// UpdateProduct is the partial payload for PUT /products/{id}. Nil fields
// are left unchanged by the API.
type UpdateProduct struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	CategoryID  *int     `json:"categoryId,omitempty"`
	Images      []string `json:"images,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}
