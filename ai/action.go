// Package ai implements the storefront chat assistant. Cheap regex
// rules decide the intent first; the remote model is consulted only for
// slot extraction and never on the happy path.
package ai

// ActionType enumerates the closed set of UI actions the assistant may
// emit. Clients ignore types they do not recognize.
type ActionType string

const (
	ActionAddToCart       ActionType = "ADD_TO_CART"
	ActionClearCart       ActionType = "CLEAR_CART"
	ActionShowProducts    ActionType = "SHOW_PRODUCTS"
	ActionShowOrders      ActionType = "SHOW_ORDERS"
	ActionDownloadQuote   ActionType = "DOWNLOAD_QUOTE"
	ActionDownloadInvoice ActionType = "DOWNLOAD_ORDER_INVOICE"
	ActionSuggestChips    ActionType = "SUGGEST_CHIPS"
	ActionCompare         ActionType = "COMPARE"
)

// ProductCard is the compact product shape rendered in chat.
type ProductCard struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

// CartAddition asks the client to add a variant to the cart.
type CartAddition struct {
	VariantID uint `json:"variant_id"`
	Qty       int  `json:"qty"`
}

// OrderCard is the compact order shape rendered in chat.
type OrderCard struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// CompareData holds the side-by-side comparison payload.
type CompareData struct {
	Products []ProductCard `json:"products"`
	Features []string      `json:"features"`
}

// Action is one instruction for the chat UI. Only the fields relevant
// to the Type are populated.
type Action struct {
	Type     ActionType     `json:"type"`
	Chips    []string       `json:"chips,omitempty"`
	Products []ProductCard  `json:"products,omitempty"`
	Variants []CartAddition `json:"variants,omitempty"`
	Orders   []OrderCard    `json:"orders,omitempty"`
	OrderID  string         `json:"order_id,omitempty"`
	Data     *CompareData   `json:"data,omitempty"`
	Confirm  bool           `json:"confirm"`
}

// Reply is the full chat turn returned to the client.
type Reply struct {
	Response string   `json:"response"`
	Actions  []Action `json:"actions"`
}
