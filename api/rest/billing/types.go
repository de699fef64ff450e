package billing

// CheckoutRequest starts a subscription checkout for one plan
type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required,max=32"`
}

// CheckoutResponse carries the hosted checkout URL
type CheckoutResponse struct {
	URL string `json:"url"`
}
