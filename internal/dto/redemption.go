package dto

// RedeemRequest is the body the client posts to the registry. The registry
// accepts it under any content type.
type RedeemRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Mobile  string `json:"mobile"`
}

// RedeemResponse is always sent with HTTP 200; Status carries the verdict.
type RedeemResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
