package domain

type Review struct {
	ProductID int64  `json:"productId"`
	OrderID   string `json:"orderId"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

type FetchReviewsResponse struct {
	Success bool     `json:"success"`
	Reviews []Review `json:"reviews"`
	Message string   `json:"message,omitempty"`
}

type ReviewSubmission struct {
	ProductID   int64  `json:"productId"`
	OrderID     string `json:"orderId"`
	OrderItemID string `json:"orderItemId"`
	Rating      int    `json:"rating"`
	Title       string `json:"title,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Recommend   *bool  `json:"recommend,omitempty"`
}

type SubmitReviewResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
