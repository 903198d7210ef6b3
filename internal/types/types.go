package types

type OCRResponse struct {
	Text string `json:"text"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type MetricsResponse struct {
	ActiveRequests    int64  `json:"activeRequests"`
	TotalRequests     int64  `json:"totalRequests"`
	SucceededRequests int64  `json:"succeededRequests"`
	RejectedRequests  int64  `json:"rejectedRequests"`
	FailedRequests    int64  `json:"failedRequests"`
	Goroutines        int    `json:"goroutines"`
	MemAllocMB        uint64 `json:"memAllocMB"`
	MemSysMB          uint64 `json:"memSysMB"`
}

// PageText is the recognized text of one PDF page (1-indexed).
type PageText struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
	WordCount  int    `json:"wordCount"`
}
