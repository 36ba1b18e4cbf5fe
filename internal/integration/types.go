package integration

type PredictRequest struct {
	Data []map[string]interface{} `json:"data"`
}

type PredictResponse struct {
	Prediction *float64 `json:"prediction,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Window int    `json:"window"`
}
