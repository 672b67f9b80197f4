package fetcher

// BoxScoreRequest is the JSON body posted to the fetch-box-score endpoint.
type BoxScoreRequest struct {
	GameID string `json:"gameId"`
	APIKey string `json:"apiKey,omitempty"`
}
