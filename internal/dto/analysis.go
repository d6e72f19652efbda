package dto

// AnalysisResult is what the pipeline hands back to the HTTP layer.
type AnalysisResult struct {
	Text     string
	Category string
	Advice   string
	FileID   string
	RecordID string
}

type AnalysisResponse struct {
	ID       string `json:"id"`
	FileID   string `json:"file_id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Advice   string `json:"advice"`
}

type ExpenseResponse struct {
	ID        string `json:"id"`
	FileID    string `json:"file_id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Advice    string `json:"advice"`
	CreatedAt string `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
