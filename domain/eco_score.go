package domain

// EcoScore summarises a product on three 0-100 axes. Higher is better.
type EcoScore struct {
	Carbon        int `json:"carbon"`
	Recyclability int `json:"recyclability"`
	Sourcing      int `json:"sourcing"`
}

type AnalysisResult struct {
	EcoScore     EcoScore `json:"eco_score"`
	Alternatives []string `json:"alternatives"`
}

// UploadedFile describes a file read from an analysis request.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	SHA256      string
}

// AnalysisInput is whatever the handler could read from the request.
// Both fields are optional.
type AnalysisInput struct {
	URL  string
	File *UploadedFile
}

type WelcomeMessage struct {
	Message string `json:"message"`
}
