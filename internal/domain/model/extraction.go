package model

// ExtractedFields is the partial record read from a screenshot by the extraction service.
// Any field may be empty. Status is lowercased but not checked against the enumeration.
type ExtractedFields struct {
	Company string `json:"company,omitempty"`
	Role    string `json:"role,omitempty"`
	Status  string `json:"status,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Empty reports whether no field was extracted.
func (f ExtractedFields) Empty() bool {
	return f.Company == "" && f.Role == "" && f.Status == "" && f.Date == ""
}

// CompletionMessage is the first choice message returned by the extraction service.
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
