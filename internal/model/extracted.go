package model

const (
	DefaultRole       = "employee"
	DefaultDepartment = "general"
)

// ExtractedFields is what the extractor could pull out of one instruction.
// Name and Email stay empty when not found; Role and Department carry
// defaults instead.
type ExtractedFields struct {
	Name       string  `json:"name,omitempty"`
	Email      string  `json:"email,omitempty"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
	Confidence float64 `json:"confidence"`
}

// NewExtractedFields returns an empty extraction with default role and department.
func NewExtractedFields() ExtractedFields {
	return ExtractedFields{Role: DefaultRole, Department: DefaultDepartment}
}

// Complete reports whether both mandatory fields are present.
func (f ExtractedFields) Complete() bool {
	return f.Name != "" && f.Email != ""
}
