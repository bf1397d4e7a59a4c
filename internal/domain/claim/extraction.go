package claim

import (
	"context"
	"crypto/md5"
	"encoding/binary"
)

// Extractor turns an uploaded document into structured claim data. The real
// OCR pipeline is out of scope; implementations are pluggable collaborators.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (*ExtractedData, error)
}

// MockExtractor returns one of a fixed set of canned extractions, chosen
// deterministically from the filename so repeated uploads of the same file
// produce identical results.
type MockExtractor struct{}

func NewMockExtractor() *MockExtractor { return &MockExtractor{} }

var mockTemplates = []ExtractedData{
	{
		PatientName:    "John Smith",
		PatientID:      strPtr("PAT-2024-1101"),
		PatientDOB:     strPtr("1985-03-12"),
		HospitalName:   "City General Hospital",
		DoctorName:     "Dr. Sarah Johnson",
		TreatmentDate:  "2024-01-15",
		ClaimAmount:    2450.00,
		Diagnosis:      "Acute appendicitis",
		TreatmentType:  "Emergency surgery",
		PolicyNumber:   strPtr("POL-88231-A"),
		ProcedureCodes: []string{"44950", "00840"},
	},
	{
		PatientName:    "Maria Garcia",
		PatientID:      strPtr("PAT-2024-2207"),
		PatientDOB:     strPtr("1972-11-30"),
		HospitalName:   "St. Mary Medical Center",
		DoctorName:     "Dr. Robert Chen",
		TreatmentDate:  "2024-02-03",
		ClaimAmount:    1180.50,
		Diagnosis:      "Type 2 diabetes follow-up",
		TreatmentType:  "Outpatient consultation",
		PolicyNumber:   strPtr("POL-45102-C"),
		ProcedureCodes: []string{"99214", "82947"},
	},
	{
		PatientName:    "David Okafor",
		PatientID:      strPtr("PAT-2024-3318"),
		PatientDOB:     strPtr("1990-07-21"),
		HospitalName:   "Riverside Orthopedic Clinic",
		DoctorName:     "Dr. Emily Watson",
		TreatmentDate:  "2024-02-18",
		ClaimAmount:    3675.25,
		Diagnosis:      "Fractured radius",
		TreatmentType:  "Orthopedic treatment",
		PolicyNumber:   strPtr("POL-90877-B"),
		ProcedureCodes: []string{"25600", "29075"},
	},
}

func (e *MockExtractor) Extract(_ context.Context, filename string, _ []byte) (*ExtractedData, error) {
	sum := md5.Sum([]byte(filename))
	idx := binary.BigEndian.Uint32(sum[:4]) % uint32(len(mockTemplates))

	data := mockTemplates[idx]
	return &data, nil
}

func strPtr(s string) *string { return &s }
