package model

// IntakeCompleted is emitted once a higher level review finishes the complete
// phase. It is published to Kafka topic decision_review.intake.completed.
type IntakeCompleted struct {
	IntakeUUID        string `json:"intake_uuid"`
	VeteranFileNumber string `json:"veteran_file_number"`
	BenefitType       string `json:"benefit_type"`
	ReceiptDate       string `json:"receipt_date"`
	IssueCount        int    `json:"issue_count"`
	Timestamp         string `json:"timestamp"` // completion time (RFC3339Nano)
}

// IntakeRejected is emitted when a submission fails request issue validation.
// It is published to decision_review.intake.rejected and consumed by the
// rejections writer.
type IntakeRejected struct {
	VeteranFileNumber string        `json:"veteran_file_number"`
	BenefitType       string        `json:"benefit_type"`
	Errors            []ErrorObject `json:"errors"`
	Timestamp         string        `json:"timestamp"`
}

// ErrorObject is the wire form of a single intake error.
type ErrorObject struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
}
