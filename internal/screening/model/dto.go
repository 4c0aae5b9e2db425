package model

// BulkDecisionDTO is the payload for session-wide reconciliation: one
// directive applied to every row still classified REVIEW.
type BulkDecisionDTO struct {
	SessionID string `json:"session_id" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=accept reject"`
}

// RecordDecisionDTO is one explicit per-row directive in a targeted
// reconciliation call.
type RecordDecisionDTO struct {
	EnsID  string `json:"ens_id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=accept reject"`
}

// BulkReconcileResult reports how many rows each phase of a bulk call touched.
type BulkReconcileResult struct {
	AcceptedCount int64 `json:"accepted_count"`
	RejectedCount int64 `json:"rejected_count"`
	ReviewCount   int64 `json:"review_count"`
}

// SingleReconcileResult lists the final per-row outcome of a targeted call.
type SingleReconcileResult struct {
	AcceptedEnsIDs []string `json:"accepted_ens_ids"`
	RejectedEnsIDs []string `json:"rejected_ens_ids"`
}

// IngestResult summarizes a processed upload batch.
type IngestResult struct {
	RowsInserted int64  `json:"rows_inserted"`
	SessionID    string `json:"session_id"`
}

// UploadRecordView is the column projection served to the review UI.
type UploadRecordView struct {
	ID                    int64                `json:"id"`
	EnsID                 string               `json:"ens_id"`
	SessionID             string               `json:"session_id"`
	BvdID                 *string              `json:"bvd_id"`
	Uploaded              SupplierFields       `gorm:"embedded;embeddedPrefix:uploaded_" json:"uploaded"`
	Suggested             SupplierFields       `gorm:"embedded;embeddedPrefix:suggested_" json:"suggested"`
	ValidationStatus      ValidationStatus     `json:"validation_status"`
	OrbisMatchedStatus    OrbisMatchStatus     `json:"orbis_matched_status"`
	FinalValidationStatus FinalValidatedStatus `json:"final_validation_status"`
	FinalStatus           FinalStatus          `json:"final_status"`
	MatchedPercentage     float64              `json:"matched_percentage"`
	DuplicateInSession    DuplicateInSession   `json:"duplicate_in_session"`
}

// PagedResult wraps a page of rows together with the unpaged total.
type PagedResult[T any] struct {
	TotalData int64  `json:"total_data"`
	Data      []T    `json:"data"`
	SessionID string `json:"session_id,omitempty"`
}
