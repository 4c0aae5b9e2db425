package model

import "time"

// SessionScreeningStatus is the per-session summary of pipeline progress.
// Exactly one row exists per session_id; stages are mutated independently by
// conflict-keyed upserts that never touch unrelated columns.
type SessionScreeningStatus struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SessionID string `gorm:"type:varchar(50);column:session_id;not null;uniqueIndex:uq_session_screening_session" json:"session_id"`

	OverallStatus                Status `gorm:"type:status;column:overall_status;not null;default:NOT_STARTED" json:"overall_status"`
	ListUploadStatus             Status `gorm:"type:status;column:list_upload_status;not null;default:NOT_STARTED" json:"list_upload_status"`
	SupplierNameValidationStatus Status `gorm:"type:status;column:supplier_name_validation_status;not null;default:NOT_STARTED" json:"supplier_name_validation_status"`
	ScreeningAnalysisStatus      Status `gorm:"type:status;column:screening_analysis_status;not null;default:NOT_STARTED" json:"screening_analysis_status"`
	ProcessStatus                Status `gorm:"type:status;column:process_status;not null;default:NOT_STARTED" json:"process_status"`

	CreateTime time.Time `gorm:"type:timestamptz;column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime time.Time `gorm:"type:timestamptz;column:update_time;autoUpdateTime" json:"update_time"`
}

func (s *SessionScreeningStatus) TableName() string {
	return "session_screening_status"
}

// SessionStatusUpdate carries the stage values a caller wants to set on a
// session. Nil fields are left untouched by the upsert.
type SessionStatusUpdate struct {
	OverallStatus                *Status
	ListUploadStatus             *Status
	SupplierNameValidationStatus *Status
	ScreeningAnalysisStatus      *Status
	ProcessStatus                *Status
}

// Columns returns the column/value pairs the update actually sets.
func (u SessionStatusUpdate) Columns() map[string]any {
	cols := make(map[string]any)
	if u.OverallStatus != nil {
		cols["overall_status"] = *u.OverallStatus
	}
	if u.ListUploadStatus != nil {
		cols["list_upload_status"] = *u.ListUploadStatus
	}
	if u.SupplierNameValidationStatus != nil {
		cols["supplier_name_validation_status"] = *u.SupplierNameValidationStatus
	}
	if u.ScreeningAnalysisStatus != nil {
		cols["screening_analysis_status"] = *u.ScreeningAnalysisStatus
	}
	if u.ProcessStatus != nil {
		cols["process_status"] = *u.ProcessStatus
	}
	return cols
}
