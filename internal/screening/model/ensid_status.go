package model

import "time"

// EnsidScreeningStatus tracks screening progress per entity, keyed by the
// (ens_id, session_id) pair. Stage columns move independently of each other
// and of the session-level summary.
type EnsidScreeningStatus struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EnsID     string `gorm:"type:varchar(50);column:ens_id;not null;uniqueIndex:unique_ensid_session" json:"ens_id"`
	SessionID string `gorm:"type:varchar(50);column:session_id;not null;uniqueIndex:unique_ensid_session" json:"session_id"`

	OverallStatus          Status `gorm:"type:status;column:overall_status;not null;default:NOT_STARTED" json:"overall_status"`
	OrbisRetrievalStatus   Status `gorm:"type:status;column:orbis_retrieval_status;not null;default:NOT_STARTED" json:"orbis_retrieval_status"`
	ScreeningModulesStatus Status `gorm:"type:status;column:screening_modules_status;not null;default:NOT_STARTED" json:"screening_modules_status"`
	ReportGenerationStatus Status `gorm:"type:status;column:report_generation_status;not null;default:NOT_STARTED" json:"report_generation_status"`

	CreateTime time.Time `gorm:"type:timestamptz;column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime time.Time `gorm:"type:timestamptz;column:update_time;autoUpdateTime" json:"update_time"`
}

func (s *EnsidScreeningStatus) TableName() string {
	return "ensid_screening_status"
}
