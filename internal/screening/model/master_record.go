package model

import "time"

// MasterRecord is the golden supplier record: the resolved field values of an
// accepted UploadRecord, keyed by (ens_id, session_id). It only exists for
// rows that passed reconciliation with an ACCEPTED disposition and a non-null
// reference key, and is maintained exclusively by upsert.
type MasterRecord struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EnsID     string `gorm:"type:varchar(50);column:ens_id;not null;uniqueIndex:uq_master_ens_session" json:"ens_id"`
	SessionID string `gorm:"type:varchar(50);column:session_id;not null;uniqueIndex:uq_master_ens_session" json:"session_id"`
	BvdID     string `gorm:"type:varchar(50);column:bvd_id;not null" json:"bvd_id"`

	SupplierFields `gorm:"embedded"`

	ValidationStatus       ValidationStatus `gorm:"type:validationstatus;column:validation_status;not null;default:PENDING" json:"validation_status"`
	FinalStatus            FinalStatus      `gorm:"type:finalstatus;column:final_status;not null;default:PENDING" json:"final_status"`
	ReportGenerationStatus Status           `gorm:"type:status;column:report_generation_status;not null;default:NOT_STARTED" json:"report_generation_status"`

	CreateTime time.Time `gorm:"type:timestamptz;column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime time.Time `gorm:"type:timestamptz;column:update_time;autoUpdateTime" json:"update_time"`
}

func (r *MasterRecord) TableName() string {
	return "supplier_master_data"
}
