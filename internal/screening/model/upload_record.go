package model

import "time"

// SupplierFields is the set of supplier attributes carried by every record.
// It appears four times on an UploadRecord: the working copy (no prefix),
// the verbatim upload, the pre-normalization copy and the matcher suggestion.
type SupplierFields struct {
	Name              string `gorm:"type:varchar(255)" json:"name"`
	NameInternational string `gorm:"type:varchar(255)" json:"name_international"`
	Address           string `gorm:"type:text" json:"address"`
	Postcode          string `gorm:"type:varchar(20)" json:"postcode"`
	City              string `gorm:"type:varchar(100)" json:"city"`
	Country           string `gorm:"type:varchar(100)" json:"country"`
	PhoneOrFax        string `gorm:"type:varchar(50)" json:"phone_or_fax"`
	EmailOrWebsite    string `gorm:"type:varchar(100)" json:"email_or_website"`
	NationalID        string `gorm:"type:varchar(50)" json:"national_id"`
	State             string `gorm:"type:varchar(100)" json:"state"`
	AddressType       string `gorm:"type:varchar(50)" json:"address_type"`
}

// UploadRecord is one uploaded supplier line, scoped to a session. Records are
// never deleted; the table is the audit trail of everything a user uploaded.
type UploadRecord struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EnsID     string `gorm:"type:varchar(50);column:ens_id;not null" json:"ens_id"`
	SessionID string `gorm:"type:varchar(50);column:session_id;not null" json:"session_id"`
	UserID    string `gorm:"type:varchar(50);column:user_id" json:"user_id"`

	// BvdID is the external reference key. Rows without it must never reach
	// the golden table, regardless of disposition.
	BvdID *string `gorm:"type:varchar(50);column:bvd_id" json:"bvd_id"`

	Working    SupplierFields `gorm:"embedded" json:"working"`
	Uploaded   SupplierFields `gorm:"embedded;embeddedPrefix:uploaded_" json:"uploaded"`
	Unmodified SupplierFields `gorm:"embedded;embeddedPrefix:unmodified_" json:"unmodified"`
	Suggested  SupplierFields `gorm:"embedded;embeddedPrefix:suggested_" json:"suggested"`

	UploadedExternalVendorID string `gorm:"type:varchar(100);column:uploaded_external_vendor_id" json:"uploaded_external_vendor_id"`

	ValidationStatus      ValidationStatus     `gorm:"type:validationstatus;column:validation_status;not null;default:PENDING" json:"validation_status"`
	OrbisMatchedStatus    OrbisMatchStatus     `gorm:"type:orbismatchstatus;column:orbis_matched_status;not null;default:PENDING" json:"orbis_matched_status"`
	FinalValidationStatus FinalValidatedStatus `gorm:"type:finalvalidatedstatus;column:final_validation_status;not null;default:PENDING" json:"final_validation_status"`
	FinalStatus           FinalStatus          `gorm:"type:finalstatus;column:final_status;not null;default:PENDING" json:"final_status"`
	DuplicateInSession    DuplicateInSession   `gorm:"type:dupinsession;column:duplicate_in_session;not null;default:UNIQUE" json:"duplicate_in_session"`

	MatchedPercentage   float64 `gorm:"column:matched_percentage" json:"matched_percentage"`
	TruesightPercentage float64 `gorm:"column:truesight_percentage" json:"truesight_percentage"`

	CreateTime time.Time `gorm:"type:timestamptz;column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime time.Time `gorm:"type:timestamptz;column:update_time;autoUpdateTime" json:"update_time"`
}

func (r *UploadRecord) TableName() string {
	return "upload_supplier_master_data"
}
