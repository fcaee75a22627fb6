package models

// BlacklistEntry stores only the digits of a phone number so lookups are
// independent of formatting. AddedAt is an ISO timestamp string.
type BlacklistEntry struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Phone   string `gorm:"uniqueIndex;size:32" json:"phone"`
	Reason  string `gorm:"type:text" json:"reason"`
	AddedAt string `gorm:"column:added_at;size:32" json:"added_at"`
}

func (BlacklistEntry) TableName() string {
	return "blacklist"
}
