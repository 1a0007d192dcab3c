package models

import "time"

// MaxReportDetailsLength caps the free text attached to a report, in characters.
const MaxReportDetailsLength = 1000

type Report struct {
	ID             string    `bson:"_id" json:"id"`
	ReporterID     string    `bson:"reporterId" json:"reporterId"`
	ReportedUserID string    `bson:"reportedUserId" json:"reportedUserId"`
	Reason         string    `bson:"reason" json:"reason"`
	Details        string    `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
