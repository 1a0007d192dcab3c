package store

import "meetnow/models"

type ReportInput struct {
	ReporterID     string
	ReportedUserID string
	Reason         string
	Details        string
}

// AddReport appends an audit record. Reports are never broadcast.
func (s *Store) AddReport(in ReportInput) models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := models.Report{
		ID:             s.newID(),
		ReporterID:     in.ReporterID,
		ReportedUserID: in.ReportedUserID,
		Reason:         in.Reason,
		Details:        in.Details,
		CreatedAt:      s.clock(),
	}
	s.reports = append(s.reports, r)

	s.log.Info().Str("report_id", r.ID).Str("reported_user_id", r.ReportedUserID).Str("reason", r.Reason).Msg("report filed")
	return r
}

func (s *Store) ListReports() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Report{}, s.reports...)
}
