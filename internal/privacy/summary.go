package privacy

import "wellbuddie/internal/assessment/models"

// Summary aggregates anonymized records for the dashboard. Every instrument
// and risk level is present, zero when nothing was recorded.
type Summary struct {
	TotalAssessments int                                       `json:"total_assessments"`
	ByInstrument     map[models.InstrumentID]map[RiskLevel]int `json:"by_instrument"`
	ChatSessions     int                                       `json:"chat_sessions"`
}

func NewSummary() Summary {
	s := Summary{ByInstrument: make(map[models.InstrumentID]map[RiskLevel]int)}
	for _, inst := range models.Instruments() {
		levels := make(map[RiskLevel]int, 3)
		for _, l := range RiskLevels() {
			levels[l] = 0
		}
		s.ByInstrument[inst.ID] = levels
	}
	return s
}

// Add counts n assessments. Unknown instruments get their own row.
func (s *Summary) Add(instrument models.InstrumentID, level RiskLevel, n int) {
	levels, ok := s.ByInstrument[instrument]
	if !ok {
		levels = make(map[RiskLevel]int)
		s.ByInstrument[instrument] = levels
	}
	levels[level] += n
	s.TotalAssessments += n
}

// PurgeResult counts records removed by one retention sweep.
type PurgeResult struct {
	Assessments int64 `json:"assessments"`
	Chats       int64 `json:"chats"`
}

func (p PurgeResult) Total() int64 { return p.Assessments + p.Chats }
