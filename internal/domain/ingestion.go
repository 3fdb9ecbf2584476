package domain

import "time"

// IngestionReport resume uma execução de ingestão; linhas descartadas só aparecem aqui, como contagem
type IngestionReport struct {
	RunID        string    `json:"run_id"`
	Period       string    `json:"period"`
	Encoding     string    `json:"encoding"`
	RawRows      int       `json:"raw_rows"`
	SkippedLines int       `json:"skipped_lines"`
	AcceptedRows int       `json:"accepted_rows"`
	RejectedRows int       `json:"rejected_rows"`
	UntimedRows  int       `json:"untimed_rows"`
	Cached       bool      `json:"cached"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}
