package health

import (
	"context"
	"database/sql"
	"time"
)

// pingTimeout bounds the database probe.
const pingTimeout = 2 * time.Second

// Service reports liveness plus the state of optional collaborators.
type Service struct {
	DB              *sql.DB
	LLMConfigured   bool
	ObjectStoreType string
}

// Status is the health payload.
type Status struct {
	OK            bool   `json:"ok"`
	Database      string `json:"database"`
	LLMConfigured bool   `json:"llmConfigured"`
	ObjectStore   string `json:"objectStore"`
}

// NewService constructs a new health service. db may be nil when running on
// in-memory repositories.
func NewService(db *sql.DB, llmConfigured bool, storeType string) *Service {
	return &Service{DB: db, LLMConfigured: llmConfigured, ObjectStoreType: storeType}
}

// Status probes the database when one is configured. A failed probe marks the
// service not ok.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{
		OK:            true,
		Database:      "memory",
		LLMConfigured: s.LLMConfigured,
		ObjectStore:   s.ObjectStoreType,
	}
	if s.DB == nil {
		return st
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "unreachable"
		return st
	}
	st.Database = "postgres"
	return st
}
