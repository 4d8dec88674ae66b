package health

import "time"

// Status is the payload of the health endpoint.
type Status struct {
	OK          bool   `json:"ok"`
	Model       string `json:"model"`
	ObjectStore string `json:"objectStore"`
	Diseases    int    `json:"diseases"`
	Uptime      string `json:"uptime"`
}

// Service encapsulates health-related checks.
type Service struct {
	model     string
	store     string
	diseases  int
	startedAt time.Time
	now       func() time.Time
}

// NewService constructs a new health service describing the loaded model,
// the object store backend and the knowledge base size.
func NewService(model, store string, diseases int) *Service {
	return &Service{
		model:     model,
		store:     store,
		diseases:  diseases,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// Status returns the current health payload.
func (s *Service) Status() Status {
	return Status{
		OK:          s.diseases > 0,
		Model:       s.model,
		ObjectStore: s.store,
		Diseases:    s.diseases,
		Uptime:      s.now().Sub(s.startedAt).Truncate(time.Second).String(),
	}
}
