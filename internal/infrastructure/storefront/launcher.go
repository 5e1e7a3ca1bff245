package storefront

import (
	"github.com/basketlens/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// Launcher hands out one fresh browser session per discovery run
type Launcher struct {
	cfg Config
	log logrus.FieldLogger
}

// NewLauncher creates a launcher for the storefront described by cfg
func NewLauncher(cfg Config, log logrus.FieldLogger) *Launcher {
	return &Launcher{cfg: cfg, log: log.WithField("component", "storefront")}
}

// NewSession returns an unopened session with its own browser
func (l *Launcher) NewSession() domain.Storefront {
	return newSession(l.cfg, newRodDriver(l.cfg), l.log)
}
