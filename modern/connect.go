package modern

import (
	"fmt"

	serialpkg "github.com/rberger/dough-man/serial"
)

type Session struct {
	Config serialpkg.Config
	Finder *serialpkg.RangeFinder
}

// Connect opens the range finder described by cfg, auto-detecting the port
// when none is configured.
func Connect(cfg serialpkg.Config) (*Session, error) {
	if cfg.Port == "" {
		cfg.Port = serialpkg.AutoDetectPort(cfg.Baud)
		if cfg.Port == "" {
			return nil, fmt.Errorf("could not auto-detect serial port")
		}
	}
	rf, err := serialpkg.NewRangeFinder(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{Config: cfg, Finder: rf}, nil
}

func (s *Session) Close() error {
	if s == nil || s.Finder == nil {
		return nil
	}
	err := s.Finder.Close()
	s.Finder = nil
	return err
}
