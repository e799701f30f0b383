package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rberger/dough-man/modern"
	serialpkg "github.com/rberger/dough-man/serial"
)

// Watch opens the sensor in serial mode and records every reading until ctx
// ends.
func (s *Server) Watch(ctx context.Context, baud int) error {
	if s.port == "" {
		return fmt.Errorf("missing serial port")
	}
	conn := serialpkg.NewAsyncAccess(s.port, baud, s.log)
	if err := conn.OpenConnection(ctx); err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.log.Debug("close", zap.Error(err))
		}
	}()
	s.log.Info("watching", zap.String("port", s.port), zap.Int("baud", baud))
	return s.Run(ctx, conn)
}

// Run records readings from src until ctx ends or src fails.
func (s *Server) Run(ctx context.Context, src modern.ReadingSource) error {
	return modern.Watch(ctx, src, s.Record)
}
