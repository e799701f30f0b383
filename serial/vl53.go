package serial

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds the connection parameters for a RangeFinder.
type Config struct {
	Port       string
	Baud       int
	Timeout    int // seconds
	ReturnRate ReturnRate
	Debug      bool
	Logger     *zap.Logger
}

func (c Config) readTimeout() time.Duration {
	if c.Timeout <= 0 {
		return time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// RangeFinder issues synchronous commands to the sensor.
type RangeFinder struct {
	mu   sync.Mutex
	port Port
	cfg  Config
	log  *zap.Logger
}

// NewRangeFinder opens cfg.Port and returns a handle for command/response
// exchange with the sensor.
func NewRangeFinder(cfg Config) (*RangeFinder, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("serial port not set")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("rangefinder")
	port, err := Opener(cfg.Port, cfg.Baud, cfg.readTimeout())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Port, err)
	}
	log.Debug("port opened",
		zap.String("port", cfg.Port),
		zap.Int("baud", cfg.Baud),
		zap.Duration("timeout", cfg.readTimeout()),
	)
	return &RangeFinder{port: port, cfg: cfg, log: log}, nil
}

func (r *RangeFinder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port == nil {
		return nil
	}
	err := r.port.Close()
	r.port = nil
	return err
}

func (r *RangeFinder) exchange(req []byte, want int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port == nil {
		return nil, ErrClosed
	}
	if r.cfg.Debug {
		r.log.Debug("tx", zap.String("frame", hex.EncodeToString(req)))
	}
	resp, err := transact(r.port, req, want, r.cfg.readTimeout())
	if r.cfg.Debug {
		r.log.Debug("rx", zap.String("frame", hex.EncodeToString(resp)), zap.Error(err))
	}
	return resp, err
}

func (r *RangeFinder) readRegister(reg uint16) (uint16, error) {
	resp, err := r.exchange(ReadRequest(reg), readResponseLen)
	if err != nil {
		return 0, fmt.Errorf("read register 0x%04X: %w", reg, err)
	}
	v, err := DecodeReadResponse(resp)
	if err != nil {
		return 0, fmt.Errorf("read register 0x%04X: %w", reg, err)
	}
	return v, nil
}

func (r *RangeFinder) writeRegister(reg, val uint16) error {
	req := WriteRequest(reg, val)
	resp, err := r.exchange(req, writeResponseLen)
	if err != nil {
		return fmt.Errorf("write register 0x%04X: %w", reg, err)
	}
	if err := DecodeWriteResponse(req, resp); err != nil {
		return fmt.Errorf("write register 0x%04X: %w", reg, err)
	}
	return nil
}

// Reset reboots the sensor.
func (r *RangeFinder) Reset() error {
	if err := r.writeRegister(RegSpecial, specialReboot); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	r.log.Info("sensor reset")
	return nil
}

// SetSensorMode switches the sensor's communication interface. In modbus
// mode the sensor stops printing ASCII readings.
func (r *RangeFinder) SetSensorMode(m Mode) error {
	v, err := m.register()
	if err != nil {
		return err
	}
	if err := r.writeRegister(RegMode, v); err != nil {
		return fmt.Errorf("set mode %s: %w", m, err)
	}
	r.log.Info("sensor mode set", zap.String("mode", string(m)))
	return nil
}

func (r *RangeFinder) GetReturnRate() (ReturnRate, error) {
	ms, err := r.readRegister(RegInterval)
	if err != nil {
		return 0, fmt.Errorf("get return rate: %w", err)
	}
	return ReturnRateFromInterval(ms), nil
}

func (r *RangeFinder) SetReturnRate(rate ReturnRate) error {
	if rate <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidReturnRate, rate)
	}
	if err := r.writeRegister(RegInterval, rate.Interval()); err != nil {
		return fmt.Errorf("set return rate: %w", err)
	}
	r.cfg.ReturnRate = rate
	r.log.Info("return rate set", zap.String("hz", rate.String()))
	return nil
}

// ReadDistance polls the distance register once. The register holds mm.
func (r *RangeFinder) ReadDistance() (Reading, error) {
	mm, err := r.readRegister(RegDistance)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Distance: float64(mm), Units: "mm"}, nil
}

// StreamData consumes the ASCII readings the sensor prints in serial mode
// and hands each to fn until ctx ends.
func (r *RangeFinder) StreamData(ctx context.Context, fn func(Reading)) error {
	r.mu.Lock()
	port := r.port
	r.mu.Unlock()
	if port == nil {
		return ErrClosed
	}
	lr := newLineReader(port)
	for {
		rd, err := lr.nextReading(ctx, func(line string) {
			r.log.Debug("skipped line", zap.String("line", line))
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("stream: %w", err)
		}
		fn(rd)
	}
}

// LStreamData polls the distance register at the configured return rate
// until ctx ends.
func (r *RangeFinder) LStreamData(ctx context.Context, fn func(Reading)) error {
	interval := time.Second
	if ms := r.cfg.ReturnRate.Interval(); ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if ctx.Err() != nil {
			return nil
		}
		rd, err := r.ReadDistance()
		if err != nil {
			return fmt.Errorf("lstream: %w", err)
		}
		fn(rd)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
