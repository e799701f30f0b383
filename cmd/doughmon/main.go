// Command doughmon shows live rangefinder readings in a terminal UI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rberger/dough-man/internal/logging"
	"github.com/rberger/dough-man/modern"
	serialpkg "github.com/rberger/dough-man/serial"
)

const (
	appTitle      = "DoughMan TUI"
	maxHistory    = 1000
	statsWindow   = 50
	chromeHeight  = 9
	defaultWidth  = 80
	defaultHeight = 24
)

var baudRates = []int{9600, 115200}

type tab int

const (
	tabConfig tab = iota
	tabData
)

type focus int

const (
	focusPorts focus = iota
	focusBaud
)

// runResult tells main whether to start again with new serial settings.
type runResult struct {
	Restart    bool
	SerialPort string
	BaudRate   int
}

type model struct {
	tab   tab
	focus focus

	// config
	ports      []string
	portCursor int
	baudCursor int
	serialPort string
	baudRate   int

	// connection
	conn     *serialpkg.AsyncAccess
	ctx      context.Context
	cancel   context.CancelFunc
	runID    int
	lastErr  error
	infoLine string

	// data
	lineOutput string
	redraws    int
	lines      []string
	history    viewport.Model
	window     *modern.Window

	dark   bool
	keys   keyMap
	help   help.Model
	width  int
	height int

	log    *zap.Logger
	result runResult
}

// newModel picks the initial tab the way the port list allows: a single
// port connects straight away, several ports without a choice open Config.
func newModel(serialPort string, baudRate int, ports []string, log *zap.Logger) (model, error) {
	if len(ports) == 0 && serialPort == "" {
		return model{}, serialpkg.ErrNoPorts
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := model{
		tab:        tabData,
		ports:      ports,
		serialPort: serialPort,
		baudRate:   baudRate,
		lineOutput: modern.WaitingText,
		history:    viewport.New(defaultWidth, defaultHeight-chromeHeight),
		window:     modern.NewWindow(statsWindow),
		dark:       true,
		keys:       newKeyMap(),
		help:       help.New(),
		width:      defaultWidth,
		height:     defaultHeight,
		log:        log,
	}
	if m.serialPort == "" {
		if len(ports) == 1 {
			m.serialPort = ports[0]
		} else {
			m.tab = tabConfig
		}
	}
	if m.serialPort != "" {
		m.ctx, m.cancel = context.WithCancel(context.Background())
	}
	for i, p := range ports {
		if p == m.serialPort {
			m.portCursor = i
		}
	}
	for i, b := range baudRates {
		if b == baudRate {
			m.baudCursor = i
		}
	}
	return m, nil
}

type errMsg struct {
	runID int
	err   error
}
type connectedMsg struct {
	runID int
	conn  *serialpkg.AsyncAccess
}
type readingMsg struct {
	runID   int
	reading serialpkg.Reading
	at      time.Time
}
type stoppedMsg struct{ runID int }

func (m model) Init() tea.Cmd {
	if m.ctx == nil {
		return nil
	}
	return m.connectCmd(m.ctx, m.runID)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.history.Width = msg.Width
		m.history.Height = max(msg.Height-chromeHeight, 3)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.disconnect()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dark):
			m.dark = !m.dark
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.tab == tabData {
				m.tab = tabConfig
			} else {
				m.tab = tabData
			}
			return m, nil
		}
		if m.tab == tabConfig {
			return m.updateConfigKey(msg)
		}
		if key.Matches(msg, m.keys.Reconnect) && m.serialPort != "" {
			return m.reconnect()
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case connectedMsg:
		if msg.runID != m.runID {
			_ = msg.conn.Close()
			return m, nil
		}
		m.conn = msg.conn
		m.lastErr = nil
		m.infoLine = fmt.Sprintf("Connected on %s at %d baud", m.serialPort, m.baudRate)
		m.setLineOutput(modern.WaitingText)
		m.log.Info("connected", zap.String("port", m.serialPort), zap.Int("baud", m.baudRate))
		return m, m.waitReadingCmd(m.ctx, m.runID)

	case readingMsg:
		if msg.runID != m.runID {
			return m, nil
		}
		m.setLineOutput(msg.reading.String())
		m.window.Add(msg.reading.Distance)
		m.appendHistory(fmt.Sprintf("%s  %s", msg.at.Format("15:04:05.000"), m.lineOutput))
		return m, m.waitReadingCmd(m.ctx, m.runID)

	case errMsg:
		if msg.runID != m.runID {
			return m, nil
		}
		m.lastErr = msg.err
		m.log.Error("serial", zap.Error(msg.err))
		return m, nil

	case stoppedMsg:
		return m, nil
	}
	return m, nil
}

// setLineOutput is the reactive field: every assignment redraws it.
func (m *model) setLineOutput(s string) {
	m.lineOutput = s
	m.redraws++
}

func (m *model) appendHistory(line string) {
	atBottom := m.history.AtBottom()
	m.lines = append(m.lines, line)
	if len(m.lines) > maxHistory {
		m.lines = m.lines[len(m.lines)-maxHistory:]
	}
	m.history.SetContent(strings.Join(m.lines, "\n"))
	if atBottom {
		m.history.GotoBottom()
	}
}

func (m model) updateConfigKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Switch):
		if m.focus == focusPorts {
			m.focus = focusBaud
		} else {
			m.focus = focusPorts
		}
	case key.Matches(k, m.keys.Up):
		if m.focus == focusPorts && m.portCursor > 0 {
			m.portCursor--
		}
		if m.focus == focusBaud && m.baudCursor > 0 {
			m.baudCursor--
		}
	case key.Matches(k, m.keys.Down):
		if m.focus == focusPorts && m.portCursor < len(m.ports)-1 {
			m.portCursor++
		}
		if m.focus == focusBaud && m.baudCursor < len(baudRates)-1 {
			m.baudCursor++
		}
	case key.Matches(k, m.keys.Select):
		port, baud := m.serialPort, m.baudRate
		if m.focus == focusPorts && len(m.ports) > 0 {
			port = m.ports[m.portCursor]
		}
		if m.focus == focusBaud {
			baud = baudRates[m.baudCursor]
		}
		if port == m.serialPort && baud == m.baudRate {
			return m, nil
		}
		m.log.Info("serial settings changed", zap.String("port", port), zap.Int("baud", baud))
		m.result = runResult{Restart: true, SerialPort: port, BaudRate: baud}
		m.disconnect()
		return m, tea.Quit
	}
	return m, nil
}

// reconnect drops the current connection and opens a new one under a fresh
// run ID, so messages still in flight from the old one are ignored.
func (m model) reconnect() (tea.Model, tea.Cmd) {
	m.disconnect()
	m.runID++
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.lastErr = nil
	m.infoLine = fmt.Sprintf("Reconnecting to %s...", m.serialPort)
	m.setLineOutput(modern.WaitingText)
	m.log.Info("reconnect", zap.String("port", m.serialPort), zap.Int("run", m.runID))
	return m, m.connectCmd(m.ctx, m.runID)
}

func (m *model) disconnect() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.ctx = nil
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}

func (m model) connectCmd(ctx context.Context, runID int) tea.Cmd {
	port, baud, log := m.serialPort, m.baudRate, m.log
	return func() tea.Msg {
		conn := serialpkg.NewAsyncAccess(port, baud, log)
		if err := conn.OpenConnection(ctx); err != nil {
			return errMsg{runID: runID, err: err}
		}
		return connectedMsg{runID: runID, conn: conn}
	}
}

func (m model) waitReadingCmd(ctx context.Context, runID int) tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		if ctx == nil || conn == nil {
			return stoppedMsg{runID: runID}
		}
		r, err := conn.GetDistance(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, serialpkg.ErrClosed) {
				return stoppedMsg{runID: runID}
			}
			return errMsg{runID: runID, err: err}
		}
		return readingMsg{runID: runID, reading: r, at: time.Now()}
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "doughmon",
		Short:         "Watch live rangefinder readings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(logging.Options{Debug: settings.Debug, File: settings.LogFile})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runTUI(settings.SerialPort, settings.BaudRate, log)
		},
	}
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "Config file (default ./doughman.yaml or ~/.config/doughman/doughman.yaml)")
	f.String("serial-port", "", "Serial port; picked from the detected ports when empty.")
	f.Int("baud-rate", modern.DefaultBaudRate, "The baud rate to use.")
	f.Bool("debug", false, "Enable debug logging.")
	f.String("log-file", "", "Log file (default $TMPDIR/doughmon.log)")
	return cmd
}

// loadSettings merges flags, environment and config file. Unlike the CLI,
// an unset serial port stays empty so the detected ports decide.
func loadSettings(cmd *cobra.Command, configPath string) (*modern.Settings, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	v.SetDefault("serial-port", "")
	v.SetDefault("log-file", filepath.Join(os.TempDir(), "doughmon.log"))
	return modern.LoadConfig(v, configPath)
}

// listPorts is replaced in tests.
var listPorts = func() []string { return serialpkg.ListPorts(serialpkg.DefaultPortPatterns...) }

// runTUI runs the program, starting it again whenever the user picks new
// serial settings on the Config tab.
func runTUI(serialPort string, baudRate int, log *zap.Logger) error {
	for {
		m, err := newModel(serialPort, baudRate, listPorts(), log)
		if err != nil {
			log.Error("startup", zap.Error(err))
			return err
		}
		final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		if err != nil {
			return err
		}
		fm, ok := final.(model)
		if !ok || !fm.result.Restart {
			return nil
		}
		serialPort, baudRate = fm.result.SerialPort, fm.result.BaudRate
	}
}
