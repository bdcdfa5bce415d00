package viz

import (
	"fmt"
	"image"
	"image/gif"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stardust/internal/config"
	"github.com/san-kum/stardust/internal/dither"
	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/input"
	"github.com/san-kum/stardust/internal/metrics"
	"github.com/san-kum/stardust/internal/palette"
	"github.com/san-kum/stardust/internal/render"
	"github.com/san-kum/stardust/internal/sim"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	statusRows      = 2
	historyCapacity = 600
	sparkWidth      = 24
)

type TickMsg time.Time

// Model hosts the simulation in the terminal. One logical unit is one
// braille dot.
type Model struct {
	cfg      *config.Config
	sim      *sim.Simulation
	log      *slog.Logger
	canvas   *Canvas
	bg       *dither.Generator
	theme    Theme
	cfgTheme Theme
	metrics  []metrics.Metric

	width, height int
	running       bool
	showHelp      bool
	last          sim.TickStats
	attracted     []float64

	recording bool
	frames    []*image.Paletted
	GIFPath   string
}

// NewModel builds the simulation for a default-sized terminal; the first
// window size message rescales it.
func NewModel(cfg *config.Config, rng sim.Rand, log *slog.Logger) Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	for _, err := range cfg.ColorErrors() {
		log.Debug("colour falls back to white", "err", err)
	}
	canvas := NewCanvas(defaultCols, defaultRows-statusRows)
	t := ConfigTheme(cfg.Background)
	m := Model{
		cfg:       cfg,
		sim:       sim.New(cfg, canvas.Bounds(cfg.Interaction.EdgeBuffer), rng),
		log:       log,
		canvas:    canvas,
		theme:     t,
		cfgTheme:  t,
		metrics:   metrics.Standard(),
		width:     defaultCols,
		height:    defaultRows,
		running:   true,
		attracted: make([]float64, 0, historyCapacity),
		GIFPath:   "stardust.gif",
	}
	m.bg = m.generator()
	return m
}

func (m Model) generator() *dither.Generator {
	return dither.NewGenerator(palette.Parse(m.theme.Top), palette.Parse(m.theme.Bottom), m.cfg.Background.Levels)
}

func (m Model) Simulation() *sim.Simulation { return m.sim }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.Render.TPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			n := m.sim.Release()
			m.log.Debug("released", "particles", n)
		case "t":
			m.theme = NextTheme(m.theme, m.cfgTheme)
			m.bg = m.generator()
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.MouseMsg:
		if ev, ok := m.mouseEvent(msg, time.Now()); ok {
			m.sim.HandleEvent(ev)
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case TickMsg:
		if m.running {
			m.step(time.Time(msg))
		}
		if m.recording {
			m.draw()
			m.frames = append(m.frames, Capture(m.canvas, m.background()))
		}
		return m, m.tick()
	}
	return m, nil
}

// mouseEvent maps a terminal mouse message onto the centre dot of the cell
// under the cursor. Only the left button interacts.
func (m Model) mouseEvent(msg tea.MouseMsg, at time.Time) (input.Event, bool) {
	pos := geom.LogicalPoint{X: float64(msg.X*2) + 1, Y: float64(msg.Y*4) + 2}
	ev := input.Event{Source: input.Mouse, Pos: pos, At: at}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return ev, false
		}
		ev.Kind = input.Down
	case tea.MouseActionRelease:
		ev.Kind = input.Up
	case tea.MouseActionMotion:
		ev.Kind = input.Move
	default:
		return ev, false
	}
	return ev, true
}

func (m *Model) resize(w, h int) {
	rows := h - statusRows
	if w <= 0 || rows <= 0 {
		return
	}
	m.width, m.height = w, h
	m.canvas = NewCanvas(w, rows)
	m.sim.Resize(m.canvas.Bounds(m.cfg.Interaction.EdgeBuffer))
	m.log.Debug("terminal resized", "cols", w, "rows", rows)
}

func (m *Model) step(now time.Time) {
	stats := m.sim.Step(now)
	for _, mt := range m.metrics {
		mt.Observe(stats)
	}
	m.last = stats

	m.attracted = append(m.attracted, float64(stats.Attracted))
	if len(m.attracted) > historyCapacity {
		m.attracted = m.attracted[1:]
	}
}

func (m *Model) background() *image.RGBA {
	img, fresh, err := m.bg.Regenerate(m.canvas.Width, m.canvas.Height)
	if err != nil {
		m.log.Error("background", "err", err)
		return nil
	}
	if fresh {
		m.log.Debug("background regenerated", "cols", m.canvas.Width, "rows", m.canvas.Height, "theme", m.theme.Name)
	}
	return img
}

func (m *Model) draw() {
	m.canvas.Clear()
	render.Frame(m.sim, m.canvas, render.Options{
		RegularSize: m.cfg.Particles.RegularSize,
		BloomOffset: m.cfg.Render.BloomOffset,
	})
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	delay := 100 / m.cfg.Render.TPS
	if delay < 2 {
		delay = 2
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(m.GIFPath)
	if err != nil {
		m.log.Error("gif create", "path", m.GIFPath, "err", err)
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.log.Error("gif encode", "path", m.GIFPath, "err", err)
		return
	}
	m.log.Info("gif saved", "path", m.GIFPath, "frames", len(m.frames))
}

func (m Model) View() string {
	m.draw()
	view := Compose(m.canvas, m.background()) + m.status()
	if m.showHelp {
		return HelpBox.Render(helpText) + "\n" + view
	}
	return view
}

const helpText = `drag     attract stardust
release  keep it captured
flick    drag quickly while holding
r        release captured particles
space    pause / resume
t        cycle background theme
g        toggle GIF recording
q        quit`

func (m Model) status() string {
	var s strings.Builder

	fam := m.cfg.Family
	if len(fam) > 1 {
		s.WriteString(GradientText("stardust", fam[0].Color, fam[len(fam)-1].Color))
	} else {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Accent).Render("stardust"))
	}
	s.WriteString("  ")

	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render("REC"))
	case !m.running:
		s.WriteString(StatusPaused.Render("PAUSED"))
	default:
		s.WriteString(StatusRunning.Render("RUNNING"))
	}

	for _, kv := range []struct {
		k string
		v int
	}{
		{"free", m.last.Free},
		{"attracted", m.last.Attracted},
		{"flicked", m.last.Flicked},
	} {
		s.WriteString("  " + MetricLabel.Render(kv.k) + " " + MetricValue.Render(fmt.Sprint(kv.v)))
	}
	s.WriteString("\n")

	s.WriteString(MetricLabel.Render("radius ") + ProgressBar(m.radiusProgress(), 12))
	s.WriteString(MetricLabel.Render(fmt.Sprintf(" %5.1f  ", m.last.Radius)))
	s.WriteString(SparklineChart(m.attracted, sparkWidth))
	s.WriteString("  " + KeyHint.Render("? help  q quit"))
	return s.String()
}

func (m Model) radiusProgress() float64 {
	base := m.cfg.Interaction.BaseRadius
	top := m.sim.Bounds().MinDim() / 2
	if top <= base {
		return 1
	}
	return (m.last.Radius - base) / (top - base)
}

// Run starts the terminal host with mouse motion reporting enabled.
func Run(cfg *config.Config, rng sim.Rand, log *slog.Logger) error {
	p := tea.NewProgram(NewModel(cfg, rng, log), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
