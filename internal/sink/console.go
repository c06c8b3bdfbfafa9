package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/thalassalab/observe"
	"github.com/thalassalab/observe/internal/feed"
)

// Output formats accepted by NewConsole.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Style definitions for text output.
var (
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	createStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	removeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	changeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	tickStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Console renders every event it observes as one line on w.
type Console struct {
	observe.Base[feed.Event]

	format string
	color  bool

	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console sink writing to w in the given format
// (FormatText, FormatJSON, or FormatYAML). color only affects text output.
func NewConsole(w io.Writer, format string, color bool) (*Console, error) {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &Console{format: format, color: color, w: w}, nil
}

// OnNotify renders the event. Render failures are silently dropped: a
// broken pipe on stdout must not disturb the notifying subject.
func (c *Console) OnNotify(event feed.Event) {
	line, err := c.render(event)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, line)
}

// OnSubjectDisconnected marks explicit detachment in the output so an
// interactive session shows when a stream was switched off.
func (c *Console) OnSubjectDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, "-- stream detached --\n")
}

func (c *Console) render(event feed.Event) (string, error) {
	switch c.format {
	case FormatJSON:
		data, err := json.Marshal(event)
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(event)
		if err != nil {
			return "", err
		}
		return "---\n" + string(data), nil
	default:
		return c.renderText(event), nil
	}
}

func (c *Console) renderText(event feed.Event) string {
	stamp := event.Time.Format("15:04:05.000")
	if !c.color {
		return fmt.Sprintf("%s %-8s %-10s %s\n", stamp, event.Source, event.Type, event.Message)
	}
	return fmt.Sprintf("%s %s %s %s\n",
		timeStyle.Render(stamp),
		sourceStyle.Render(fmt.Sprintf("%-8s", event.Source)),
		typeStyle(event.Type).Render(fmt.Sprintf("%-10s", event.Type)),
		event.Message,
	)
}

func typeStyle(eventType string) lipgloss.Style {
	switch eventType {
	case "fs.create":
		return createStyle
	case "fs.remove", "fs.rename":
		return removeStyle
	case "fs.write", "fs.chmod":
		return changeStyle
	case "fs.error":
		return errorStyle
	case "tick":
		return tickStyle
	default:
		return defaultStyle
	}
}
