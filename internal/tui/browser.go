package tui

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/arpsweep/internal/discovery"
)

// SweepFunc runs one discovery. refresh bypasses the cache.
type SweepFunc func(ctx context.Context, refIP string, refresh bool) ([]discovery.HostRecord, discovery.SweepInfo, error)

// Messages for async operations
type sweepStartMsg struct{}
type sweepDoneMsg struct {
	hosts []discovery.HostRecord
	info  discovery.SweepInfo
	err   error
}

// hostItem wraps a HostRecord for use with bubbles/list
type hostItem struct {
	host discovery.HostRecord
}

func (h hostItem) FilterValue() string {
	return strings.Join([]string{h.host.IP, h.host.MAC, h.host.VendorType, h.host.Hostname}, " ")
}

// hostDelegate renders one host per line
type hostDelegate struct{}

func (d hostDelegate) Height() int                               { return 1 }
func (d hostDelegate) Spacing() int                              { return 0 }
func (d hostDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d hostDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	hi, ok := item.(hostItem)
	if !ok {
		return
	}
	line := formatHostLine(hi.host)

	switch {
	case index == m.Index():
		fmt.Fprint(w, SelectedHostStyle.Render("→ "+line))
	case hi.host.IsSelf:
		fmt.Fprint(w, HostStyle.Render(SelfHostStyle.Render(line)))
	default:
		fmt.Fprint(w, HostStyle.Render(line))
	}
}

func formatHostLine(h discovery.HostRecord) string {
	vendor := h.VendorType
	if vendor == "" {
		vendor = "-"
	}
	line := fmt.Sprintf("%-15s  %-17s  %-16s", h.IP, h.MAC, vendor)
	if h.Hostname != "" {
		line += "  " + h.Hostname
	}
	if h.IsSelf {
		line += "  (this machine)"
	}
	return line
}

// BrowserModel is the interactive host browser: a sweep runs on start, the
// result is listed, and the user can filter, inspect, rescan or sweep another
// subnet.
type BrowserModel struct {
	ctx      context.Context
	sweep    SweepFunc
	expected time.Duration
	now      func() time.Time

	// Sweep state
	RefIP     string
	Scanning  bool
	HostList  list.Model
	LastSweep discovery.SweepInfo
	Err       error

	// Subnet entry state
	SubnetMode bool
	RefInput   textinput.Model
	InputErr   string

	// Detail view state
	Detail bool

	// UI state
	Width       int
	Height      int
	Spinner     spinner.Model
	ProgressBar progress.Model
	ScanStart   time.Time
	Help        help.Model
}

// NewBrowserModel creates a browser that sweeps refIP (or the local subnet
// when empty) with sweep. expected is the typical sweep duration and only
// drives the progress bar.
func NewBrowserModel(ctx context.Context, sweep SweepFunc, refIP string, expected time.Duration) BrowserModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	refInput := textinput.New()
	refInput.Placeholder = "192.168.1.1"
	refInput.CharLimit = 15
	refInput.Width = 30

	hostList := list.New([]list.Item{}, hostDelegate{}, MinTerminalWidth-4, 14)
	hostList.Title = "Hosts"
	hostList.SetShowStatusBar(true)
	hostList.SetShowHelp(false)
	hostList.SetFilteringEnabled(true)
	hostList.Styles.Title = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)

	if expected <= 0 {
		expected = 10 * time.Second
	}

	return BrowserModel{
		ctx:         ctx,
		sweep:       sweep,
		expected:    expected,
		now:         time.Now,
		RefIP:       refIP,
		HostList:    hostList,
		RefInput:    refInput,
		Spinner:     s,
		ProgressBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		Help:        help.New(),
	}
}

// Init starts the first sweep
func (m BrowserModel) Init() tea.Cmd {
	return m.startSweep(false)
}

func (m BrowserModel) startSweep(refresh bool) tea.Cmd {
	ctx, sweep, ref := m.ctx, m.sweep, m.RefIP
	return tea.Batch(
		func() tea.Msg { return sweepStartMsg{} },
		func() tea.Msg {
			hosts, info, err := sweep(ctx, ref, refresh)
			return sweepDoneMsg{hosts: hosts, info: info, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case m.SubnetMode:
			return m.updateSubnetMode(msg)
		case m.Scanning:
			if key.Matches(msg, scanningKeys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		case m.Detail:
			return m.updateDetailMode(msg)
		}
		return m.updateListMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.HostList.SetWidth(msg.Width - 6)
		m.HostList.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case sweepStartMsg:
		m.Scanning = true
		m.ScanStart = m.now()
		m.Err = nil
		return m, nil

	case sweepDoneMsg:
		m.Scanning = false
		m.Err = msg.err
		if msg.err == nil {
			m.LastSweep = msg.info
			items := make([]list.Item, len(msg.hosts))
			for i, h := range msg.hosts {
				items[i] = hostItem{host: h}
			}
			cmd = m.HostList.SetItems(items)
			m.HostList.Select(0)
		}
		return m, cmd

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.SubnetMode && !m.Scanning {
		m.HostList, cmd = m.HostList.Update(msg)
	}
	return m, cmd
}

// updateListMode handles keyboard input on the host list
func (m BrowserModel) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter prompt is open every key belongs to the list.
	if m.HostList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.HostList, cmd = m.HostList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, listKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, listKeys.Detail):
		if m.HostList.SelectedItem() != nil {
			m.Detail = true
		}
		return m, nil

	case key.Matches(msg, listKeys.Rescan):
		m.Detail = false
		return m, m.startSweep(true)

	case key.Matches(msg, listKeys.Subnet):
		m.SubnetMode = true
		m.InputErr = ""
		m.RefInput.SetValue("")
		return m, m.RefInput.Focus()
	}

	var cmd tea.Cmd
	m.HostList, cmd = m.HostList.Update(msg)
	return m, cmd
}

// updateSubnetMode handles keyboard input in reference IP entry mode
func (m BrowserModel) updateSubnetMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, subnetKeys.Cancel), msg.String() == "ctrl+c":
		m.SubnetMode = false
		m.RefInput.Blur()
		return m, nil

	case key.Matches(msg, subnetKeys.Confirm):
		value := strings.TrimSpace(m.RefInput.Value())
		if ip := net.ParseIP(value); ip == nil || ip.To4() == nil || strings.Count(value, ".") != 3 {
			m.InputErr = fmt.Sprintf("%q is not an IPv4 address", value)
			return m, nil
		}
		m.RefIP = value
		m.SubnetMode = false
		m.InputErr = ""
		m.RefInput.Blur()
		return m, m.startSweep(false)
	}

	var cmd tea.Cmd
	m.RefInput, cmd = m.RefInput.Update(msg)
	return m, cmd
}

// updateDetailMode handles keyboard input on the host detail card
func (m BrowserModel) updateDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, detailKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, detailKeys.Back):
		m.Detail = false
	}
	return m, nil
}

// Selected returns the host under the cursor.
func (m BrowserModel) Selected() (discovery.HostRecord, bool) {
	if item, ok := m.HostList.SelectedItem().(hostItem); ok {
		return item.host, true
	}
	return discovery.HostRecord{}, false
}

// View renders the browser
func (m BrowserModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content, helpText string
	switch {
	case m.SubnetMode:
		content = m.renderSubnetEntry()
		helpText = m.Help.View(subnetKeys)
	case m.Scanning:
		content = m.renderScanning(width)
		helpText = m.Help.View(scanningKeys)
	case m.Detail:
		content = m.renderDetail()
		helpText = m.Help.View(detailKeys)
	default:
		content = m.renderResults()
		helpText = m.Help.View(listKeys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m BrowserModel) subnetLabel() string {
	if m.RefIP == "" {
		return "local subnet"
	}
	if i := strings.LastIndex(m.RefIP, "."); i > 0 {
		return m.RefIP[:i] + ".0/24"
	}
	return m.RefIP
}

// renderScanning renders a centered spinner with an estimated progress bar
func (m BrowserModel) renderScanning(width int) string {
	elapsed := m.now().Sub(m.ScanStart)
	percent := min(0.95, float64(elapsed)/float64(m.expected))

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SWEEPING %s", m.Spinner.View(), strings.ToUpper(m.subnetLabel()))),
		SubtitleStyle.Render("Probing every address and reading hardware addresses..."),
		"",
		m.ProgressBar.ViewAs(percent),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)
	return lipgloss.Place(width-4, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderResults renders the host list, or the error / empty state
func (m BrowserModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Sweep failed: %v", m.Err)))
		b.WriteString("\n\n  Troubleshooting:\n")
		b.WriteString("    • Check that a network interface is up and has an IPv4 address\n")
		b.WriteString("    • Sweep a subnet explicitly with 's'\n")
		b.WriteString("    • Try again with 'r'\n")

	case len(m.HostList.Items()) == 0:
		b.WriteString("  " + WarningStyle.Render("⚠ No hosts answered on the "+m.subnetLabel()))
		b.WriteString("\n\n  Hosts that drop ICMP echo requests are not listed.\n")

	default:
		b.WriteString(m.HostList.View())
		b.WriteString("\n")
		if m.LastSweep.ID != "" {
			b.WriteString(StatusStyle.Render(fmt.Sprintf("%s · %d of %d addresses answered · sweep %s",
				m.subnetLabel(), m.LastSweep.Reachable, m.LastSweep.Probed, shortID(m.LastSweep.ID))))
		}
	}
	return b.String()
}

// renderDetail renders the selected host as a card
func (m BrowserModel) renderDetail() string {
	h, ok := m.Selected()
	if !ok {
		return ""
	}

	field := func(k, v string) string {
		if v == "" {
			v = "-"
		}
		return fmt.Sprintf("%-10s %s", k+":", v)
	}
	lines := []string{
		SelectedHostStyle.Render(h.IP),
		"",
		field("MAC", h.MAC),
		field("Vendor", h.VendorType),
		field("Hostname", h.Hostname),
	}
	if h.IsSelf {
		lines = append(lines, "", SelfHostStyle.Render("This machine"))
	}
	return "\n" + CardStyle.Render(strings.Join(lines, "\n"))
}

// renderSubnetEntry renders the reference IP entry dialog
func (m BrowserModel) renderSubnetEntry() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Enter any address in the /24 subnet to sweep"))
	b.WriteString("\n\n  Address: ")
	b.WriteString(m.RefInput.View())
	b.WriteString("\n")
	if m.InputErr != "" {
		b.WriteString("\n  " + WarningStyle.Render(m.InputErr) + "\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
