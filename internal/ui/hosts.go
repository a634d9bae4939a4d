package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/arpsweep/internal/discovery"
)

const emptyCell = "-"

// RenderHostTable renders hosts as a bordered table. The hostname and matched
// columns are only shown when at least one host carries a value for them.
func RenderHostTable(hosts []discovery.HostRecord, width int) string {
	var withNames, withMatches bool
	for _, h := range hosts {
		withNames = withNames || h.Hostname != ""
		withMatches = withMatches || len(h.Matched) > 0
	}

	headers := []string{"", "IP", "MAC", "VENDOR"}
	if withNames {
		headers = append(headers, "HOSTNAME")
	}
	if withMatches {
		headers = append(headers, "MATCHED")
	}

	rows := make([][]string, 0, len(hosts))
	for _, h := range hosts {
		marker := ""
		if h.IsSelf {
			marker = SelfMarker
		}
		row := []string{marker, h.IP, h.MAC, orEmpty(h.VendorType)}
		if withNames {
			row = append(row, orEmpty(h.Hostname))
		}
		if withMatches {
			row = append(row, orEmpty(strings.Join(h.Matched, ", ")))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row < 0 || row >= len(rows) {
				return TableCellStyle
			}
			if hosts[row].IsSelf {
				return TableSelfStyle
			}
			if rows[row][col] == emptyCell {
				return TableMutedStyle
			}
			return TableCellStyle
		})

	if width > 0 {
		t = t.Width(min(width, MaxContentWidth))
	}
	return t.Render()
}

// RenderHostSummary renders the line printed under a host table.
func RenderHostSummary(hosts []discovery.HostRecord, sweep discovery.SweepInfo, cached bool) string {
	parts := []string{fmt.Sprintf("%d hosts", len(hosts))}
	if sweep.Probed > 0 {
		parts = append(parts, fmt.Sprintf("%d of %d addresses answered", sweep.Reachable, sweep.Probed))
	}
	if !sweep.FinishedAt.IsZero() && !sweep.StartedAt.IsZero() {
		parts = append(parts, fmt.Sprintf("swept in %s", sweep.FinishedAt.Sub(sweep.StartedAt).Round(10*time.Millisecond)))
	}
	if cached {
		parts = append(parts, "served from cache")
	}
	return SummaryStyle.Render(strings.Join(parts, " · "))
}

// RenderSelf renders the local interface as a success box.
func RenderSelf(info discovery.SelfInfo, width int) string {
	return NewSuccessResult("Local interface",
		Detail{Key: "Interface", Value: orEmpty(info.Interface)},
		Detail{Key: "IP", Value: info.IP},
		Detail{Key: "MAC", Value: info.MAC},
		Detail{Key: "Netmask", Value: orEmpty(info.Netmask)},
		Detail{Key: "Vendor", Value: orEmpty(info.VendorType)},
	).SetWidth(width).Render()
}

// RenderMissing renders search terms that matched nothing.
func RenderMissing(kind string, missing []string, width int) string {
	if len(missing) == 0 {
		return ""
	}
	return NewWarningResult(fmt.Sprintf("%d %s not found", len(missing), kind),
		Detail{Key: "Missing", Value: strings.Join(missing, ", ")},
	).SetWidth(width).Render()
}

func orEmpty(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}
