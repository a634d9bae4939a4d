package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/muurk/arpsweep/internal/discovery"
)

// Printer provides methods for printing UI components to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Writer returns the underlying output.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected width.
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Detail) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintHosts prints a host table followed by its summary line.
func (p *Printer) PrintHosts(hosts []discovery.HostRecord, sweep discovery.SweepInfo, cached bool) {
	if len(hosts) == 0 {
		p.PrintWarning("No hosts found", Detail{Key: "Hint", Value: "try a longer --timeout"})
		return
	}
	p.Println(RenderHostTable(hosts, p.width))
	p.Println(RenderHostSummary(hosts, sweep, cached))
}

// PrintSelf prints the local interface box.
func (p *Printer) PrintSelf(info discovery.SelfInfo) {
	p.Println(RenderSelf(info, p.width))
}

// PrintMissing prints the search terms that matched nothing, if any.
func (p *Printer) PrintMissing(kind string, missing []string) {
	if box := RenderMissing(kind, missing, p.width); box != "" {
		p.Println(box)
	}
}

// PrintJSON writes v as indented JSON.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
