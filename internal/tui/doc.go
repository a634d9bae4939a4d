// Package tui implements the interactive host browser.
//
// The browser is a Bubble Tea program: a sweep runs when it starts and the
// reachable hosts are listed with their hardware address, vendor type and
// hostname. From the list the user can filter, open a host's detail card,
// rescan bypassing the cache, or sweep a different /24 subnet by entering a
// reference address.
//
// # Framework Components
//
//   - bubbles/list: host list with filtering
//   - bubbles/spinner and bubbles/progress: sweep in progress
//   - bubbles/textinput: reference address entry
//   - bubbles/help and bubbles/key: context-aware footer
//   - lipgloss: styling and layout
//
// # Usage Example
//
//	model := tui.NewBrowserModel(ctx, sweep, "", 8*time.Second)
//	program := tea.NewProgram(model, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    return err
//	}
//
// The sweep function decides where hosts come from; the arpsweep command
// passes one backed by a discovery.Engine.
package tui
