package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/platform"
)

// CommandPinger checks reachability by running the platform ping tool.
type CommandPinger struct {
	runner  Runner
	adapter platform.Adapter
}

// NewCommandPinger creates a pinger that runs adapter's ping command.
func NewCommandPinger(runner Runner, adapter platform.Adapter) *CommandPinger {
	return &CommandPinger{runner: runner, adapter: adapter}
}

// Ping reports a host reachable when ping exits cleanly and its statistics
// do not show total loss. A non-zero exit is a normal unreachable result; only
// failures to run ping at all are returned as errors.
func (p *CommandPinger) Ping(ctx context.Context, ip string, timeout time.Duration) (bool, error) {
	out, err := p.runner.Run(ctx, p.adapter.PingCommand(ip, timeout))
	if err != nil {
		var execErr *ExecutionError
		if errors.As(err, &execErr) && execErr.ExitCode > 0 {
			return false, nil
		}
		return false, err
	}
	return p.adapter.ParseProbeResult(out.Stdout), nil
}

// CommandResolver reads hardware addresses from the platform arp tool.
type CommandResolver struct {
	runner  Runner
	adapter platform.Adapter
}

// NewCommandResolver creates a resolver that runs adapter's arp command.
func NewCommandResolver(runner Runner, adapter platform.Adapter) *CommandResolver {
	return &CommandResolver{runner: runner, adapter: adapter}
}

// Resolve returns the raw hardware address for ip, or discovery.ErrNoEntry.
// arp exits non-zero for missing entries on every platform, so the output is
// parsed even when the command fails.
func (r *CommandResolver) Resolve(ctx context.Context, ip string) (string, error) {
	out, err := r.runner.Run(ctx, r.adapter.ResolveCommand(ip))
	if err != nil {
		var execErr *ExecutionError
		if !errors.As(err, &execErr) || execErr.ExitCode <= 0 {
			return "", err
		}
	}

	mac, perr := r.adapter.ParseResolveResult(ip, out.Stdout+"\n"+out.Stderr)
	if perr == nil {
		return mac, nil
	}
	if errors.Is(perr, discovery.ErrNoEntry) {
		return "", discovery.ErrNoEntry
	}
	if err != nil {
		return "", err
	}
	return "", perr
}

// CommandSelf lists interfaces with the platform tool and parses the output.
type CommandSelf struct {
	runner  Runner
	adapter platform.Adapter
}

// NewCommandSelf creates a self resolver that runs adapter's interface command.
func NewCommandSelf(runner Runner, adapter platform.Adapter) *CommandSelf {
	return &CommandSelf{runner: runner, adapter: adapter}
}

func (s *CommandSelf) Self(ctx context.Context) (discovery.SelfInfo, error) {
	cmd := s.adapter.InterfaceCommand()
	out, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return discovery.SelfInfo{}, fmt.Errorf("listing interfaces with %s: %w", cmd.Name, err)
	}
	return s.adapter.ParseInterfaceInfo(out.Stdout)
}
