package runner

import (
	"fmt"
	"slices"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// DefaultTunnelAgentName names a tunnel agent config created by the registry.
const DefaultTunnelAgentName = "Tunnel Agent"

// FindTunnelAgent returns the first config with the tunnel agent role.
func (r *Registry) FindTunnelAgent() (lib.ProcessConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findTunnelAgentLocked()
}

func (r *Registry) findTunnelAgentLocked() (lib.ProcessConfig, bool) {
	for _, id := range r.order {
		if cfg := r.configs[id]; cfg.Role == lib.RoleTunnelAgent {
			return cfg.Clone(), true
		}
	}
	return lib.ProcessConfig{}, false
}

// EnsureTunnelAgent refreshes the existing tunnel agent or creates exactly one.
//
// An existing agent keeps its name, id, console setting and, when set, its own
// executable and arguments; empty ones fall back to the settings. A lone
// legacy "--silent" argument of an existing agent is dropped. A new agent
// takes everything from the settings.
func (r *Registry) EnsureTunnelAgent() (lib.ProcessConfig, error) {
	r.mu.Lock()
	existing, found := r.findTunnelAgentLocked()
	if !found {
		agent := lib.ProcessConfig{
			ID:                lib.NewID(),
			Name:              DefaultTunnelAgentName,
			Role:              lib.RoleTunnelAgent,
			Launch:            lib.ExecutableLaunch{Path: r.settings.TunnelAgentPath},
			ExtraArgs:         slices.Clone(r.settings.TunnelAgentArgs),
			HideConsoleWindow: r.settings.HideConsoleWindows,
		}
		r.insertLocked(agent)
		r.mu.Unlock()

		logger.Printf("Created tunnel agent %s", agent.ID)
		r.persist()
		return agent, nil
	}

	var executable string
	if l, ok := existing.Launch.(lib.ExecutableLaunch); ok {
		executable = l.Path
	}
	if executable == "" {
		executable = r.settings.TunnelAgentPath
	}
	args := existing.ExtraArgs
	if len(args) == 0 {
		args = r.settings.TunnelAgentArgs
	}

	agent := lib.ProcessConfig{
		ID:                existing.ID,
		Name:              existing.Name,
		Role:              lib.RoleTunnelAgent,
		Launch:            lib.ExecutableLaunch{Path: executable},
		ExtraArgs:         normalizeAgentArgs(args),
		HideConsoleWindow: existing.HideConsoleWindow,
	}
	sup := r.replaceLocked(agent)
	r.mu.Unlock()

	if sup != nil {
		sup.UpdateConfig(agent)
	}
	r.persist()
	return agent, nil
}

// EnsureTunnelAgentStarted ensures the agent config exists and starts it.
func (r *Registry) EnsureTunnelAgentStarted() (lib.ProcessConfig, error) {
	agent, err := r.EnsureTunnelAgent()
	if err != nil {
		return lib.ProcessConfig{}, err
	}
	return agent, r.Start(agent.ID)
}

// UpdateSettings stores settings and points an existing tunnel agent at the
// configured executable and arguments. No agent is created.
func (r *Registry) UpdateSettings(settings lib.Settings) error {
	r.mu.Lock()
	r.settings = settings.Clone()
	existing, found := r.findTunnelAgentLocked()
	var sup *Supervisor
	if found {
		existing.Launch = lib.ExecutableLaunch{Path: settings.TunnelAgentPath}
		existing.ExtraArgs = slices.Clone(settings.TunnelAgentArgs)
		existing.HideConsoleWindow = settings.HideConsoleWindows
		sup = r.replaceLocked(existing)
	}
	r.mu.Unlock()

	if sup != nil {
		sup.UpdateConfig(existing)
	}
	r.persist()
	return nil
}

// checkAgentRoleLocked rejects cfg when it claims the tunnel agent role held
// by another config.
func (r *Registry) checkAgentRoleLocked(cfg lib.ProcessConfig) error {
	if cfg.Role != lib.RoleTunnelAgent {
		return nil
	}
	if agent, ok := r.findTunnelAgentLocked(); ok && agent.ID != cfg.ID {
		return fmt.Errorf("%w: tunnel agent %q already exists", lib.ErrConfigInvalid, agent.ID)
	}
	return nil
}

// demoteExtraAgent records the first tunnel agent seen in *agentID and clears
// the role of any later one.
func demoteExtraAgent(cfg lib.ProcessConfig, agentID *string) lib.ProcessConfig {
	if cfg.Role != lib.RoleTunnelAgent {
		return cfg
	}
	if *agentID == "" || *agentID == cfg.ID {
		*agentID = cfg.ID
		return cfg
	}
	logger.Printf("Config %s is not the tunnel agent, %s already is", cfg.ID, *agentID)
	cfg.Role = lib.RoleNone
	return cfg
}

func normalizeAgentArgs(args []string) []string {
	if len(args) == 1 && args[0] == "--silent" {
		return nil
	}
	return slices.Clone(args)
}
