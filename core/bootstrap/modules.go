package bootstrap

import "github.com/botwright/teleflow/flow"

// Module contributes states and transitions to a chart under assembly.
// Bots compose their conversation out of modules so each concern (greeting,
// onboarding, settings) declares its own slice of the chart.
type Module interface {
	Register(r *flow.Registry) error
}

// ModuleFunc adapts a bare function to the Module interface.
type ModuleFunc func(r *flow.Registry) error

// Register executes the underlying function.
func (f ModuleFunc) Register(r *flow.Registry) error {
	return f(r)
}

// Mount applies each module to the registry and compiles the result.
// Nil modules are skipped.
func Mount(r *flow.Registry, mods ...Module) (*flow.Chart, error) {
	if r == nil {
		r = flow.NewRegistry()
	}
	for _, m := range mods {
		if m == nil {
			continue
		}
		if err := m.Register(r); err != nil {
			return nil, err
		}
	}
	return r.Compile()
}
