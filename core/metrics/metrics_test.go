package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryServesPipelineCollectors(t *testing.T) {
	reg, m := NewRegistry()

	m.RecordUpdate("text")
	m.DispatchHandled("ok", 1, 20*time.Millisecond)
	m.TransitionFired("start", "hello", "await_photo")
	m.RecordSend("ok")
	m.RecordRateLimited()

	families, err := reg.Gather()
	require.NoError(t, err)

	found := make(map[string]bool)
	for _, mf := range families {
		found[mf.GetName()] = true
	}

	expected := []string{
		"teleflow_updates_received_total",
		"teleflow_dispatch_handled_total",
		"teleflow_dispatch_transitions_total",
		"teleflow_dispatch_duration_seconds",
		"teleflow_dispatch_chain_hops",
		"teleflow_sender_messages_total",
		"teleflow_updates_rate_limited_total",
	}
	for _, name := range expected {
		assert.True(t, found[name], "collector %s should be registered", name)
	}
}

func TestRegistryIncludesRuntimeCollectors(t *testing.T) {
	reg, _ := NewRegistry()

	families, err := reg.Gather()
	require.NoError(t, err)

	foundGo := false
	for _, mf := range families {
		if mf.GetName() == "go_goroutines" {
			foundGo = true
			break
		}
	}
	assert.True(t, foundGo, "go runtime collectors should be registered")
}
