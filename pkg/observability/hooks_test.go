package observability

import (
	"testing"
	"time"
)

type capturingResolverHooks struct {
	starts    int
	templates []string
	completes int
}

func (c *capturingResolverHooks) OnResolveStart(int) { c.starts++ }
func (c *capturingResolverHooks) OnTemplateRegistered(kind, name string) {
	c.templates = append(c.templates, kind+":"+name)
}
func (c *capturingResolverHooks) OnResolveComplete(int, time.Duration, error) { c.completes++ }

func TestResolverHooksRegistration(t *testing.T) {
	defer Reset()

	hooks := &capturingResolverHooks{}
	SetResolverHooks(hooks)

	Resolver().OnResolveStart(3)
	Resolver().OnTemplateRegistered("pane", "left")
	Resolver().OnResolveComplete(1, time.Millisecond, nil)

	if hooks.starts != 1 || hooks.completes != 1 {
		t.Errorf("starts=%d completes=%d, want 1/1", hooks.starts, hooks.completes)
	}
	if len(hooks.templates) != 1 || hooks.templates[0] != "pane:left" {
		t.Errorf("templates = %v", hooks.templates)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	defer Reset()

	hooks := &capturingResolverHooks{}
	SetResolverHooks(hooks)
	SetResolverHooks(nil)

	Resolver().OnResolveStart(1)
	if hooks.starts != 1 {
		t.Errorf("nil registration replaced hooks: starts=%d", hooks.starts)
	}
}

func TestResetRestoresNoop(t *testing.T) {
	hooks := &capturingResolverHooks{}
	SetResolverHooks(hooks)
	Reset()

	Resolver().OnResolveStart(1)
	if hooks.starts != 0 {
		t.Errorf("Reset did not restore no-op hooks: starts=%d", hooks.starts)
	}

	if _, ok := Resolver().(NoopResolverHooks); !ok {
		t.Errorf("Resolver() after Reset = %T, want NoopResolverHooks", Resolver())
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Errorf("Render() after Reset = %T, want NoopRenderHooks", Render())
	}
	if _, ok := Serve().(NoopServeHooks); !ok {
		t.Errorf("Serve() after Reset = %T, want NoopServeHooks", Serve())
	}
}
