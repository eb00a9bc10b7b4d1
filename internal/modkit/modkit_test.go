package modkit

import "testing"

type fakePorts struct{ N int }

func TestWithName(t *testing.T) {
	t.Parallel()
	var c buildCfg
	WithName("archive")(&c)
	if c.name != "archive" {
		t.Fatalf("expected name=archive got=%q", c.name)
	}
}

func TestBuild_LaterOptionsWin(t *testing.T) {
	t.Parallel()
	b := Build(
		WithName("first"),
		WithPorts(fakePorts{N: 1}),
		nil,
		WithName("second"),
		WithPorts(fakePorts{N: 2}),
	)
	if b.Name != "second" {
		t.Fatalf("expected name=second got=%q", b.Name)
	}
	p, ok := b.Ports.(fakePorts)
	if !ok || p.N != 2 {
		t.Fatalf("expected fakePorts{2} got %#v", b.Ports)
	}
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()
	b := Build()
	if b.Name != "" || b.Ports != nil {
		t.Fatalf("expected zero Built got %#v", b)
	}
}

// stub satisfies Module
type stub struct{}

func (stub) Ports() any   { return nil }
func (stub) Name() string { return "stub" }

var _ Module = stub{}

func TestBuilder_Signature(t *testing.T) {
	t.Parallel()
	var b Builder = func(Deps, ...Option) (Module, error) { return stub{}, nil }
	m, err := b(Deps{})
	if err != nil || m.Name() != "stub" {
		t.Fatalf("unexpected builder result %v %v", m, err)
	}
}
