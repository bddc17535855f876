package policy

import "testing"

func TestGateEnforced(t *testing.T) {
	gate := NewGate([]int64{42}, true)
	if !gate.Allow(42) {
		t.Fatalf("Allow(42) = false, want true")
	}
	if gate.Allow(7) {
		t.Fatalf("Allow(7) = true, want false")
	}
}

func TestGateEnforcementOff(t *testing.T) {
	gate := NewGate(nil, false)
	if !gate.Allow(7) {
		t.Fatalf("Allow(7) = false with enforcement off, want true")
	}
}

func TestGateEmptyAllowList(t *testing.T) {
	gate := NewGate(nil, true)
	if gate.Allow(42) {
		t.Fatalf("Allow(42) = true with empty allow-list, want false")
	}
}
