package visa

import (
	"context"
	"testing"
)

func TestManagerListResourcesStatic(t *testing.T) {
	m := NewManager(ManagerConfig{
		Resources: []string{
			"TCPIP0::10.0.0.9::5025::SOCKET",
			"TCPIP0::10.0.0.10::5025::SOCKET",
			"TCPIP0::10.0.0.9::5025::SOCKET", // duplicate
		},
		DisableDiscovery: true,
	})

	got, err := m.ListResources(context.Background())
	if err != nil {
		t.Fatalf("ListResources failed: %v", err)
	}

	want := []string{
		"TCPIP0::10.0.0.9::5025::SOCKET",
		"TCPIP0::10.0.0.10::5025::SOCKET",
	}
	if len(got) != len(want) {
		t.Fatalf("ListResources = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListResources[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestManagerListResourcesEmpty(t *testing.T) {
	m := NewManager(ManagerConfig{DisableDiscovery: true})

	got, err := m.ListResources(context.Background())
	if err != nil {
		t.Fatalf("ListResources failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListResources = %v, want empty", got)
	}
}
