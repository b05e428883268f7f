package driver

import (
	"testing"
)

func filterTrue(d Driver) bool {
	return true
}
func filterFalse(d Driver) bool {
	return false
}

func TestFilterNot(t *testing.T) {
	if FilterNot(filterTrue)(nil) != false {
		t.Error("FilterNot(filterTrue)() must be false")
	}
	if FilterNot(filterFalse)(nil) != true {
		t.Error("FilterNot(filterFalse)() must be true")
	}
}

func TestFilterAnd(t *testing.T) {
	if FilterAnd(filterTrue, filterTrue)(nil) != true {
		t.Error("FilterAnd(filterTrue, filterTrue)() must be true")
	}
	if FilterAnd(filterTrue, filterFalse)(nil) != false {
		t.Error("FilterAnd(filterTrue, filterFalse)() must be false")
	}
	if FilterAnd(filterFalse, filterTrue)(nil) != false {
		t.Error("FilterAnd(filterFalse, filterTrue)() must be false")
	}
	if FilterAnd(filterFalse, filterFalse)(nil) != false {
		t.Error("FilterAnd(filterFalse, filterFalse)() must be false")
	}
	if FilterAnd(filterFalse, filterTrue, filterTrue)(nil) != false {
		t.Error("FilterAnd(filterFalse, filterTrue, filterTrue)() must be false")
	}
	if FilterAnd(filterTrue, filterTrue, filterTrue)(nil) != true {
		t.Error("FilterAnd(filterTrue, filterTrue, filterTrue)() must be true")
	}
}

func TestManagerQuery(t *testing.T) {
	m := NewManager()
	first := m.Register(&cameraAdapterMock{}, Info{Label: "port0:node0", DeviceType: TypeCamera})
	second := m.Register(&cameraAdapterMock{}, Info{Label: "port0:node1", DeviceType: TypeCamera})

	all := m.Query(FilterDeviceType(TypeCamera))
	if len(all) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(all))
	}
	if all[0].ID() != first || all[1].ID() != second {
		t.Error("expected drivers in registration order")
	}

	byLabel := m.Query(FilterLabel("port0:node1"))
	if len(byLabel) != 1 || byLabel[0].ID() != second {
		t.Errorf("expected to find %s by label, got %v", second, byLabel)
	}

	if got := m.Query(FilterAnd(FilterID(first), FilterLabel("port0:node1"))); len(got) != 0 {
		t.Errorf("expected no match, got %d", len(got))
	}

	if !m.Unregister(first) {
		t.Fatal("expected to unregister the first driver")
	}
	if m.Unregister(first) {
		t.Error("unregistering twice must report false")
	}
	if got := m.Query(filterTrue); len(got) != 1 {
		t.Errorf("expected 1 driver left, got %d", len(got))
	}
}
