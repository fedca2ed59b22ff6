package core

import "testing"

func TestDatasetCache(t *testing.T) {
	c, err := newDatasetCache(2)
	if err != nil {
		t.Fatalf("newDatasetCache() error = %v", err)
	}

	a, b, d := datasetOf("A"), datasetOf("B"), datasetOf("D")
	c.add(datasetKey("csv", []byte("a")), a)
	c.add(datasetKey("csv", []byte("b")), b)
	c.add(datasetKey("csv", []byte("d")), d)

	if _, ok := c.get(datasetKey("csv", []byte("a"))); ok {
		t.Error("oldest entry survived eviction")
	}
	if got, ok := c.get(datasetKey("csv", []byte("d"))); !ok || got != d {
		t.Error("newest entry missing")
	}
	if c.len() != 2 {
		t.Errorf("len() = %d, want 2", c.len())
	}
}

func TestDatasetCache_Disabled(t *testing.T) {
	c, err := newDatasetCache(0)
	if err != nil || c != nil {
		t.Fatalf("newDatasetCache(0) = %v, %v, want nil, nil", c, err)
	}
	c.add("k", datasetOf("A"))
	if _, ok := c.get("k"); ok {
		t.Error("disabled cache returned an entry")
	}
}

func TestDatasetKey_FormatMatters(t *testing.T) {
	data := []byte("Diagnosis\n8A68\n")
	if datasetKey("csv", data) == datasetKey("text", data) {
		t.Error("same bytes under different formats share a key")
	}
}
