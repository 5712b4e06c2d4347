package catalog

import (
	"path/filepath"
	"testing"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(
		filepath.Join("testdata", "category_mapping.json"),
		filepath.Join("testdata", "train_classes.txt"),
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

func TestMapToBigKnown(t *testing.T) {
	c := loadTestCatalog(t)

	cases := map[string]string{
		"plastic_bottle": "recyclable",
		"banana_peel":    "organic",
		"battery":        "hazardous",
		"ceramic_shard":  "residual",
	}
	for small, want := range cases {
		if got := c.MapToBig(small); got != want {
			t.Errorf("MapToBig(%q) = %q, want %q", small, got, want)
		}
	}
}

func TestMapToBigUnknownReturnsSentinel(t *testing.T) {
	c := loadTestCatalog(t)

	for _, small := range []string{"flux_capacitor", "", "PLASTIC_BOTTLE"} {
		if got := c.MapToBig(small); got != UnknownBig {
			t.Errorf("MapToBig(%q) = %q, want sentinel %q", small, got, UnknownBig)
		}
	}
}

func TestSmallName(t *testing.T) {
	c := loadTestCatalog(t)

	if got := c.SmallName(0); got != "plastic_bottle" {
		t.Errorf("SmallName(0) = %q, want plastic_bottle", got)
	}
	if got := c.SmallName(3); got != "banana_peel" {
		t.Errorf("SmallName(3) = %q, want banana_peel", got)
	}
}

func TestSmallNameOutOfRangeReturnsSentinel(t *testing.T) {
	c := loadTestCatalog(t)

	for _, id := range []int{-1, c.ClassCount(), 9999} {
		if got := c.SmallName(id); got != UnknownSmall {
			t.Errorf("SmallName(%d) = %q, want sentinel %q", id, got, UnknownSmall)
		}
	}
}

func TestIsBigCategory(t *testing.T) {
	c := loadTestCatalog(t)

	for _, name := range []string{"recyclable", "organic", "hazardous", "residual"} {
		if !c.IsBigCategory(name) {
			t.Errorf("IsBigCategory(%q) = false, want true", name)
		}
	}
	if c.IsBigCategory(UnknownBig) {
		t.Errorf("IsBigCategory(%q) = true, want false", UnknownBig)
	}
}

func TestEveryMappedSmallResolvesToListedBig(t *testing.T) {
	c := loadTestCatalog(t)

	for id := 0; id < c.ClassCount(); id++ {
		small := c.SmallName(id)
		big := c.MapToBig(small)
		if big != UnknownBig && !c.IsBigCategory(big) {
			t.Errorf("class %d (%s) maps to %q which is not a listed big category", id, small, big)
		}
	}
}

func TestLoadMissingFiles(t *testing.T) {
	if _, err := Load("testdata/nope.json", "testdata/train_classes.txt"); err == nil {
		t.Error("expected error for missing mapping file")
	}
	if _, err := Load("testdata/category_mapping.json", "testdata/nope.txt"); err == nil {
		t.Error("expected error for missing class names file")
	}
}
