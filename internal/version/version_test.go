package version

import (
	"strings"
	"testing"
)

func TestString_Dirty(t *testing.T) {
	oldVersion, oldDirty := Version, Dirty
	defer func() { Version, Dirty = oldVersion, oldDirty }()

	Version, Dirty = "1.2.0", "false"
	if got := String(); got != "1.2.0" {
		t.Errorf("String() = %q", got)
	}

	Dirty = "true"
	if got := String(); got != "1.2.0-dirty" {
		t.Errorf("String() = %q", got)
	}
	if !Get().Dirty {
		t.Error("Get().Dirty should be true")
	}
}

func TestFull(t *testing.T) {
	got := Full()
	if !strings.HasPrefix(got, "sitesplice ") {
		t.Errorf("Full() should start with the program name: %q", got)
	}
	if !strings.Contains(got, "Go version:") {
		t.Errorf("Full() missing Go version: %q", got)
	}
}
