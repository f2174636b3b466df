package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, home string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--home", home, "--user", "tester"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("cuplog %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestCafeTastingFromTheCommandLine(t *testing.T) {
	home := t.TempDir()

	out := execute(t, home, "session", "start", "cafe")
	if !strings.Contains(out, "mode-selection > coffee-info > flavor-selection") {
		t.Fatalf("unexpected start output: %s", out)
	}

	execute(t, home, "step", "coffee", "--name", "Ethiopia Guji", "--cafe", "Onyx")
	if out := execute(t, home, "session", "next", "coffee-info"); !strings.HasPrefix(out, "flavor-selection (resolved)") {
		t.Fatalf("unexpected next output: %s", out)
	}
	execute(t, home, "step", "flavors", "peach=Peach", "jasmine=Jasmine")
	execute(t, home, "step", "roaster-notes", "--text", "peach, jasmine, honey")

	out = execute(t, home, "session", "save")
	if !strings.Contains(out, "score=") || !strings.Contains(out, "bonus=10") {
		t.Fatalf("unexpected save output: %s", out)
	}

	out = execute(t, home, "records", "list")
	if !strings.Contains(out, "Ethiopia Guji") {
		t.Fatalf("record missing from list: %s", out)
	}

	out = execute(t, home, "flavors", "top", "--limit", "5")
	if !strings.Contains(out, "peach") || !strings.Contains(out, "jasmine") {
		t.Fatalf("flavor index missing entries: %s", out)
	}

	out = execute(t, home, "stats", "--coffee", "Ethiopia Guji")
	if !strings.Contains(out, "records=1") {
		t.Fatalf("unexpected stats: %s", out)
	}
}

func TestNextRejectsIncompleteStep(t *testing.T) {
	home := t.TempDir()
	execute(t, home, "session", "start", "homecafe")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--home", home, "session", "next", "coffee-info"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "coffeeInfo") {
		t.Fatalf("expected missing coffeeInfo, got %v", err)
	}
}
