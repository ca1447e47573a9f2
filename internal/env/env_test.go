package env

import "testing"

func TestLookup(t *testing.T) {
	t.Setenv("CRIBDRAG_TEST_KEY", "  value ")

	got, ok := Lookup("CRIBDRAG_TEST_KEY")
	if !ok {
		t.Fatalf("expected lookup to succeed")
	}
	if got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestLookupBlankIsUnset(t *testing.T) {
	t.Setenv("CRIBDRAG_TEST_BLANK", "   ")
	if _, ok := Lookup("CRIBDRAG_TEST_BLANK"); ok {
		t.Fatalf("expected blank value to be treated as unset")
	}
}

func TestLookupLegacyWarnsOnce(t *testing.T) {
	ResetWarningsForTesting()
	var warnings []string
	restore := SetWarnLoggerForTesting(func(oldKey, newKey string) {
		warnings = append(warnings, oldKey+"->"+newKey)
	})
	defer restore()

	t.Setenv("CRIBD_TEST_LEGACY", "old")

	for i := 0; i < 3; i++ {
		got, ok := Lookup("CRIBDRAG_TEST_NEW", "CRIBD_TEST_LEGACY")
		if !ok || got != "old" {
			t.Fatalf("expected legacy value, got %q (%v)", got, ok)
		}
	}
	if len(warnings) != 1 || warnings[0] != "CRIBD_TEST_LEGACY->CRIBDRAG_TEST_NEW" {
		t.Fatalf("expected a single deprecation warning, got %v", warnings)
	}
}

func TestLookupPrefersCurrentKey(t *testing.T) {
	ResetWarningsForTesting()
	called := false
	restore := SetWarnLoggerForTesting(func(string, string) { called = true })
	defer restore()

	t.Setenv("CRIBDRAG_TEST_NEW2", "new")
	t.Setenv("CRIBD_TEST_LEGACY2", "old")

	got, ok := Lookup("CRIBDRAG_TEST_NEW2", "CRIBD_TEST_LEGACY2")
	if !ok || got != "new" {
		t.Fatalf("expected current key to win, got %q", got)
	}
	if called {
		t.Fatalf("expected no warning when current key is set")
	}
}
