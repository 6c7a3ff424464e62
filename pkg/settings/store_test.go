package settings

import (
	"path/filepath"
	"testing"
)

func strptr(s string) *string { return &s }

func testDefaults() GatewaySettings {
	return GatewaySettings{
		URL:          "http://127.0.0.1:19001",
		ChatPath:     "/v1/chat/completions",
		ChatMode:     "openclaw",
		DefaultModel: "openclaw:main",
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "settings.db"), testDefaults())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetReturnsDefaultsWhenEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != testDefaults() {
		t.Errorf("Get = %+v, want defaults", got)
	}
}

func TestSaveOverridesDefaults(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(Patch{
		URL:   strptr("http://10.0.0.5:19001"),
		Token: strptr("secret-token"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.URL != "http://10.0.0.5:19001" {
		t.Errorf("URL = %q, want stored override", got.URL)
	}
	if got.Token != "secret-token" {
		t.Errorf("Token = %q, want stored override", got.Token)
	}
	if got.ChatPath != "/v1/chat/completions" {
		t.Errorf("ChatPath = %q, want untouched default", got.ChatPath)
	}
}

func TestSaveEmptyValueFallsBackToDefault(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(Patch{ChatMode: strptr("disabled")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(Patch{ChatMode: strptr("")}); err != nil {
		t.Fatalf("Save clear: %v", err)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ChatMode != "openclaw" {
		t.Errorf("ChatMode = %q, want default after clearing override", got.ChatMode)
	}
}

func TestSaveUpsertsRepeatedly(t *testing.T) {
	store := newTestStore(t)

	for _, model := range []string{"openclaw:main", "openclaw:alt", "openclaw:final"} {
		if err := store.Save(Patch{DefaultModel: strptr(model)}); err != nil {
			t.Fatalf("Save %s: %v", model, err)
		}
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DefaultModel != "openclaw:final" {
		t.Errorf("DefaultModel = %q, want last saved value", got.DefaultModel)
	}
}

func TestMaskedHidesToken(t *testing.T) {
	s := GatewaySettings{Token: "sk-very-secret"}
	if masked := s.Masked(); masked.Token == "sk-very-secret" || masked.Token == "" {
		t.Errorf("Masked token = %q, want placeholder", masked.Token)
	}
	if empty := (GatewaySettings{}).Masked(); empty.Token != "" {
		t.Errorf("Masked empty token = %q, want empty", empty.Token)
	}
}

func TestChatEnabled(t *testing.T) {
	if (GatewaySettings{ChatMode: "disabled"}).ChatEnabled() {
		t.Error("disabled mode should report chat off")
	}
	if !(GatewaySettings{ChatMode: "openclaw"}).ChatEnabled() {
		t.Error("openclaw mode should report chat on")
	}
}
