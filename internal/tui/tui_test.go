// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ogarcia-dev/Vault/internal/i18n"
)

func TestMainModel_MenuNavigation(t *testing.T) {
	i18n.Init("en")
	s := newRecordsTestStore(t)
	seedRecord(t, s, "BILLING", time.Now().UTC())

	m := initialModel(s, nil)
	if m.state != menuView {
		t.Fatalf("expected menuView initially")
	}

	// Move down and back up.
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m1 := mi.(mainModel)
	if m1.menu.cursor != 1 {
		t.Fatalf("expected cursor 1 after down, got %d", m1.menu.cursor)
	}
	mi, _ = m1.Update(tea.KeyMsg{Type: tea.KeyUp})
	m2 := mi.(mainModel)
	if m2.menu.cursor != 0 {
		t.Fatalf("expected cursor 0 after up, got %d", m2.menu.cursor)
	}

	// Enter opens the records browser.
	mi, _ = m2.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m3 := mi.(mainModel)
	if m3.state != recordsView {
		t.Fatalf("expected recordsView after enter, got %v", m3.state)
	}
	if m3.records == nil {
		t.Fatalf("expected records model to be constructed")
	}

	// A back message returns to the menu.
	mi, _ = m3.Update(backToMenuMsg{})
	m4 := mi.(mainModel)
	if m4.state != menuView {
		t.Fatalf("expected menuView after back message, got %v", m4.state)
	}
}

func TestMainModel_DashboardCounts(t *testing.T) {
	i18n.Init("en")
	s := newRecordsTestStore(t)
	now := time.Now().UTC()
	seedRecord(t, s, "BILLING", now)
	seedRecord(t, s, "BILLING", now.Add(-25*time.Hour))
	seedRecord(t, s, "CRM", now)

	msg := refreshDashboardCmd(s)()
	data, ok := msg.(dashboardDataMsg)
	if !ok {
		t.Fatalf("expected dashboardDataMsg, got %T", msg)
	}
	if data.data.err != nil {
		t.Fatalf("unexpected error: %v", data.data.err)
	}
	if data.data.keyPairCount != 3 {
		t.Fatalf("expected 3 key pairs, got %d", data.data.keyPairCount)
	}
	if data.data.activeCount != 2 {
		t.Fatalf("expected 2 active key pairs, got %d", data.data.activeCount)
	}
	if data.data.systemCount != 2 {
		t.Fatalf("expected 2 systems, got %d", data.data.systemCount)
	}
	if len(data.data.recentLogs) == 0 {
		t.Fatalf("expected recent audit entries from the appends")
	}
}

func TestMainModel_LanguageViewOpensWithL(t *testing.T) {
	i18n.Init("en")
	s := newRecordsTestStore(t)

	m := initialModel(s, nil)
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}})
	m1 := mi.(mainModel)
	if m1.state != languageView {
		t.Fatalf("expected languageView after L, got %v", m1.state)
	}
	if len(m1.language.orderedKeys) < 2 {
		t.Fatalf("expected at least two locales, got %v", m1.language.orderedKeys)
	}
}

func TestMainModel_LanguageSelection(t *testing.T) {
	i18n.Init("en")
	t.Cleanup(func() { i18n.SetLang("en") })

	s := newRecordsTestStore(t)
	var saved string
	m := initialModel(s, func(code string) error {
		saved = code
		return nil
	})

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}})
	m1 := mi.(mainModel)

	// Move to the second locale and select it.
	mi, _ = m1.Update(tea.KeyMsg{Type: tea.KeyDown})
	m2 := mi.(mainModel)
	want := m2.language.orderedKeys[m2.language.cursor]
	mi, cmd := m2.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected a language changed command")
	}
	if _, ok := cmd().(languageChangedMsg); !ok {
		t.Fatalf("expected languageChangedMsg")
	}
	if saved != want {
		t.Fatalf("expected %q persisted, got %q", want, saved)
	}
	if got := i18n.GetLang(); got != want {
		t.Fatalf("expected active language %q, got %q", want, got)
	}

	// The change message rebuilds the whole model in the new language.
	m3 := mi.(mainModel)
	mi, _ = m3.Update(languageChangedMsg{})
	m4 := mi.(mainModel)
	if m4.state != menuView {
		t.Fatalf("expected menuView after language change, got %v", m4.state)
	}
}
