// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ogarcia-dev/Vault/internal/i18n"
)

func TestAuditLog_LoadsEntries(t *testing.T) {
	i18n.Init("en")
	s := newRecordsTestStore(t)
	if err := s.LogAction("APPEND_KEY_PAIR", "system: BILLING, id: 1"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	m := newAuditLogModel(s)
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if len(m.table.Rows()) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(m.table.Rows()))
	}
}

func TestAuditLog_FilterByAction(t *testing.T) {
	i18n.Init("en")
	s := newRecordsTestStore(t)
	if err := s.LogAction("APPEND_KEY_PAIR", "system: BILLING, id: 1"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}
	if err := s.LogAction("IMPORT_BACKUP", "records: 3"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	m := newAuditLogModel(s)
	if len(m.table.Rows()) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.table.Rows()))
	}

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m1 := mi.(auditLogModel)
	if !m1.isFiltering {
		t.Fatalf("expected isFiltering true after '/' key")
	}

	// Cycle to the action column, then match only the import entry.
	mi, _ = m1.Update(tea.KeyMsg{Type: tea.KeyTab})
	m2 := mi.(auditLogModel)
	mi, _ = m2.Update(tea.KeyMsg{Type: tea.KeyTab})
	m3 := mi.(auditLogModel)
	mi, _ = m3.Update(tea.KeyMsg{Type: tea.KeyTab})
	m4 := mi.(auditLogModel)
	if m4.filterCol != 3 {
		t.Fatalf("expected filterCol 3 after three tabs, got %d", m4.filterCol)
	}
	mi, _ = m4.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("import")})
	m5 := mi.(auditLogModel)
	if len(m5.table.Rows()) != 1 {
		t.Fatalf("expected 1 row after filtering, got %d", len(m5.table.Rows()))
	}
}

func TestAuditActionStyle(t *testing.T) {
	if got := auditActionStyle("APPEND_KEY_PAIR"); got.GetForeground() != successStyle.GetForeground() {
		t.Fatalf("expected success color for append actions")
	}
	if got := auditActionStyle("IMPORT_BACKUP"); got.GetForeground() != specialStyle.GetForeground() {
		t.Fatalf("expected special color for import actions")
	}
	if got := auditActionStyle("SOMETHING_ELSE"); got.GetForeground() != helpStyle.GetForeground() {
		t.Fatalf("expected default color for unknown actions")
	}
}
