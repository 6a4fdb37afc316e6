// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ogarcia-dev/Vault/internal/db"
	"github.com/ogarcia-dev/Vault/internal/i18n"
	"github.com/ogarcia-dev/Vault/internal/issuer"
	"github.com/ogarcia-dev/Vault/internal/model"
)

// recordsModel is the key pair records browser.
type recordsModel struct {
	table       table.Model
	allRecords  []model.KeyPairRecord // Master list of all records
	visible     []model.KeyPairRecord // Records behind the current table rows
	filter      string
	filterCol   int // 0=all, 1=system, 2=state
	isFiltering bool
	statusMsg   string
	err         error
}

// recordState reports whether a record would still be served at now.
func recordState(rec model.KeyPairRecord, now time.Time) string {
	if rec.Age(now) <= issuer.KeyValidity {
		return i18n.T("records.state.active")
	}
	return i18n.T("records.state.expired")
}

func newRecordsModel(st db.Store) recordsModel {
	m := recordsModel{}
	records, err := st.ListKeyPairs()
	if err != nil {
		m.err = err
		return m
	}
	m.allRecords = records

	columns := []table.Column{
		{Title: i18n.T("records.header.id"), Width: 6},
		{Title: i18n.T("records.header.system"), Width: 12},
		{Title: i18n.T("records.header.created"), Width: 20},
		{Title: i18n.T("records.header.state"), Width: 10},
		{Title: i18n.T("records.header.public_key"), Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15), // Placeholder height
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	m.rebuildTableRows()
	return m
}

// rebuildTableRows filters the master list of records and populates the table.
func (m *recordsModel) rebuildTableRows() {
	var rows []table.Row
	m.visible = m.visible[:0]
	lowerFilter := strings.ToLower(m.filter)
	now := time.Now().UTC()

	for _, rec := range m.allRecords {
		state := recordState(rec, now)

		match := false
		switch m.filterCol {
		case 0: // all
			match = strings.Contains(strings.ToLower(rec.SystemCode), lowerFilter) ||
				strings.Contains(strings.ToLower(state), lowerFilter)
		case 1:
			match = strings.Contains(strings.ToLower(rec.SystemCode), lowerFilter)
		case 2:
			match = strings.Contains(strings.ToLower(state), lowerFilter)
		}
		if m.filter != "" && !match {
			continue
		}

		stateCell := specialStyle.Render(state)
		if rec.Age(now) <= issuer.KeyValidity {
			stateCell = successStyle.Render(state)
		}

		// Only the head of the key fits; Enter copies the whole thing.
		pub := rec.PublicKey
		if len(pub) > 37 {
			pub = pub[:37] + "..."
		}

		m.visible = append(m.visible, rec)
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", rec.ID),
			rec.SystemCode,
			rec.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			stateCell,
			pub,
		})
	}
	m.table.SetRows(rows)

	// Go to the top of the table after filtering
	if m.isFiltering {
		m.table.GotoTop()
	}
}

func (m recordsModel) Init() tea.Cmd {
	return nil
}

func (m recordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// header(3) + filter/help(3)
		m.table.SetHeight(msg.Height - 6)
		m.table.SetWidth(msg.Width - 4)

	case tea.KeyMsg:
		m.statusMsg = ""

		// If filtering, handle input.
		if m.isFiltering {
			switch msg.Type {
			case tea.KeyEsc:
				m.isFiltering = false
				m.filter = ""
				m.rebuildTableRows()
			case tea.KeyEnter:
				m.isFiltering = false
			case tea.KeyBackspace:
				if len(m.filter) > 0 {
					m.filter = m.filter[:len(m.filter)-1]
					m.rebuildTableRows()
				}
			case tea.KeyRunes:
				m.filter += string(msg.Runes)
				m.rebuildTableRows()
			case tea.KeyTab:
				m.filterCol = (m.filterCol + 1) % 3
				m.rebuildTableRows()
			case tea.KeyShiftTab:
				m.filterCol = (m.filterCol + 2) % 3
				m.rebuildTableRows()
			}
			return m, nil
		}

		// Not filtering, handle commands.
		switch msg.String() {
		case "/":
			m.isFiltering = true
			m.filter = ""
			m.rebuildTableRows()
			return m, nil
		case "enter":
			if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.visible) {
				rec := m.visible[cursor]
				if err := clipboard.WriteAll(rec.PublicKey); err != nil {
					m.statusMsg = errorStyle.Render(fmt.Sprintf(i18n.T("records.copy_failed"), err))
				} else {
					m.statusMsg = statusMessageStyle.Render(fmt.Sprintf(i18n.T("records.copied"), rec.String()))
				}
			}
			return m, nil
		case "q", "esc":
			if m.filter != "" {
				m.filter = ""
				m.isFiltering = false
				m.rebuildTableRows()
				return m, nil
			}
			return m, func() tea.Msg { return backToMenuMsg{} }
		}
	}

	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m recordsModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error loading key pairs: %v", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🔑 "+i18n.T("records.title")) + "\n\n")

	if len(m.table.Rows()) == 0 {
		b.WriteString(helpStyle.Render(i18n.T("records.empty")))
		b.WriteString(m.footerView())
		return b.String()
	}

	b.WriteString(m.table.View())
	b.WriteString(m.footerView())
	return b.String()
}

func (m recordsModel) footerView() string {
	var filterStatus string
	colNames := []string{
		i18n.T("all"),
		i18n.T("records.header.system"),
		i18n.T("records.header.state"),
	}
	if m.isFiltering {
		filterStatus = fmt.Sprintf("Filter [%s]: %s█ (tab to change column)", colNames[m.filterCol], m.filter)
	} else if m.filter != "" {
		filterStatus = fmt.Sprintf("Filter [%s]: %s (press 'esc' to clear)", colNames[m.filterCol], m.filter)
	} else {
		filterStatus = "Press / to filter..."
	}
	footer := fmt.Sprintf("\n(↑/↓ to scroll, enter: copy public key, q to quit) %s", filterStatus)
	if m.statusMsg != "" {
		return m.statusMsg + helpStyle.Render(footer)
	}
	return helpStyle.Render(footer)
}
