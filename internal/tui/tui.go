// Copyright (c) 2026 Vault Team
// Vault - key pair issuance service
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Vault.
// This file, tui.go, is the main entry point for the TUI, containing the
// top-level model that acts as a router to all other sub-views.
package tui // import "github.com/ogarcia-dev/Vault/internal/tui"

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ogarcia-dev/Vault/internal/db"
	"github.com/ogarcia-dev/Vault/internal/i18n"
	"github.com/ogarcia-dev/Vault/internal/issuer"
	"github.com/ogarcia-dev/Vault/internal/logging"
	"github.com/ogarcia-dev/Vault/internal/model"
	"github.com/ogarcia-dev/Vault/util/slicest"
)

// viewState represents which part of the UI is currently active.
type viewState int

const (
	// menuView is the main dashboard and navigation menu.
	menuView viewState = iota
	recordsView
	auditLogView
	languageView
)

// backToMenuMsg signals a sub-view wants to return to the main menu.
type backToMenuMsg struct{}

// dashboardDataMsg is a message containing the data for the main menu dashboard.
type dashboardDataMsg struct {
	data dashboardData
}

// languageChangedMsg is a message to signal that the language has changed and the UI should be re-initialized.
type languageChangedMsg struct{}

// dashboardData holds the summary information for the main menu view.
type dashboardData struct {
	keyPairCount int
	activeCount  int
	systemCount  int
	recentLogs   []model.AuditLogEntry
	err          error
}

// mainModel is the top-level model for the TUI. It acts as a state machine
// and router, delegating updates and view rendering to the currently active sub-model.
type mainModel struct {
	store    db.Store
	saveLang func(string) error

	state     viewState
	menu      menuModel
	records   *recordsModel
	auditLog  *auditLogModel
	language  languageModel
	dashboard dashboardData
	width     int
	height    int
	err       error
}

// menuModel holds the state for the main menu.
type menuModel struct {
	choices []string // The menu items to show.
	cursor  int      // Which menu item our cursor is pointing at.
}

// languageModel holds the state for the language selection menu.
type languageModel struct {
	choices     map[string]string // map of lang code to display name
	orderedKeys []string          // for stable iteration
	cursor      int
}

// initialModel creates the starting state of the TUI, beginning at the main menu.
func initialModel(st db.Store, saveLang func(string) error) mainModel {
	return mainModel{
		store:    st,
		saveLang: saveLang,
		state:    menuView,
		menu: menuModel{
			choices: []string{
				i18n.T("menu.browse_key_pairs"),
				i18n.T("menu.view_audit_log"),
				i18n.T("menu.language"),
			},
		},
	}
}

// Init is the first function that will be called by the Bubble Tea runtime.
// It kicks off the initial command to load data for the dashboard.
func (m mainModel) Init() tea.Cmd {
	return refreshDashboardCmd(m.store)
}

// Update is the main message loop. It handles all events (like key presses and
// window size changes) and delegates them to the active sub-model.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings that work everywhere.
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case dashboardDataMsg:
		m.dashboard = msg.data
		if msg.data.err != nil {
			m.err = msg.data.err
		}
		return m, nil

	case languageChangedMsg:
		// The language has changed. Re-initialize the entire model to apply new translations everywhere.
		newModel := initialModel(m.store, m.saveLang)
		// Preserve the current window dimensions so the layout remains correct.
		newModel.width = m.width
		newModel.height = m.height
		return newModel, newModel.Init()
	}

	// Delegate updates to the currently active view.
	switch m.state {
	case recordsView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd(m.store)
		}
		var newRecordsModel tea.Model
		newRecordsModel, cmd = m.records.Update(msg)
		if newModel, ok := newRecordsModel.(recordsModel); ok {
			m.records = &newModel
		}

	case auditLogView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd(m.store)
		}
		var newAuditLogModel tea.Model
		newAuditLogModel, cmd = m.auditLog.Update(msg)
		if newModel, ok := newAuditLogModel.(auditLogModel); ok {
			m.auditLog = &newModel
		}

	case languageView:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "esc":
				m.state = menuView
				return m, refreshDashboardCmd(m.store)
			case "up", "k":
				if m.language.cursor > 0 {
					m.language.cursor--
				}
			case "down", "j":
				if m.language.cursor < len(m.language.orderedKeys)-1 {
					m.language.cursor++
				}
			case "enter":
				langCode := m.language.orderedKeys[m.language.cursor]
				i18n.SetLang(langCode)
				if m.saveLang != nil {
					if err := m.saveLang(langCode); err != nil {
						m.err = fmt.Errorf("failed to save config: %w", err)
					}
				}

				// Signal that the language has changed so the entire UI can be re-initialized.
				return m, func() tea.Msg { return languageChangedMsg{} }
			}
		}

	default: // menuView
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.menu.cursor > 0 {
					m.menu.cursor--
				}
			case "down", "j":
				if m.menu.cursor < len(m.menu.choices)-1 {
					m.menu.cursor++
				}
			case "enter":
				switch m.menu.cursor {
				case 0: // Browse key pairs
					m.state = recordsView
					newModel := newRecordsModel(m.store)
					m.records = &newModel
					// Manually update the new sub-model with the current window size
					// to ensure the viewport is initialized correctly.
					var updatedModel tea.Model
					updatedModel, cmd = m.records.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					if newRecords, ok := updatedModel.(recordsModel); ok {
						m.records = &newRecords
					}
					return m, cmd
				case 1: // View audit log
					m.state = auditLogView
					newModel := newAuditLogModel(m.store)
					m.auditLog = &newModel
					var updatedModel tea.Model
					updatedModel, cmd = m.auditLog.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					if newAudit, ok := updatedModel.(auditLogModel); ok {
						m.auditLog = &newAudit
					}
					return m, cmd
				case 2: // Language
					m.state = languageView
					m.language = newLanguageModel()
					return m, nil
				}
			case "L":
				// "L" also opens the language menu
				m.state = languageView
				m.language = newLanguageModel()
				return m, nil
			}
		}
	}

	return m, cmd
}

// View renders the TUI. It's called after every Update and delegates rendering
// to the currently active sub-model.
func (m mainModel) View() string {
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 2)
		return errStyle.Render(fmt.Sprintf("An error occurred: %v", m.err))
	}

	switch m.state {
	case recordsView:
		return m.records.View()
	case auditLogView:
		return m.auditLog.View()
	case languageView:
		return m.language.View()
	default: // menuView
		return m.menu.View(m.dashboard, m.width, m.height)
	}
}

// formatLabelPadding aligns a label/value pair against the widest label.
func formatLabelPadding(label, value string, labelWidth int) string {
	if labelWidth <= 0 || len(label) >= labelWidth {
		return label + " " + value
	}
	return label + strings.Repeat(" ", labelWidth-len(label)) + " " + value
}

// View renders the main menu and dashboard.
func (m menuModel) View(data dashboardData, width, height int) string {
	// Title (i18n)
	title := mainTitleStyle.Render("🔐 " + i18n.T("dashboard.title"))
	subTitle := helpStyle.Render(i18n.T("dashboard.subtitle"))
	header := lipgloss.JoinVertical(lipgloss.Left, title, subTitle)

	paneTitleStyle := lipgloss.NewStyle().Bold(true)

	// Menu List (Left Pane)
	var menuItems []string
	menuItems = append(menuItems, paneTitleStyle.Render(i18n.T("menu.navigation")), "")
	for i, choice := range m.choices {
		if m.cursor == i {
			menuItems = append(menuItems, selectedItemStyle.Render("▸ "+choice))
		} else {
			menuItems = append(menuItems, itemStyle.Render("  "+choice))
		}
	}
	menuContent := lipgloss.JoinVertical(lipgloss.Left, menuItems...)

	// Dashboard (Right Pane)
	var dashboardItems []string
	dashboardItems = append(dashboardItems, paneTitleStyle.Render(i18n.T("dashboard.store_status")), "")

	statusItems := []struct {
		label string
		value string
	}{
		{i18n.T("dashboard.key_pairs"), fmt.Sprintf("%d (%d %s)", data.keyPairCount, data.activeCount, i18n.T("records.state.active"))},
		{i18n.T("dashboard.systems"), fmt.Sprintf("%d", data.systemCount)},
	}
	maxLabelLen := 0
	for _, item := range statusItems {
		if len(item.label) > maxLabelLen {
			maxLabelLen = len(item.label)
		}
	}
	for _, item := range statusItems {
		dashboardItems = append(dashboardItems, formatLabelPadding(item.label, item.value, maxLabelLen))
	}

	// Recent Activity
	dashboardItems = append(dashboardItems, "", "", paneTitleStyle.Render(i18n.T("dashboard.recent_activity")), "")

	// --- Layout ---
	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	headerHeight := lipgloss.Height(header)
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	footerHeight := lipgloss.Height(footerStyle.Render(""))
	paneHeight := height - headerHeight - footerHeight - 2 // -2 for newlines around mainArea

	menuWidth := 38
	dashboardWidth := width - 4 - menuWidth - 2

	if len(data.recentLogs) == 0 {
		dashboardItems = append(dashboardItems, helpStyle.Render(i18n.T("dashboard.no_recent_activity")))
	} else {
		for _, log := range data.recentLogs {
			ts := log.Timestamp
			if len(ts) > 16 {
				ts = ts[5:16] // Format as MM-DD HH:MM
			}

			innerDashboardWidth := dashboardWidth - 4 - 2
			availableWidth := innerDashboardWidth - len(ts) - 1

			styledAction := auditActionStyle(log.Action).Render(log.Action)
			detailsWidth := availableWidth - len(log.Action) - 1
			if detailsWidth < 10 {
				detailsWidth = 10
			}
			details := log.Details
			if len(details) > detailsWidth {
				details = details[:detailsWidth-3] + "..."
			}

			logLine := lipgloss.JoinHorizontal(lipgloss.Left,
				helpStyle.Render(ts), " ", styledAction, " ", helpStyle.Render(details))
			dashboardItems = append(dashboardItems, logLine)
		}
	}
	dashboardContent := lipgloss.JoinVertical(lipgloss.Left, dashboardItems...)

	leftPane := paneStyle.Width(menuWidth).Height(paneHeight).Render(menuContent)
	rightPane := paneStyle.Width(dashboardWidth).Height(paneHeight).MarginLeft(2).Render(dashboardContent)

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	footer := footerStyle.Render(i18n.T("dashboard.footer"))

	return lipgloss.JoinVertical(lipgloss.Top, header, mainArea, footer)
}

// newLanguageModel creates a new model for the language selection view.
func newLanguageModel() languageModel {
	// Get the dynamically discovered locales from the i18n package.
	choices := i18n.GetAvailableLocales()

	// Create a sorted list of keys for stable iteration and display order.
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return languageModel{
		choices:     choices,
		orderedKeys: keys,
		cursor:      0,
	}
}

// Init for languageModel.
func (m languageModel) Init() tea.Cmd { return nil }

// Update for languageModel.
func (m languageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

// View for languageModel.
func (m languageModel) View() string {
	title := mainTitleStyle.Render("🌐 " + i18n.T("menu.language"))

	var listItems []string
	listItems = append(listItems, titleStyle.Render(i18n.T("language.select")), "")

	for i, langCode := range m.orderedKeys {
		displayName := m.choices[langCode]
		if m.cursor == i {
			listItems = append(listItems, selectedItemStyle.Render("▸ "+displayName))
		} else {
			listItems = append(listItems, itemStyle.Render("  "+displayName))
		}
	}

	paneStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2)
	listPane := paneStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, listItems...))

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	helpLine := footerStyle.Render(i18n.T("language.help"))

	return lipgloss.JoinVertical(lipgloss.Left, title, "", listPane, "", helpLine)
}

// Run is the main entrypoint for the TUI. It initializes and runs the Bubble
// Tea program against the provided store. saveLang persists a language choice
// and may be nil.
func Run(st db.Store, saveLang func(string) error) {
	if _, err := tea.NewProgram(initialModel(st, saveLang)).Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		os.Exit(1)
	}
}

// refreshDashboardCmd is a tea.Cmd that fetches summary data for the main menu.
func refreshDashboardCmd(st db.Store) tea.Cmd {
	return func() tea.Msg {
		records, err := st.ListKeyPairs()
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}
		entries, err := st.GetAllAuditLogEntries()
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}

		data := dashboardData{keyPairCount: len(records)}
		now := time.Now().UTC()
		systems := slicest.ToMap(records, func(rec model.KeyPairRecord) (string, struct{}) {
			return rec.SystemCode, struct{}{}
		})
		data.systemCount = len(systems)
		for _, rec := range records {
			if rec.Age(now) <= issuer.KeyValidity {
				data.activeCount++
			}
		}
		if len(entries) > 5 {
			entries = entries[:5]
		}
		data.recentLogs = entries

		return dashboardDataMsg{data: data}
	}
}
