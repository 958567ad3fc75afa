package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/cvnexus/internal/document"
	"github.com/amishk599/cvnexus/internal/input"
	"github.com/amishk599/cvnexus/internal/model"
	"github.com/amishk599/cvnexus/internal/report"
	"github.com/amishk599/cvnexus/internal/session"
)

// AnalysisRunner is the part of the analyzer the dashboard drives.
type AnalysisRunner interface {
	Analyze(ctx context.Context, creds model.CredentialSource, in model.AnalysisInput) (*model.AnalysisResult, error)
	Busy() bool
}

type focusArea int

const (
	focusCV focusArea = iota
	focusJob
	focusResults
)

type resultTab int

const (
	tabOverview resultTab = iota
	tabSkills
	tabSWOT
	tabImprovements
)

var resultTabNames = []string{"Overview", "Skills", "SWOT", "Improvements"}

// analysisDoneMsg is sent when the async analysis settles.
type analysisDoneMsg struct {
	result *model.AnalysisResult
	err    error
}

type dashboardModel struct {
	session  *session.Session
	composer *input.Composer
	analyzer AnalysisRunner
	provider string

	cvText  textarea.Model
	pdfPath textinput.Model
	jobText textarea.Model
	results viewport.Model

	focus  focusArea
	tab    resultTab
	width  int
	height int
	ready  bool

	analyzeLoading bool
	frame          int
	result         *model.AnalysisResult
	analyzeError   string
	notice         string

	signedOut bool
}

func newDashboardModel(sess *session.Session, composer *input.Composer, analyzer AnalysisRunner, provider string) dashboardModel {
	cv := textarea.New()
	cv.Placeholder = "Paste the CV text here..."
	cv.ShowLineNumbers = false
	cv.CharLimit = 0
	cv.MaxHeight = 0
	cv.SetValue(composer.Text())

	path := textinput.New()
	path.Placeholder = "path/to/resume.pdf or a pasted data: URL"
	path.Prompt = "PDF > "

	job := textarea.New()
	job.Placeholder = "Paste a job description for a targeted analysis (optional)"
	job.ShowLineNumbers = false
	job.CharLimit = 0
	job.MaxHeight = 0
	job.SetValue(composer.JobDescription())

	m := dashboardModel{
		session:  sess,
		composer: composer,
		analyzer: analyzer,
		provider: provider,
		cvText:   cv,
		pdfPath:  path,
		jobText:  job,
		results:  viewport.New(40, 10),
	}
	m.applyFocus()
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case spinnerTickMsg:
		if !m.analyzeLoading {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()

	case analysisDoneMsg:
		m.analyzeLoading = false
		if msg.err != nil {
			// The previous result stays on screen.
			m.analyzeError = model.UserMessage(msg.err)
			return m, nil
		}
		m.analyzeError = ""
		m.result = msg.result
		m.tab = tabOverview
		m.focus = focusResults
		m.applyFocus()
		m.refreshResults()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m.forward(msg)
}

func (m dashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+l":
		if err := m.session.SignOut(); err != nil {
			m.notice = fmt.Sprintf("sign out failed: %v", err)
			return m, nil
		}
		m.signedOut = true
		return m, tea.Quit
	case "ctrl+t":
		if m.composer.Mode() == model.ModeText {
			m.composer.SetMode(model.ModeFile)
		} else {
			m.composer.SetMode(model.ModeText)
		}
		m.notice = ""
		m.focus = focusCV
		m.applyFocus()
		return m, nil
	case "tab":
		m.cycleFocus()
		return m, nil
	case "ctrl+r":
		if !m.canAnalyze() {
			return m, nil
		}
		m.analyzeLoading = true
		m.analyzeError = ""
		return m, tea.Batch(m.analyzeCmd(), tick())
	case "ctrl+e":
		if m.composer.Mode() == model.ModeFile {
			m.importAsText()
		}
		return m, nil
	case "ctrl+x":
		if m.composer.Mode() == model.ModeFile {
			m.composer.ClearDocument()
			m.notice = ""
		}
		return m, nil
	case "enter":
		if m.focus == focusCV && m.composer.Mode() == model.ModeFile {
			m.attachDocument()
			return m, nil
		}
	}

	if m.focus == focusResults {
		switch msg.String() {
		case "left", "h":
			m.tab = (m.tab + resultTab(len(resultTabNames)) - 1) % resultTab(len(resultTabNames))
			m.refreshResults()
			return m, nil
		case "right", "l":
			m.tab = (m.tab + 1) % resultTab(len(resultTabNames))
			m.refreshResults()
			return m, nil
		case "1", "2", "3", "4":
			m.tab = resultTab(msg.String()[0] - '1')
			m.refreshResults()
			return m, nil
		}
	}

	return m.forward(msg)
}

// forward hands msg to the focused component and syncs the composer.
func (m dashboardModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusCV:
		if m.composer.Mode() == model.ModeFile {
			m.pdfPath, cmd = m.pdfPath.Update(msg)
		} else {
			m.cvText, cmd = m.cvText.Update(msg)
			m.composer.SetText(m.cvText.Value())
		}
	case focusJob:
		m.jobText, cmd = m.jobText.Update(msg)
		m.composer.SetJobDescription(m.jobText.Value())
	case focusResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m dashboardModel) canAnalyze() bool {
	return m.composer.CanAnalyze() && !m.analyzeLoading && !m.analyzer.Busy()
}

func (m dashboardModel) analyzeCmd() tea.Cmd {
	analyzer, creds, in := m.analyzer, m.session, m.composer.Input()
	return func() tea.Msg {
		res, err := analyzer.Analyze(context.Background(), creds, in)
		return analysisDoneMsg{result: res, err: err}
	}
}

func (m *dashboardModel) attachDocument() {
	path := strings.TrimSpace(m.pdfPath.Value())
	if path == "" {
		return
	}
	var (
		doc model.Document
		err error
	)
	if document.IsDataURL(path) {
		doc, err = document.FromDataURL("pasted.pdf", path)
	} else {
		doc, err = document.Load(path)
	}
	if err != nil {
		m.notice = err.Error()
		if errors.Is(err, model.ErrUnsupportedDocument) {
			m.notice = model.UserMessage(err)
		}
		return
	}
	m.composer.AttachDocument(doc)
	m.pdfPath.SetValue("")
	m.notice = ""
}

func (m *dashboardModel) importAsText() {
	path := strings.TrimSpace(m.pdfPath.Value())
	if path == "" {
		return
	}
	text, err := document.ExtractText(path)
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.cvText.SetValue(text)
	m.composer.SetText(text)
	m.composer.SetMode(model.ModeText)
	m.pdfPath.SetValue("")
	m.notice = ""
	m.focus = focusCV
	m.applyFocus()
}

func (m *dashboardModel) cycleFocus() {
	m.focus++
	if m.focus > focusResults || (m.focus == focusResults && m.result == nil) {
		m.focus = focusCV
	}
	m.applyFocus()
}

func (m *dashboardModel) applyFocus() {
	m.cvText.Blur()
	m.pdfPath.Blur()
	m.jobText.Blur()
	switch m.focus {
	case focusCV:
		if m.composer.Mode() == model.ModeFile {
			m.pdfPath.Focus()
		} else {
			m.cvText.Focus()
		}
	case focusJob:
		m.jobText.Focus()
	}
}

func (m *dashboardModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 30)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 12)

	// CV area, job area and the fixed lines around them share the left pane.
	inputHeight := max((paneHeight-8)/2, 3)
	m.cvText.SetWidth(paneWidth - 2)
	m.cvText.SetHeight(inputHeight)
	m.jobText.SetWidth(paneWidth - 2)
	m.jobText.SetHeight(inputHeight)

	// Result tabs take 2 lines of the right pane.
	m.results.Width = paneWidth
	m.results.Height = paneHeight - 2
	m.ready = true
	m.refreshResults()
}

func (m *dashboardModel) refreshResults() {
	m.results.SetContent(renderResult(m.result, m.tab, max(m.results.Width-2, 20)))
	m.results.SetYOffset(0)
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	paneWidth := m.results.Width
	leftActive := m.focus != focusResults

	leftHeader := inactiveHeaderStyle.Render(" Your CV")
	rightHeader := inactiveHeaderStyle.Render(" Analysis")
	leftBorder := inactiveBorderStyle.Width(paneWidth)
	rightBorder := inactiveBorderStyle.Width(paneWidth)
	if leftActive {
		leftHeader = activeHeaderStyle.Render(" Your CV")
		leftBorder = activeBorderStyle.Width(paneWidth)
	} else {
		rightHeader = activeHeaderStyle.Render(" Analysis")
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeader),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeader),
	)

	leftPane := leftBorder.Height(m.results.Height + 2).Render(m.composerView())
	rightPane := rightBorder.Render(renderTabs(m.tab, m.result != nil) + "\n\n" + m.results.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	statusBar := statusBarStyle.Width(m.width).Render(m.statusText())

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m dashboardModel) composerView() string {
	var b strings.Builder

	textTab, fileTab := activeTabStyle, inactiveTabStyle
	if m.composer.Mode() == model.ModeFile {
		textTab, fileTab = inactiveTabStyle, activeTabStyle
	}
	b.WriteString(textTab.Render("Paste text") + " " + fileTab.Render("Upload PDF") + "\n\n")

	if m.composer.Mode() == model.ModeFile {
		b.WriteString(m.pdfPath.View() + "\n")
		if doc := m.composer.Document(); doc != nil {
			b.WriteString(goodStyle.Render("✓ "+doc.Name) + mutedStyle.Render("  ctrl+x remove") + "\n")
		} else {
			b.WriteString(mutedStyle.Render("enter attach  ctrl+e import as text") + "\n")
		}
	} else {
		b.WriteString(m.cvText.View() + "\n")
	}
	if m.notice != "" {
		b.WriteString(errorStyle.Render("⚠ "+m.notice) + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Job description") + mutedStyle.Render(" (optional)") + "\n")
	b.WriteString(m.jobText.View() + "\n\n")

	switch {
	case m.analyzeLoading:
		spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
		b.WriteString(spinner + " Analyzing CV...")
	case m.canAnalyze():
		b.WriteString(buttonStyle.Render("Analyze CV (ctrl+r)"))
	default:
		b.WriteString(disabledButtonStyle.Render("Analyze CV (ctrl+r)"))
	}
	if m.analyzeError != "" {
		b.WriteString("\n" + errorStyle.Render("⚠ "+m.analyzeError))
	}
	return b.String()
}

func (m dashboardModel) statusText() string {
	key := "signed out"
	if m.session.SignedIn() {
		key = m.provider + " key " + m.session.Masked()
		if !m.session.Persisted() {
			key += " (not saved)"
		}
	}
	return fmt.Sprintf(" %s    tab focus  ctrl+t text/pdf  ctrl+r analyze  ←/→ result tabs  ctrl+l sign out  esc quit", key)
}

func renderTabs(active resultTab, enabled bool) string {
	tabs := make([]string, len(resultTabNames))
	for i, name := range resultTabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if enabled && resultTab(i) == active {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = inactiveTabStyle.Render(label)
		}
	}
	return strings.Join(tabs, " ")
}

// renderResult renders one tab of the result, or a placeholder when there is
// no result yet.
func renderResult(r *model.AnalysisResult, tab resultTab, width int) string {
	if r == nil {
		return mutedStyle.Render("Ready to analyze.\nPaste your CV or attach a PDF, optionally add a job description, then press ctrl+r.")
	}

	var b strings.Builder
	divider := func(label string) string {
		fill := strings.Repeat("─", max(width-len(label), 3))
		return dividerStyle.Render(label+fill) + "\n"
	}
	bullets := func(items []string, style lipgloss.Style) {
		if len(items) == 0 {
			b.WriteString(mutedStyle.Render("  none") + "\n")
			return
		}
		for _, item := range items {
			b.WriteString(style.Render("  • ") + bodyStyle.Render(wordWrap(item, width-4)) + "\n")
		}
	}

	switch tab {
	case tabOverview:
		score := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(report.ScoreColor(r.ATSScore)))
		b.WriteString(labelStyle.Render("ATS score ") + score.Render(fmt.Sprintf("%d/100", r.ATSScore)) + "\n")
		b.WriteString(score.Render(report.Gauge(r.ATSScore, min(width, 40))) + "\n\n")
		b.WriteString(divider("── Summary "))
		b.WriteString(bodyStyle.Render(wordWrap(r.Summary, width)) + "\n\n")
		b.WriteString(divider("── Verdict "))
		b.WriteString(bodyStyle.Render(wordWrap(r.Verdict, width)) + "\n")
	case tabSkills:
		b.WriteString(divider("── Skills found "))
		bullets(r.Skills.Found, goodStyle)
		b.WriteString("\n" + divider("── Missing keywords "))
		bullets(r.Skills.Missing, badStyle)
	case tabSWOT:
		b.WriteString(divider("── Strengths "))
		bullets(r.SWOT.Strengths, goodStyle)
		b.WriteString("\n" + divider("── Weaknesses "))
		bullets(r.SWOT.Weaknesses, badStyle)
		b.WriteString("\n" + divider("── Opportunities "))
		bullets(r.SWOT.Opportunities, warnStyle)
		b.WriteString("\n" + divider("── Threats "))
		bullets(r.SWOT.Threats, badStyle)
	case tabImprovements:
		if len(r.Improvements) == 0 {
			b.WriteString(mutedStyle.Render("No rewrites suggested.") + "\n")
		}
		for i, imp := range r.Improvements {
			b.WriteString(divider(fmt.Sprintf("── %d ", i+1)))
			b.WriteString(badStyle.Render("- ") + bodyStyle.Render(wordWrap(imp.Original, width-2)) + "\n")
			b.WriteString(goodStyle.Render("+ ") + bodyStyle.Render(wordWrap(imp.Suggestion, width-2)) + "\n")
			b.WriteString(mutedStyle.Render(wordWrap(imp.Reason, width)) + "\n\n")
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// RunDashboard launches the full-screen analyzer. It returns signedOut=true
// when the user cleared the credential, so the caller can prompt for a new
// key, and false when the user simply quit.
func RunDashboard(sess *session.Session, composer *input.Composer, analyzer AnalysisRunner, provider string) (bool, error) {
	m := newDashboardModel(sess, composer, analyzer, provider)

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(dashboardModel)
	return final.signedOut, nil
}
