package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/inkfall/fableforge/pkg/story"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	detail        *StoryDetail
	sceneViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Story selection state
	showStoryModal bool
	stories        []*story.Story
	selectedStory  int
	loadingStories bool

	// New story form state
	creatingStory bool
	createStep    int
	newTitle      string
	input         textarea.Model

	// Scene state
	currentScene   *story.Scene
	selectedChoice int
	transcript     []transcriptEntry

	// Change review state
	showReviewModal bool
	pending         []*story.ProposedChange
	reviewIndex     int

	// Quit confirmation state
	showQuitModal bool

	// Status line under the scene panel
	statusMsg string

	// Progress bar state
	progressTick int
}

type transcriptEntry struct {
	choice string
	text   string
}

type storiesLoadedMsg struct {
	stories []*story.Story
	err     error
}

type storyOpenedMsg struct {
	detail *StoryDetail
	err    error
}

type sceneGeneratedMsg struct {
	result *GenerateResult
	err    error
}

type changeDecidedMsg struct {
	result *DecisionResult
	err    error
}

type detailRefreshedMsg struct {
	detail *StoryDetail
	err    error
}

type progressTickMsg struct{}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("39")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	acceptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // green

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")) // red
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ta := textarea.New()
	ta.Placeholder = "Story title..."
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	return ConsoleUI{
		config:         cfg,
		client:         client,
		sceneViewport:  sceneVp,
		metaViewport:   metaVp,
		input:          ta,
		showStoryModal: true,
		loadingStories: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadStories()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showStoryModal {
		return m.updateStoryModal(msg)
	}
	if m.showReviewModal {
		return m.updateReviewModal(msg)
	}

	var (
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()
		m.ready = true
		m.writeSceneContent()
		m.writeMetadata()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sceneGeneratedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = errorStyle.Render("Error: " + msg.err.Error())
			m.writeSceneContent()
			return m, nil
		}
		if m.currentScene != nil {
			m.transcript = append(m.transcript, transcriptEntry{
				choice: msg.result.Scene.IncomingChoiceText,
				text:   m.currentScene.Text,
			})
		}
		m.currentScene = msg.result.Scene
		m.selectedChoice = 0
		m.pending = append(m.pending, msg.result.ProposedChanges...)
		m.statusMsg = ""
		if len(msg.result.NewCharacters) > 0 {
			names := make([]string, 0, len(msg.result.NewCharacters))
			for _, c := range msg.result.NewCharacters {
				names = append(names, c.Name)
			}
			m.statusMsg = loadingStyle.Render("New characters: " + strings.Join(names, ", "))
		}
		m.writeSceneContent()
		if len(m.pending) > 0 {
			m.showReviewModal = true
			m.reviewIndex = 0
		}
		return m, m.refreshDetail()

	case changeDecidedMsg:
		if msg.err != nil {
			m.statusMsg = errorStyle.Render("Error: " + msg.err.Error())
		}
		return m, m.refreshDetail()

	case detailRefreshedMsg:
		if msg.err == nil && msg.detail != nil {
			m.detail = msg.detail
			m.writeMetadata()
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeSceneContent()
			return m, progressTick()
		}
	}

	m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.showQuitModal = true
		return m, nil

	case tea.KeyUp:
		if m.currentScene != nil && m.selectedChoice > 0 {
			m.selectedChoice--
			m.writeSceneContent()
		}
		return m, nil

	case tea.KeyDown:
		if m.currentScene != nil && m.selectedChoice < len(m.currentScene.Choices)-1 {
			m.selectedChoice++
			m.writeSceneContent()
		}
		return m, nil

	case tea.KeyEnter:
		if m.loading {
			return m, nil
		}
		if m.currentScene == nil {
			// No scene yet: generate the opening.
			m.loading = true
			m.progressTick = 0
			m.writeSceneContent()
			return m, tea.Batch(m.generate("", nil), progressTick())
		}
		if len(m.currentScene.Choices) > 0 {
			choice := m.currentScene.Choices[m.selectedChoice]
			m.loading = true
			m.progressTick = 0
			m.writeSceneContent()
			return m, tea.Batch(m.generate(choice.Text, &m.currentScene.ID), progressTick())
		}
		return m, nil
	}

	switch msg.String() {
	case "r":
		if len(m.pending) > 0 {
			m.showReviewModal = true
			m.reviewIndex = 0
		} else {
			m.statusMsg = promptStyle.Render("No pending canon changes.")
			m.writeSceneContent()
		}
	case "c":
		if m.currentScene != nil {
			if err := clipboard.WriteAll(m.currentScene.Text); err != nil {
				m.statusMsg = errorStyle.Render("Clipboard error: " + err.Error())
			} else {
				m.statusMsg = promptStyle.Render("Scene copied to clipboard.")
			}
			m.writeSceneContent()
		}
	}

	return m, nil
}

func (m *ConsoleUI) resizePanels() {
	sceneWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - sceneWidth - 6

	m.sceneViewport.Width = sceneWidth - 2
	m.sceneViewport.Height = m.height - 5
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
}

// writeSceneContent rebuilds the scene panel for the current viewport
// width.
func (m *ConsoleUI) writeSceneContent() {
	width := m.sceneViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("FABLEFORGE") + "\n\n")

	if m.detail != nil {
		content.WriteString(sceneStyle.Render(m.detail.Story.Title) + "\n\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, entry := range m.transcript {
		if entry.choice != "" {
			content.WriteString(choiceStyle.Render("> "+entry.choice) + "\n\n")
		}
		content.WriteString(wordwrap.String(entry.text, width) + "\n\n")
	}

	if m.currentScene == nil {
		if !m.loading {
			content.WriteString(promptStyle.Render("Press Enter to begin the story.") + "\n")
		}
	} else {
		content.WriteString(wordwrap.String(m.currentScene.Text, width) + "\n\n")
		content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

		for i, choice := range m.currentScene.Choices {
			line := fmt.Sprintf(" %d. %s ", i+1, choice.Text)
			if i == m.selectedChoice {
				content.WriteString(selectedChoiceStyle.Render(line) + "\n")
			} else {
				content.WriteString(choiceStyle.Render(line) + "\n")
			}
		}
		content.WriteString("\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar() + "\n")
	}
	if m.statusMsg != "" {
		content.WriteString(m.statusMsg + "\n")
	}

	m.sceneViewport.SetContent(content.String())
	m.sceneViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	if m.detail == nil {
		return
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("STORY") + "\n\n")

	content.WriteString("Story ID:\n")
	content.WriteString(m.detail.Story.ID.String()[:8] + "...\n\n")

	if m.detail.Story.Genre != "" {
		content.WriteString("Genre:\n")
		content.WriteString(m.detail.Story.Genre + "\n\n")
	}

	if m.detail.Story.RollingSummary != "" {
		content.WriteString("The story so far:\n")
		content.WriteString(wordwrap.String(m.detail.Story.RollingSummary, m.metaViewport.Width-4) + "\n\n")
	}

	content.WriteString(fmt.Sprintf("Pending changes: %d\n\n", m.detail.PendingCount))

	content.WriteString("Characters:\n")
	if len(m.detail.Characters) == 0 {
		content.WriteString("None yet\n")
	}
	for _, c := range m.detail.Characters {
		content.WriteString("• " + c.Name + "\n")
		keys := make([]string, 0, len(c.Canon))
		for k := range c.Canon {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			content.WriteString(promptStyle.Render(fmt.Sprintf("  %s: %s", k, c.Canon[k])) + "\n")
		}
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• ↑/↓: Select choice\n")
	content.WriteString("• Enter: Continue story\n")
	content.WriteString("• r: Review changes\n")
	content.WriteString("• c: Copy scene\n")
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) loadStories() tea.Cmd {
	return func() tea.Msg {
		stories, err := listStories(m.client, m.config.APIBaseURL)
		return storiesLoadedMsg{stories, err}
	}
}

func (m ConsoleUI) openStory(s *story.Story) tea.Cmd {
	return func() tea.Msg {
		detail, err := getStoryDetail(m.client, m.config.APIBaseURL, s.ID)
		return storyOpenedMsg{detail, err}
	}
}

func (m ConsoleUI) generate(choiceText string, parentSceneID *uuid.UUID) tea.Cmd {
	storyID := m.detail.Story.ID
	return func() tea.Msg {
		result, err := generateScene(m.client, m.config.APIBaseURL, storyID, choiceText, parentSceneID)
		return sceneGeneratedMsg{result, err}
	}
}

func (m ConsoleUI) refreshDetail() tea.Cmd {
	return func() tea.Msg {
		detail, err := getStoryDetail(m.client, m.config.APIBaseURL, m.detail.Story.ID)
		return detailRefreshedMsg{detail, err}
	}
}

func (m ConsoleUI) updateStoryModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()

	case storiesLoadedMsg:
		m.loadingStories = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.stories = msg.stories
		}

	case storyOpenedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.detail = msg.detail
		m.pending = nil
		m.currentScene = nil
		m.transcript = nil
		m.selectedChoice = 0
		m.showStoryModal = false
		m.ready = true
		m.writeSceneContent()
		m.writeMetadata()
		return m, nil

	case tea.KeyMsg:
		if m.creatingStory {
			return m.updateCreateForm(msg)
		}

		if m.loadingStories || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedStory > 0 {
				m.selectedStory--
			}
		case tea.KeyDown:
			if m.selectedStory < len(m.stories)-1 {
				m.selectedStory++
			}
		case tea.KeyEnter:
			if len(m.stories) > 0 {
				m.loading = true
				return m, m.openStory(m.stories[m.selectedStory])
			}
		default:
			if msg.String() == "n" {
				m.creatingStory = true
				m.createStep = 0
				m.newTitle = ""
				m.input.Reset()
				m.input.Placeholder = "Story title..."
				m.input.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateCreateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.creatingStory = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		if m.createStep == 0 {
			m.newTitle = value
			m.createStep = 1
			m.input.Reset()
			m.input.Placeholder = "Premise: who, where, and what is at stake..."
			return m, nil
		}

		m.loading = true
		m.creatingStory = false
		m.input.Blur()
		premise := value
		return m, func() tea.Msg {
			detail, err := createStory(m.client, m.config.APIBaseURL, m.newTitle, premise)
			return storyOpenedMsg{detail, err}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateReviewModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()

	case changeDecidedMsg:
		if msg.err != nil {
			m.statusMsg = errorStyle.Render("Error: " + msg.err.Error())
		}
		return m, m.refreshDetail()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEsc:
			m.closeReview()
			return m, nil
		}

		if m.reviewIndex >= len(m.pending) {
			m.closeReview()
			return m, nil
		}

		change := m.pending[m.reviewIndex]
		switch msg.String() {
		case "a", "y":
			m.reviewIndex++
			cmd := m.decideCurrentChange(change, true)
			if m.reviewIndex >= len(m.pending) {
				m.closeReview()
			}
			return m, cmd
		case "x", "n":
			m.reviewIndex++
			cmd := m.decideCurrentChange(change, false)
			if m.reviewIndex >= len(m.pending) {
				m.closeReview()
			}
			return m, cmd
		case "s":
			// Skip: leave it pending.
			m.reviewIndex++
			if m.reviewIndex >= len(m.pending) {
				m.closeReview()
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *ConsoleUI) closeReview() {
	// Drop everything that was decided this pass; skipped changes stay.
	remaining := make([]*story.ProposedChange, 0, len(m.pending))
	for _, p := range m.pending {
		if p.Status == story.StatusProposed {
			remaining = append(remaining, p)
		}
	}
	m.pending = remaining
	m.showReviewModal = false
	m.reviewIndex = 0
	m.writeSceneContent()
}

func (m ConsoleUI) decideCurrentChange(change *story.ProposedChange, accept bool) tea.Cmd {
	// Mark locally so closeReview can tell decided from skipped.
	if accept {
		change.Status = story.StatusAccepted
	} else {
		change.Status = story.StatusRejected
	}
	storyID := m.detail.Story.ID
	return func() tea.Msg {
		result, err := decideChange(m.client, m.config.APIBaseURL, storyID, change.ID, accept)
		return changeDecidedMsg{result, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the story?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStoryModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.creatingStory {
		if m.createStep == 0 {
			content.WriteString(modalTitleStyle.Render("New Story: Title"))
		} else {
			content.WriteString(modalTitleStyle.Render("New Story: Premise"))
		}
		content.WriteString("\n\n")
		content.WriteString(m.input.View())
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Enter to continue, Esc to cancel"))
		modal := modalStyle.Width(60).Render(content.String())
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
	}

	if m.loadingStories {
		content.WriteString(modalTitleStyle.Render("Loading Stories..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch your stories..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load stories: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if len(m.stories) == 0 {
		content.WriteString(modalTitleStyle.Render("No Stories"))
		content.WriteString("\n\n")
		content.WriteString("No stories exist yet.")
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Press n to create one, Ctrl+C to exit"))
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Opening Story..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Loading your story..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Story"))
		content.WriteString("\n\n")

		for i, s := range m.stories {
			if i == m.selectedStory {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", s.Title)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", s.Title)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, n for new, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderReviewModal() string {
	if m.width == 0 || m.height == 0 || m.reviewIndex >= len(m.pending) {
		return ""
	}

	change := m.pending[m.reviewIndex]
	characterName := change.CharacterID.String()[:8]
	if m.detail != nil {
		for _, c := range m.detail.Characters {
			if c.ID == change.CharacterID {
				characterName = c.Name
				break
			}
		}
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(fmt.Sprintf("Canon Change %d of %d", m.reviewIndex+1, len(m.pending))))
	content.WriteString("\n\n")
	content.WriteString(titleStyle.Render(characterName) + "\n\n")

	if change.Rationale != "" {
		content.WriteString(wordwrap.String(change.Rationale, 52) + "\n\n")
	}

	keys := make([]string, 0, len(change.Diff.Set))
	for k := range change.Diff.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		content.WriteString(acceptStyle.Render(fmt.Sprintf("+ %s: %s", k, change.Diff.Set[k])) + "\n")
	}
	for _, k := range change.Diff.Unset {
		content.WriteString(rejectStyle.Render("- "+k) + "\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("a: accept  x: reject  s: skip  Esc: close"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showStoryModal {
		return m.renderStoryModal()
	}
	if m.showReviewModal {
		return m.renderReviewModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - sceneWidth - 6

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 2).Render(
		m.sceneViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.sceneViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
