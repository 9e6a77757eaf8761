package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ordercard/internal/activation"
	"ordercard/internal/domain"
)

// Submitter is the part of the activation gate the form drives.
type Submitter interface {
	Submit(ctx context.Context, identity domain.UserIdentity, code string) (*domain.UserIdentity, error)
}

const (
	inputName = iota
	inputCompany
	inputMobile
	inputCode
)

type activationResultMsg struct {
	identity *domain.UserIdentity
	err      error
}

// ActivationModel is the activation form.
type ActivationModel struct {
	ctx     context.Context
	gate    Submitter
	inputs  []textinput.Model
	labels  []string
	focus   int
	spinner spinner.Model

	submitting bool
	errMsg     string
	identity   *domain.UserIdentity
	cancelled  bool

	styles Styles
}

func NewActivationModel(ctx context.Context, gate Submitter) ActivationModel {
	labels := []string{"Your Name", "Company Name", "Mobile Number", "Activation Code"}
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 100
		ti.Width = 32
		inputs[i] = ti
	}
	inputs[inputMobile].CharLimit = 20
	inputs[inputCode].Placeholder = "e.g., FVC-XXXX-XXXX-XXXX"
	inputs[inputCode].CharLimit = 18
	inputs[inputName].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ActivationModel{
		ctx:     ctx,
		gate:    gate,
		inputs:  inputs,
		labels:  labels,
		spinner: sp,
		styles:  DefaultStyles(),
	}
}

func (m ActivationModel) Init() tea.Cmd {
	return textinput.Blink
}

// Identity is set once activation succeeded.
func (m ActivationModel) Identity() *domain.UserIdentity {
	return m.identity
}

func (m ActivationModel) Cancelled() bool {
	return m.cancelled
}

func (m ActivationModel) Err() string {
	return m.errMsg
}

func (m ActivationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activationResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			if re, ok := activation.IsRejectionError(msg.err); ok {
				m.errMsg = re.Message
			}
			return m, nil
		}
		m.identity = msg.identity
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting {
			if msg.Type == tea.KeyCtrlC {
				m.cancelled = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			m.setFocus(m.focus + 1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.setFocus(m.focus - 1)
			return m, nil
		case tea.KeyEnter:
			if m.focus < inputCode {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.focus == inputCode {
		formatted := activation.FormatCode(m.inputs[inputCode].Value())
		if formatted != m.inputs[inputCode].Value() {
			m.inputs[inputCode].SetValue(formatted)
			m.inputs[inputCode].CursorEnd()
		}
	}
	return m, cmd
}

func (m *ActivationModel) setFocus(i int) {
	n := len(m.inputs)
	i = (i%n + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m ActivationModel) submit() (tea.Model, tea.Cmd) {
	m.submitting = true
	m.errMsg = ""

	identity := domain.UserIdentity{
		Name:    m.inputs[inputName].Value(),
		Company: m.inputs[inputCompany].Value(),
		Mobile:  m.inputs[inputMobile].Value(),
	}
	code := m.inputs[inputCode].Value()
	ctx, gate := m.ctx, m.gate

	run := func() tea.Msg {
		id, err := gate.Submit(ctx, identity, code)
		return activationResultMsg{identity: id, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m ActivationModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Jewelry Order Creator"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Activate Your App"))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		label := m.styles.Label.Render(m.labels[i])
		if i == m.focus {
			label = m.styles.Focused.Render(m.labels[i])
		}
		b.WriteString(label)
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " Activating...")
	case m.errMsg != "":
		b.WriteString(m.styles.Error.Render(m.errMsg))
	case m.identity != nil:
		b.WriteString(m.styles.Success.Render("Activated for " + m.identity.Company))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("tab/shift+tab move • enter activate • esc quit"))
	b.WriteString("\n")
	return b.String()
}
