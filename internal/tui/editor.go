package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"ordercard/internal/card"
	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
	"ordercard/internal/export"
	"ordercard/internal/order"
)

// ImageErrorTTL is how long an image error stays on screen.
const ImageErrorTTL = 3 * time.Second

type CardExporter interface {
	Export(ctx context.Context, order domain.Order, mode card.ViewMode, company string) (string, error)
}

type CardDeliverer interface {
	ShareOrDownload(ctx context.Context, img, filename, text string) (*export.Delivery, error)
}

var fieldLabels = map[string]string{
	"party":           "Party Name",
	"orderTo":         "Order To",
	"design":          "Design",
	"size":            "Size",
	"factoryDesignNo": "Factory Design No",
	"goldWt":          "Gold Wt (g)",
	"goldKt":          "Gold Kt",
	"goldColour":      "Gold Colour",
	"diaWt":           "Dia Wt (ct)",
	"diaQuality":      "Dia Quality",
	"goldPrice":       "Gold Price",
	"diaPrice":        "Dia Price",
	"orderDate":       "Order Date",
	"deliveryDate":    "Delivery Date",
	"comments":        "Comments",
}

type clearImageErrMsg struct{ seq int }

type exportResultMsg struct {
	delivery *export.Delivery
	err      error
}

// EditorModel is the order form with a live card preview beside it. The
// last input takes a photo path.
type EditorModel struct {
	ctx       context.Context
	editor    *order.Editor
	exporter  CardExporter
	deliverer CardDeliverer
	company   string
	logger    *zap.Logger

	inputs []textinput.Model
	focus  int
	mode   card.ViewMode

	fieldErr    string
	imageErr    string
	imageErrSeq int
	status      string
	exporting   bool

	styles Styles
}

func NewEditorModel(ctx context.Context, editor *order.Editor, exporter CardExporter, deliverer CardDeliverer, company string, logger *zap.Logger) EditorModel {
	inputs := make([]textinput.Model, len(order.Fields)+1)
	for i, name := range order.Fields {
		ti := textinput.New()
		ti.Width = 28
		ti.CharLimit = 200
		switch name {
		case "goldKt":
			ti.SetSuggestions(karatSuggestions())
			ti.ShowSuggestions = true
		case "goldColour":
			ti.SetSuggestions(colourSuggestions())
			ti.ShowSuggestions = true
		case "orderDate", "deliveryDate":
			ti.Placeholder = domain.DateLayout
		}
		inputs[i] = ti
	}
	photo := textinput.New()
	photo.Width = 28
	photo.Placeholder = "path to a design photo"
	inputs[len(order.Fields)] = photo

	m := EditorModel{
		ctx:       ctx,
		editor:    editor,
		exporter:  exporter,
		deliverer: deliverer,
		company:   company,
		logger:    logger,
		inputs:    inputs,
		mode:      card.ModeFull,
		styles:    DefaultStyles(),
	}
	m.syncInputs()
	m.inputs[0].Focus()
	return m
}

func karatSuggestions() []string {
	out := make([]string, len(domain.GoldKarats))
	for i, k := range domain.GoldKarats {
		out[i] = string(k)
	}
	return out
}

func colourSuggestions() []string {
	out := make([]string, len(domain.GoldColours))
	for i, c := range domain.GoldColours {
		out[i] = string(c)
	}
	return out
}

func (m EditorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Mode is the view mode of the preview.
func (m EditorModel) Mode() card.ViewMode {
	return m.mode
}

func (m EditorModel) FieldErr() string { return m.fieldErr }
func (m EditorModel) ImageErr() string { return m.imageErr }
func (m EditorModel) Status() string   { return m.status }

func (m EditorModel) photoFocused() bool {
	return m.focus == len(order.Fields)
}

// syncInputs copies editor values into the field inputs.
func (m *EditorModel) syncInputs() {
	for i, name := range order.Fields {
		v, err := m.editor.Get(name)
		if err != nil {
			continue
		}
		m.inputs[i].SetValue(v)
	}
}

// commit applies the focused input to the editor. A rejected value is
// reverted to what the editor holds.
func (m *EditorModel) commit() bool {
	if m.photoFocused() {
		return true
	}
	name := order.Fields[m.focus]
	value := m.inputs[m.focus].Value()
	if current, _ := m.editor.Get(name); current == value {
		m.fieldErr = ""
		return true
	}
	if err := m.editor.SetField(name, value); err != nil {
		m.fieldErr = errorText(err)
		current, _ := m.editor.Get(name)
		m.inputs[m.focus].SetValue(current)
		return false
	}
	m.fieldErr = ""
	return true
}

func (m *EditorModel) setFocus(i int) {
	m.commit()
	n := len(m.inputs)
	i = (i%n + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *EditorModel) showImageErr(msg string) tea.Cmd {
	m.imageErrSeq++
	m.imageErr = msg
	seq := m.imageErrSeq
	return tea.Tick(ImageErrorTTL, func(time.Time) tea.Msg {
		return clearImageErrMsg{seq: seq}
	})
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearImageErrMsg:
		if msg.seq == m.imageErrSeq {
			m.imageErr = ""
		}
		return m, nil

	case exportResultMsg:
		m.exporting = false
		switch {
		case msg.err != nil:
			m.status = errorText(msg.err)
		case msg.delivery.Method == export.MethodDownloaded:
			m.status = "Saved " + msg.delivery.Path
		default:
			m.status = "Shared"
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			m.setFocus(m.focus + 1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.setFocus(m.focus - 1)
			return m, nil
		case tea.KeyEnter:
			if m.photoFocused() {
				return m, m.attachPhoto()
			}
			m.setFocus(m.focus + 1)
			return m, nil
		case tea.KeyCtrlV:
			m.commit()
			m.mode = nextMode(m.mode)
			return m, nil
		case tea.KeyCtrlR:
			m.editor.Reset()
			m.syncInputs()
			m.fieldErr = ""
			m.status = ""
			return m, nil
		case tea.KeyCtrlX:
			if n := len(m.editor.Order().Images); n > 0 {
				if err := m.editor.RemoveImage(n - 1); err != nil {
					return m, m.showImageErr(errorText(err))
				}
				m.imageErr = ""
			}
			return m, nil
		case tea.KeyCtrlP:
			return m.startExport(card.ModeParty)
		case tea.KeyCtrlW:
			return m.startExport(card.ModeWorkshop)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *EditorModel) attachPhoto() tea.Cmd {
	path := strings.TrimSpace(m.inputs[m.focus].Value())
	if path == "" {
		return nil
	}
	if err := m.editor.AddImageFiles(path); err != nil {
		return m.showImageErr(errorText(err))
	}
	m.inputs[m.focus].SetValue("")
	m.imageErr = ""
	return nil
}

func (m EditorModel) startExport(mode card.ViewMode) (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	m.commit()
	o := m.editor.Order()
	if err := export.CheckExportable(o, mode); err != nil {
		m.status = errorText(err)
		return m, nil
	}

	m.exporting = true
	m.status = "Exporting..."
	ctx, exporter, deliverer, company, logger := m.ctx, m.exporter, m.deliverer, m.company, m.logger

	return m, func() tea.Msg {
		img, err := exporter.Export(ctx, o, mode, company)
		if err != nil {
			logger.Warn("export failed", zap.String("mode", string(mode)), zap.Error(err))
			return exportResultMsg{err: err}
		}
		d, err := deliverer.ShareOrDownload(ctx, img, export.Filename(o, mode), export.ShareText(o, mode))
		if err != nil {
			logger.Warn("delivery failed", zap.String("mode", string(mode)), zap.Error(err))
		}
		return exportResultMsg{delivery: d, err: err}
	}
}

func nextMode(mode card.ViewMode) card.ViewMode {
	for i, v := range card.ViewModes {
		if v == mode {
			return card.ViewModes[(i+1)%len(card.ViewModes)]
		}
	}
	return card.ModeFull
}

func errorText(err error) string {
	if ve, ok := apperrors.IsValidationError(err); ok {
		return ve.Message
	}
	return err.Error()
}

func (m EditorModel) View() string {
	var form strings.Builder

	form.WriteString(m.styles.Title.Render("Jewelry Order Creator"))
	form.WriteString("\n\n")
	for i, in := range m.inputs {
		text := "Add Photo"
		if i < len(order.Fields) {
			text = fieldLabels[order.Fields[i]]
		}
		label := m.styles.Label.Render(text)
		if i == m.focus {
			label = m.styles.Focused.Render(text)
		}
		form.WriteString(label)
		form.WriteString(in.View())
		form.WriteString("\n")
	}
	form.WriteString("\n")
	if m.fieldErr != "" {
		form.WriteString(m.styles.Error.Render(m.fieldErr))
		form.WriteString("\n")
	}
	if m.imageErr != "" {
		form.WriteString(m.styles.Error.Render(m.imageErr))
		form.WriteString("\n")
	}
	if m.status != "" {
		form.WriteString(m.styles.Subtitle.Render(m.status))
		form.WriteString("\n")
	}

	preview := m.styles.RenderCard(card.Render(m.editor.Order(), m.mode, m.company))
	header := m.styles.Subtitle.Render(fmt.Sprintf("Preview: %s", m.mode))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		form.String(),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left, header, preview),
	)

	help := m.styles.Help.Render("tab move • enter next/attach • ctrl+v view • ctrl+x drop photo • ctrl+r reset • ctrl+p party card • ctrl+w workshop card • esc quit")
	return body + "\n\n" + help + "\n"
}
