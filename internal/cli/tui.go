package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cmaptree/pkg/cmap"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// rootChoice is one selectable root with the numbers shown next to it.
type rootChoice struct {
	Concept   cmap.Concept
	Children  int  // direct child concepts
	Suggested bool // the heuristic's pick
}

// rootChoices lists the root candidates of m, or every concept when the map
// has none, marking the concept the heuristic selects.
func rootChoices(m *cmap.Map) ([]rootChoice, cmap.Selection, error) {
	sel, err := cmap.SelectRoot(m, "")
	if err != nil {
		return nil, sel, err
	}

	concepts := sel.Candidates
	if len(concepts) == 0 {
		seen := make(map[string]bool, len(m.Concepts))
		for _, c := range m.Concepts {
			if !seen[c.ID] {
				seen[c.ID] = true
				concepts = append(concepts, c)
			}
		}
	}

	b := cmap.NewBuilder(cmap.NewIndex(m))
	choices := make([]rootChoice, len(concepts))
	for i, c := range concepts {
		choices[i] = rootChoice{
			Concept:   c,
			Children:  len(b.Children(c.ID)),
			Suggested: c.ID == sel.ID,
		}
	}
	return choices, sel, nil
}

// =============================================================================
// RootPickerModel - Interactive root selection
// =============================================================================

// RootPickerModel is the bubbletea model for interactive root selection.
type RootPickerModel struct {
	Choices  []rootChoice
	Cursor   int
	Selected *cmap.Concept
	Height   int
	Offset   int
}

// NewRootPickerModel creates a picker with the cursor on the suggested root.
func NewRootPickerModel(choices []rootChoice) RootPickerModel {
	m := RootPickerModel{Choices: choices, Height: 15}
	for i, c := range choices {
		if c.Suggested {
			m.Cursor = i
			break
		}
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m RootPickerModel) Init() tea.Cmd {
	return nil
}

func (m RootPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Choices)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Choices) == 0 {
				return m, tea.Quit
			}
			c := m.Choices[m.Cursor].Concept
			m.Selected = &c
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m RootPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Root Concept"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Choices))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, choiceRow(cursor, m.Choices[i]))
	}

	t := choiceTable(rows, func(row int) (current, suggested bool) {
		idx := m.Offset + row
		if idx >= len(m.Choices) {
			return false, false
		}
		return idx == m.Cursor, m.Choices[idx].Suggested
	})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Choices))))

	return b.String()
}

// pickRoot runs the picker over the root choices of m. It returns an empty
// id when the user quits without choosing.
func pickRoot(ctx context.Context, m *cmap.Map) (string, error) {
	choices, _, err := rootChoices(m)
	if err != nil {
		return "", err
	}

	p := tea.NewProgram(NewRootPickerModel(choices), tea.WithContext(ctx))
	final, err := p.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}

	fm, ok := final.(RootPickerModel)
	if !ok || fm.Selected == nil {
		return "", nil
	}
	return fm.Selected.ID, nil
}

// =============================================================================
// Table helpers
// =============================================================================

func choiceRow(lead string, c rootChoice) []string {
	mark := ""
	if c.Suggested {
		mark = "★"
	}
	return []string{lead, c.Concept.Label, c.Concept.ID, strconv.Itoa(c.Children), mark}
}

// choiceTable renders choice rows. state reports, per data row, whether the
// row is under the cursor and whether it is the suggested root.
func choiceTable(rows [][]string, state func(row int) (current, suggested bool)) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Concept", "ID", "Children", "Suggested").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			current, suggested := state(row)
			base := lipgloss.NewStyle()
			if col == 2 || col == 3 {
				base = base.Foreground(colorDim)
			}
			switch {
			case current:
				return base.Foreground(colorGreen).Bold(true)
			case suggested:
				return base.Foreground(colorCyan)
			}
			return base
		})
}
