package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fruitsalade/filebrowser/internal/browser"
)

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.session.Snapshot()
	sections := []string{
		titleStyle.Render("File Browser: /" + snap.CurrentPath),
		m.viewListing(snap),
	}
	if staged := m.viewStaged(snap); staged != "" {
		sections = append(sections, staged)
	}
	if snap.Preview.Visible {
		sections = append(sections, m.viewPreview(snap.Preview))
	}
	if m.status != "" {
		sections = append(sections, alertStyle.Render(m.status))
	}
	if d := m.viewDialog(); d != "" {
		sections = append(sections, d)
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) viewListing(snap browser.Snapshot) string {
	if len(snap.Items) == 0 {
		return fileStyle.Render("  (empty)")
	}
	var b strings.Builder
	for i, it := range snap.Items {
		label := it.Label
		if m.cut != "" && it.Entry.Path == m.cut {
			label += " (moving)"
		}
		style := fileStyle
		switch it.Kind {
		case browser.KindParent:
			style = parentStyle
		case browser.KindFolder:
			style = folderStyle
		}
		switch {
		case it.DropHover:
			style = dropStyle
		case i == m.cursor && m.focus == paneListing:
			style = cursorStyle
		}
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		b.WriteString(prefix + style.Render(label))
		if i < len(snap.Items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) viewStaged(snap browser.Snapshot) string {
	if !snap.UploadVisible {
		return ""
	}
	lines := []string{sectionStyle.Render("Staged files")}
	for i, row := range snap.Staged {
		if m.focus == paneStaged && i == m.stagedCursor {
			lines = append(lines, "> "+cursorStyle.Render(row))
			continue
		}
		lines = append(lines, "  "+row)
	}
	if snap.UploadDisabled {
		lines = append(lines, disabledStyle.Render("Upload")+" "+m.spinner.View()+" Uploading...")
	} else {
		lines = append(lines, buttonStyle.Render("Upload"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewPreview(p browser.PreviewSnapshot) string {
	content := p.Content
	if p.Image != nil && p.Image.Thumb != nil {
		content = halfBlocks(p.Image.Thumb) + "\n" + content
	}
	return previewStyle.MaxWidth(max(m.width, 20)).Render(content)
}

func (m *Model) viewDialog() string {
	switch {
	case m.dialog != nil && m.dialog.kind == dialogConfirm:
		return dialogStyle.Render(m.dialog.text + " (y/n)")
	case m.purpose == inputPrompt && m.dialog != nil:
		return dialogStyle.Render(m.dialog.text + "\n" + m.input.View())
	case m.purpose == inputStage:
		return dialogStyle.Render("Stage a file for upload\n" + m.input.View())
	case m.purpose == inputFolder:
		return dialogStyle.Render("Create folder\n" + m.input.View())
	}
	return ""
}
