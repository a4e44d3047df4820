package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"ignorebtc/internal/processor"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxShownErrors = 5

type ProgressModel struct {
	totalEntries     int
	processedEntries int
	failedEntries    int
	totalBlocks      int
	currentTxID      string
	startTime        time.Time
	errors           []string
	progressChan     <-chan processor.ProgressUpdate
	done             bool
}

type ProgressMsg processor.ProgressUpdate

type progressDoneMsg struct{}

func NewProgressModel(totalEntries int, progressChan <-chan processor.ProgressUpdate) ProgressModel {
	return ProgressModel{
		totalEntries: totalEntries,
		startTime:    time.Now(),
		progressChan: progressChan,
		errors:       make([]string, 0),
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return waitForActivity(m.progressChan)
}

func waitForActivity(progressChan <-chan processor.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progressChan
		if !ok {
			return progressDoneMsg{}
		}
		return ProgressMsg(update)
	}
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case ProgressMsg:
		m.apply(processor.ProgressUpdate(msg))
		return m, waitForActivity(m.progressChan)

	case progressDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *ProgressModel) apply(u processor.ProgressUpdate) {
	switch u.Status {
	case processor.StatusProcessing:
		m.currentTxID = u.TxID
	case processor.StatusCompleted:
		m.processedEntries++
		m.totalBlocks += u.Blocks
	case processor.StatusFailed:
		m.failedEntries++
		m.errors = append(m.errors, fmt.Sprintf("%s/%s: %v", u.TxID, u.Algorithm, u.Error))
		if len(m.errors) > maxShownErrors {
			m.errors = m.errors[1:]
		}
	}
}

func (m ProgressModel) finished() int {
	return m.processedEntries + m.failedEntries
}

func (m ProgressModel) View() string {
	if m.done {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("2")).
			Render(fmt.Sprintf("✓ Imported %d/%d entries (%d failed)\n", m.processedEntries, m.totalEntries, m.failedEntries))
	}

	elapsed := time.Since(m.startTime)
	progress := 100.0
	if m.totalEntries > 0 {
		progress = float64(m.finished()) / float64(m.totalEntries) * 100
	}

	var eta time.Duration
	if n := m.finished(); n > 0 {
		avg := elapsed / time.Duration(n)
		eta = avg * time.Duration(m.totalEntries-n)
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("6")).
		MarginBottom(1)

	statsStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("1"))

	header := headerStyle.Render("Importing ignoring-block reports")

	stats := statsStyle.Render(fmt.Sprintf(
		"Current: %s\n"+
			"Imported: %d/%d entries (%.1f%%)\n"+
			"Ignoring blocks: %d\n"+
			"Elapsed: %s | ETA: %s\n"+
			"Failed: %d entries",
		m.currentTxID,
		m.processedEntries, m.totalEntries, progress,
		m.totalBlocks,
		elapsed.Truncate(time.Second), eta.Truncate(time.Second),
		m.failedEntries))

	var errorSection string
	if len(m.errors) > 0 {
		errorSection = "\n\n" + errorStyle.Render("Recent Errors:") + "\n"
		for _, err := range m.errors {
			errorSection += errorStyle.Render("• "+err) + "\n"
		}
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s%s\n\nPress 'q' or Ctrl+C to quit",
		header, renderProgressBar(progress), stats, errorSection)
}

func renderProgressBar(progress float64) string {
	width := 50
	filled := int(progress / 100 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("2"))

	return style.Render(fmt.Sprintf("[%s] %.1f%%", bar, progress))
}

func RunProgressUI(ctx context.Context, totalEntries int, progressChan <-chan processor.ProgressUpdate) error {
	if !isInteractiveTerminal() {
		return runSimpleProgress(ctx, totalEntries, progressChan)
	}

	model := NewProgressModel(totalEntries, progressChan)

	p := tea.NewProgram(model)

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}

func isInteractiveTerminal() bool {
	file, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

func runSimpleProgress(ctx context.Context, totalEntries int, progressChan <-chan processor.ProgressUpdate) error {
	var processed, failed, blocks int
	startTime := time.Now()

	fmt.Printf("Importing %d entries\n", totalEntries)

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				fmt.Printf("\nImport completed!\n")
				fmt.Printf("Imported: %d entries\n", processed)
				fmt.Printf("Failed: %d entries\n", failed)
				fmt.Printf("Ignoring blocks: %d\n", blocks)
				fmt.Printf("Total time: %s\n", time.Since(startTime).Truncate(time.Second))
				return nil
			}

			switch update.Status {
			case processor.StatusFailed:
				failed++
				fmt.Printf("Error importing %s/%s: %v\n", update.TxID, update.Algorithm, update.Error)
			case processor.StatusCompleted:
				processed++
				blocks += update.Blocks
				fmt.Printf("Imported %s/%s (%d ignoring blocks) - %d/%d\n",
					update.TxID, update.Algorithm, update.Blocks, processed+failed, totalEntries)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
