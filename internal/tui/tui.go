// Package tui implements the interactive terminal table for local play.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/cardtable/blackjack/internal/game"
)

// Model is the Bubble Tea model for a local single-player table. It drives
// the round state machine directly and renders from its snapshot.
type Model struct {
	round  *game.Round
	player *game.Participant
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	betInput    textinput.Model

	// State
	gameLog  []string
	errMsg   string
	quitting bool

	// Dimensions
	width       int
	height      int
	initialized bool
}

// New creates a local table model for one player against the house
func New(rules game.Rules, playerName string, balance int, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("Bet amount (%d-%d)", rules.MinBet, rules.MaxBet)
	ti.Focus()
	ti.CharLimit = 10
	ti.Width = 30
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	player := game.NewPlayer(playerName, balance)
	m := &Model{
		player:      player,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		betInput:    ti,
		gameLog:     []string{},
	}
	m.round = game.NewRound(rules, []*game.Participant{player}, game.WithLogger(m.logger))
	m.round.Events().Subscribe(eventLogger{m})
	return m
}

// eventLogger narrates round events into the table log
type eventLogger struct{ m *Model }

func (e eventLogger) OnEvent(ev game.RoundEvent) {
	m := e.m
	switch ev := ev.(type) {
	case game.ShoeRebuiltEvent:
		m.addLog(InfoStyle.Render(fmt.Sprintf("Shoe reshuffled at %.0f%% penetration", ev.Penetration*100)))
	case game.RoundStartEvent:
		m.addLog(HandInfoStyle.Render("Cards dealt"))
	case game.PlayerActionEvent:
		m.addLog(fmt.Sprintf("%s: %s, hand %d at %d (%s)",
			ev.Player.Name, ev.Action, ev.HandIndex+1, ev.HandValue, ev.Status))
	case game.DealerPlayEvent:
		m.addLog(DealerStyle.Render(fmt.Sprintf("Dealer finishes at %d (%s)", ev.Value, ev.Status)))
	case game.RoundSettledEvent:
		for _, res := range ev.Results {
			net := res.Delta - res.Bet // Delta is the credited amount
			line := fmt.Sprintf("Hand %d: %s, bet %d, net %+d", res.HandIndex+1, res.Status, res.Bet, net)
			switch res.Status {
			case game.StatusWin:
				line = SuccessStyle.Render(line)
			case game.StatusLose, game.StatusBusted:
				line = ErrorStyle.Render(line)
			default:
				line = WarningStyle.Render(line)
			}
			m.addLog(line)
		}
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)

		case "q":
			// while betting the input owns the keyboard
			if m.round.State() != game.StateBetting {
				m.quitting = true
				return m, tea.Sequence(tea.ClearScreen, tea.Quit)
			}

		case "enter":
			switch m.round.State() {
			case game.StateBetting:
				m.placeBet()
			case game.StateRoundOver:
				m.nextRound()
				if m.quitting {
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}

		case "h":
			m.applyAction(game.Hit)
		case "s":
			m.applyAction(game.Stand)
		case "d":
			m.applyAction(game.DoubleDown)
		case "p":
			m.applyAction(game.Split)

		case "up", "k":
			m.logViewport.ScrollUp(1)
		case "down", "j":
			m.logViewport.ScrollDown(1)
		}
	}

	var cmd tea.Cmd
	if m.round.State() == game.StateBetting {
		m.betInput, cmd = m.betInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// placeBet parses the bet input and deals the round
func (m *Model) placeBet() {
	amount, err := strconv.Atoi(strings.TrimSpace(m.betInput.Value()))
	if err != nil {
		m.errMsg = "bet must be a number"
		return
	}

	if err := m.round.PlaceBets(map[*game.Participant]int{m.player: amount}); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.betInput.SetValue("")
	m.betInput.Blur()
	m.round.StartRound()
	m.maybeFinishRound()
}

// applyAction forwards a key action to the engine
func (m *Model) applyAction(action game.Action) {
	if m.round.State() != game.StatePlayerTurn {
		return
	}

	if err := m.round.PlayerAction(m.player, action); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.maybeFinishRound()
}

// maybeFinishRound plays out the dealer once the player has no live hands
func (m *Model) maybeFinishRound() {
	if m.round.State() != game.StatePlayerTurn || !m.round.AllPlayersDone() {
		return
	}

	if err := m.round.BeginDealerTurn(); err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.round.DealerPlays(); err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.round.DetermineOutcome(); err != nil {
		m.errMsg = err.Error()
	}
}

// nextRound clears the table for fresh bets
func (m *Model) nextRound() {
	if m.player.Balance < m.round.Rules.MinBet {
		m.addLog(ErrorStyle.Render("Bankroll below the table minimum, thanks for playing"))
		m.quitting = true
		return
	}
	m.round.ResetRound()
	m.errMsg = ""
	m.betInput.SetValue("")
	m.betInput.Focus()
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.round.Snapshot()

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Blackjack"))
	b.WriteString("\n\n")

	b.WriteString(DealerStyle.Render("Dealer"))
	b.WriteString("  ")
	b.WriteString(renderCards(snap.Dealer.Cards))
	if len(snap.Dealer.Cards) > 1 && snap.Dealer.Cards[1].Rank != game.HiddenCard {
		b.WriteString(fmt.Sprintf("  (%d)", snap.Dealer.Value))
	}
	b.WriteString("\n\n")

	pv := snap.Players[0]
	b.WriteString(HandInfoStyle.Render(fmt.Sprintf("%s  balance %d", pv.Name, pv.Balance)))
	b.WriteString("\n")
	for i, hv := range pv.Hands {
		cursor := "  "
		if i == pv.CurrentHand && snap.State == "playerTurn" {
			cursor = CursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s  (%d)  bet %d  %s\n",
			cursor, renderCards(hv.Cards), hv.Value, hv.Bet, hv.Status))
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.renderPrompt(snap))
	b.WriteString("\n\n")

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	logHeight := m.height - lipgloss.Height(b.String()) - 2
	if logHeight < 1 {
		logHeight = 1
	}
	m.logViewport.Width = m.width - 2
	m.logViewport.Height = logHeight
	if !m.initialized {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(logHeight)

	b.WriteString(logStyle.Render(m.logViewport.View()))
	return b.String()
}

// renderPrompt shows the input or key help for the current state
func (m *Model) renderPrompt(snap game.Snapshot) string {
	switch snap.State {
	case "betting":
		return m.betInput.View() + "\n" + InfoStyle.Render("Enter to deal • Ctrl+C to quit")
	case "playerTurn":
		return InfoStyle.Render("[h]it • [s]tand • [d]ouble • s[p]lit • q to quit")
	case "roundOver":
		return InfoStyle.Render("Enter for next round • q to quit")
	default:
		return ""
	}
}

// renderCards formats a card row with suit colors
func renderCards(cards []game.CardView) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		switch {
		case c.Rank == game.HiddenCard:
			parts = append(parts, HiddenCardStyle.Render("[??]"))
		case c.Red:
			parts = append(parts, RedCardStyle.Render(c.Rank+c.Suit))
		default:
			parts = append(parts, BlackCardStyle.Render(c.Rank+c.Suit))
		}
	}
	return strings.Join(parts, " ")
}

// addLog appends an entry and keeps the viewport pinned to the newest line
func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Run starts the interactive table and blocks until the player quits
func Run(rules game.Rules, playerName string, balance int, logger *log.Logger) error {
	model := New(rules, playerName, balance, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
