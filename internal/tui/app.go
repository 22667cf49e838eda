// internal/tui/app.go
//
// Interactive front-end for the estimation engine, built on bubbletea's
// Elm-style loop: Model holds state, Update reacts to messages, View renders.
//
// Screens: address prompt -> estimating -> (details form if the engine pauses
// for user input) -> result card.

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renovalab/renovest/internal/engine"
	"github.com/renovalab/renovest/internal/property"
)

// appState represents which screen we're on
type appState int

const (
	stateAddressInput appState = iota // prompt for a free-text address
	stateEstimating                   // waiting on the engine
	stateDetailsForm                  // engine paused; collecting property details
	stateResult                       // final estimate card
	stateError                        // estimation failed
)

// Estimator is the single engine capability the TUI needs.
type Estimator interface {
	Estimate(ctx context.Context, req engine.Request) (engine.Result, error)
}

// detail form field order
const (
	fieldSquareFootage = iota
	fieldBedrooms
	fieldBathrooms
	fieldCount
)

// estimateMsg carries one completed engine call back into the update loop.
type estimateMsg struct {
	result engine.Result
	err    error
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithContext sets the context estimation calls run under.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL state.
type App struct {
	state     appState
	estimator Estimator
	ctx       context.Context

	addressInput textinput.Model
	detailInputs [fieldCount]textinput.Model
	detailFocus  int

	// carried across the pause/resume round trip
	pendingAddress string
	pendingResult  engine.Result

	result engine.Result
	err    error

	width  int
	height int
}

// NewApp creates a new App instance over an estimation engine.
func NewApp(estimator Estimator, opts ...AppOption) (*App, error) {
	if estimator == nil {
		return nil, fmt.Errorf("tui: estimator is required")
	}

	address := textinput.New()
	address.Placeholder = "123 Maple Ave, Springfield, IL"
	address.Prompt = "> "
	address.CharLimit = 120
	address.Focus()

	app := &App{
		state:        stateAddressInput,
		estimator:    estimator,
		ctx:          context.Background(),
		addressInput: address,
	}
	labels := [fieldCount]string{"e.g. 1800", "e.g. 3", "e.g. 2"}
	for i := range app.detailInputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.Prompt = "> "
		in.CharLimit = 10
		app.detailInputs[i] = in
	}

	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app, nil
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case estimateMsg:
		return a.handleEstimateDone(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state != stateAddressInput && a.state != stateDetailsForm {
				return a, tea.Quit
			}
		case "esc":
			if a.state != stateEstimating {
				return a.resetToAddressInput()
			}
		case "enter":
			switch a.state {
			case stateAddressInput:
				return a.submitAddress()
			case stateDetailsForm:
				if a.detailFocus == fieldCount-1 {
					return a.submitDetails()
				}
				return a.cycleDetailFocus(1)
			case stateResult, stateError:
				return a.resetToAddressInput()
			}
		case "tab", "down":
			if a.state == stateDetailsForm {
				return a.cycleDetailFocus(1)
			}
		case "shift+tab", "up":
			if a.state == stateDetailsForm {
				return a.cycleDetailFocus(-1)
			}
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateAddressInput:
		a.addressInput, cmd = a.addressInput.Update(msg)
	case stateDetailsForm:
		a.detailInputs[a.detailFocus], cmd = a.detailInputs[a.detailFocus].Update(msg)
	}
	return a, cmd
}

func (a *App) submitAddress() (tea.Model, tea.Cmd) {
	address := strings.TrimSpace(a.addressInput.Value())
	if address == "" {
		return a, nil
	}
	a.pendingAddress = address
	a.state = stateEstimating
	return a, a.estimateCmd(engine.Request{Address: address})
}

func (a *App) submitDetails() (tea.Model, tea.Cmd) {
	req := engine.Request{
		Address:  a.pendingAddress,
		Details:  a.collectDetails(),
		FollowUp: true,
	}
	a.state = stateEstimating
	return a, a.estimateCmd(req)
}

// collectDetails parses the form fields; blanks stay nil so the engine falls
// back to the handoff's default assumptions per dimension.
func (a *App) collectDetails() *property.UserDetails {
	details := &property.UserDetails{}
	if v, err := strconv.ParseFloat(strings.TrimSpace(a.detailInputs[fieldSquareFootage].Value()), 64); err == nil && v > 0 {
		details.SquareFootage = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(a.detailInputs[fieldBedrooms].Value())); err == nil && v > 0 {
		details.Bedrooms = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(a.detailInputs[fieldBathrooms].Value()), 64); err == nil && v > 0 {
		details.Bathrooms = &v
	}
	if details.Empty() {
		return nil
	}
	return details
}

func (a *App) estimateCmd(req engine.Request) tea.Cmd {
	return func() tea.Msg {
		result, err := a.estimator.Estimate(a.ctx, req)
		return estimateMsg{result: result, err: err}
	}
}

func (a *App) handleEstimateDone(msg estimateMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.err = msg.err
		a.state = stateError
		return a, nil
	}
	if msg.result.RequiresUserInput {
		a.pendingResult = msg.result
		a.prefillDetailPlaceholders(msg.result)
		a.detailFocus = fieldSquareFootage
		a.state = stateDetailsForm
		return a, a.focusDetail(a.detailFocus)
	}
	a.result = msg.result
	a.state = stateResult
	return a, nil
}

// prefillDetailPlaceholders shows the handoff's default assumptions so the
// user can see what blank fields will fall back to.
func (a *App) prefillDetailPlaceholders(res engine.Result) {
	if res.HandoffEvent == nil {
		return
	}
	assumed := res.HandoffEvent.DefaultAssumptions
	if assumed.SquareFootage > 0 {
		a.detailInputs[fieldSquareFootage].Placeholder = fmt.Sprintf("default %.0f", assumed.SquareFootage)
	}
	if assumed.Bedrooms > 0 {
		a.detailInputs[fieldBedrooms].Placeholder = fmt.Sprintf("default %d", assumed.Bedrooms)
	}
	if assumed.Bathrooms > 0 {
		a.detailInputs[fieldBathrooms].Placeholder = fmt.Sprintf("default %.1f", assumed.Bathrooms)
	}
}

func (a *App) cycleDetailFocus(delta int) (tea.Model, tea.Cmd) {
	a.detailFocus = (a.detailFocus + delta + fieldCount) % fieldCount
	return a, a.focusDetail(a.detailFocus)
}

func (a *App) focusDetail(idx int) tea.Cmd {
	for i := range a.detailInputs {
		a.detailInputs[i].Blur()
	}
	return a.detailInputs[idx].Focus()
}

func (a *App) resetToAddressInput() (tea.Model, tea.Cmd) {
	a.state = stateAddressInput
	a.err = nil
	a.pendingAddress = ""
	a.pendingResult = engine.Result{}
	a.addressInput.SetValue("")
	for i := range a.detailInputs {
		a.detailInputs[i].SetValue("")
		a.detailInputs[i].Blur()
	}
	return a, a.addressInput.Focus()
}

// View renders the current screen.
func (a *App) View() string {
	var body string
	switch a.state {
	case stateAddressInput:
		body = a.viewAddressInput()
	case stateEstimating:
		body = a.viewEstimating()
	case stateDetailsForm:
		body = a.viewDetailsForm()
	case stateResult:
		body = renderResultCard(a.result, a.width)
	case stateError:
		body = a.viewError()
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (a *App) viewAddressInput() string {
	title := titleStyle.Render("⌂ RENOVEST")
	prompt := "Enter a property address to estimate its renovation allowance:"
	hint := hintStyle.Render("enter to estimate · ctrl+c to quit")
	return strings.Join([]string{title, "", prompt, a.addressInput.View(), "", hint}, "\n")
}

func (a *App) viewEstimating() string {
	return strings.Join([]string{
		titleStyle.Render("⌂ RENOVEST"),
		"",
		fmt.Sprintf("Estimating %s …", a.pendingAddress),
		hintStyle.Render("looking up the property and its neighbours"),
	}, "\n")
}

func (a *App) viewDetailsForm() string {
	labels := [fieldCount]string{"Square footage", "Bedrooms", "Bathrooms"}
	lines := []string{
		titleStyle.Render("⌂ RENOVEST"),
		"",
		pausedStyle.Render("The address matches a neighbourhood, not a single property."),
	}
	if a.pendingResult.HandoffEvent != nil && a.pendingResult.HandoffEvent.Reason != "" {
		lines = append(lines, hintStyle.Render(a.pendingResult.HandoffEvent.Reason))
	}
	lines = append(lines, "Add what you know (blank fields use the shown defaults):", "")
	for i := range a.detailInputs {
		label := labels[i]
		if i == a.detailFocus {
			label = focusedLabelStyle.Render(label)
		}
		lines = append(lines, label, a.detailInputs[i].View())
	}
	lines = append(lines, "", hintStyle.Render("tab to move · enter on the last field to submit · esc to start over"))
	return strings.Join(lines, "\n")
}

func (a *App) viewError() string {
	return strings.Join([]string{
		titleStyle.Render("⌂ RENOVEST"),
		"",
		errorStyle.Render("Estimation failed"),
		fmt.Sprintf("  %v", a.err),
		"",
		hintStyle.Render("enter to try another address · q to quit"),
	}, "\n")
}
