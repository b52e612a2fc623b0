// Package wizards implements the interactive setup of a sprocgen project.
package wizards

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/sprocgen/internal/config"
	"github.com/vvka-141/sprocgen/internal/db"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// ConnectionTester checks that a database accepts connections.
type ConnectionTester interface {
	TestConnection(ctx context.Context, cfg *sprocgen.ConnectionConfig) (info string, err error)
}

type pgxTester struct{}

func (pgxTester) TestConnection(ctx context.Context, cfg *sprocgen.ConnectionConfig) (string, error) {
	conn, err := pgx.Connect(ctx, db.BuildConnectionString(cfg))
	if err != nil {
		return "", err
	}
	defer conn.Close(ctx)

	var version string
	if err := conn.QueryRow(ctx, "select version()").Scan(&version); err != nil {
		return "", err
	}
	if idx := strings.Index(version, ","); idx > 0 {
		version = version[:idx]
	}
	return version, nil
}

// Option configures an InitWizard.
type Option func(*InitWizard)

// WithTester replaces the connection tester.
func WithTester(t ConnectionTester) Option {
	return func(w *InitWizard) {
		w.tester = t
	}
}

// InitResult is the outcome of the init wizard.
type InitResult struct {
	Cancelled bool
	Config    config.ProjectConfig
}

type initStep int

const (
	stepConnection initStep = iota
	stepTest
	stepProject
	stepPlaceholders
	stepReview
	stepDone
)

// Field indices of the connection step.
const (
	connHost = iota
	connPort
	connUsername
	connPassword
	connDatabase
	connSSLMode
)

// Field indices of the project step.
const (
	projSource = iota
	projExtension
	projPackage
	projOutput
)

type placeholderEntry struct {
	Key   string
	Value string
}

type wizardStyles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Selected    lipgloss.Style
	Unselected  lipgloss.Style
	Description lipgloss.Style
	Help        lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
}

func defaultWizardStyles() wizardStyles {
	return wizardStyles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginBottom(1),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Unselected:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

type wizardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// Letters are typed into the inputs, so navigation uses non-printing keys only.
func defaultWizardKeys() wizardKeys {
	return wizardKeys{
		Up:     key.NewBinding(key.WithKeys("up")),
		Down:   key.NewBinding(key.WithKeys("down")),
		Next:   key.NewBinding(key.WithKeys("tab", "down")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
		Select: key.NewBinding(key.WithKeys("enter")),
		Back:   key.NewBinding(key.WithKeys("esc")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// InitWizard collects the connection, the project layout and the
// placeholders of a new sprocgen.yaml.
type InitWizard struct {
	base    config.ProjectConfig
	step    initStep
	conn    fieldSet
	project fieldSet

	placeholders []placeholderEntry
	phIdx        int
	editing      bool
	phFields     fieldSet

	spinner  spinner.Model
	testing  bool
	testInfo string
	testErr  error

	validationErr string
	result        InitResult

	styles wizardStyles
	keys   wizardKeys
	tester ConnectionTester
}

// NewInitWizard creates an InitWizard whose inputs start with the values of defaults.
func NewInitWizard(defaults config.ProjectConfig, opts ...Option) InitWizard {
	defaults.ApplyDefaults()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	port := ""
	if defaults.Connection.Port > 0 {
		port = strconv.Itoa(defaults.Connection.Port)
	}

	w := InitWizard{
		base: defaults,
		step: stepConnection,
		conn: newFieldSet(
			newField("Host", "localhost", defaults.Connection.Host),
			newField("Port", "5432", port),
			newField("Username", "postgres", defaults.Connection.Username),
			newPasswordField("Password (connection test only, never saved)"),
			newField("Database", "leave empty to skip the connection test", defaults.Connection.Database),
			newField("SSL mode", "prefer", defaults.Connection.SSLMode),
		),
		project: newFieldSet(
			newField("Routine source directory", ".", defaults.Source.Directory),
			newField("Routine file extension", sprocgen.DefaultSourceExtension, defaults.Source.Extension),
			newField("Data layer package", sprocgen.DefaultWrapperPackage, defaults.Wrapper.Package),
			newField("Data layer file", sprocgen.DefaultWrapperFile, defaults.Wrapper.Output),
		),
		spinner: s,
		styles:  defaultWizardStyles(),
		keys:    defaultWizardKeys(),
		tester:  pgxTester{},
	}
	for k, v := range defaults.Placeholders {
		w.placeholders = append(w.placeholders, placeholderEntry{Key: k, Value: v})
	}
	sort.Slice(w.placeholders, func(i, j int) bool { return w.placeholders[i].Key < w.placeholders[j].Key })

	for _, opt := range opts {
		opt(&w)
	}
	w.conn.start()
	return w
}

// Init implements tea.Model.
func (w InitWizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (w InitWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, w.keys.Quit) {
			w.result.Cancelled = true
			return w, tea.Quit
		}
		switch w.step {
		case stepConnection:
			return w.updateConnection(msg)
		case stepTest:
			return w.updateTest(msg)
		case stepProject:
			return w.updateProject(msg)
		case stepPlaceholders:
			return w.updatePlaceholders(msg)
		case stepReview:
			return w.updateReview(msg)
		}
		return w, nil

	case testResultMsg:
		w.testing = false
		w.testInfo = msg.info
		w.testErr = msg.err
		return w, nil

	case spinner.TickMsg:
		if !w.testing {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}

	cmd := w.forward(msg)
	return w, cmd
}

// forward passes non-key messages, such as cursor blinks, to the active input.
func (w *InitWizard) forward(msg tea.Msg) tea.Cmd {
	switch {
	case w.step == stepConnection:
		return w.conn.update(msg)
	case w.step == stepProject:
		return w.project.update(msg)
	case w.step == stepPlaceholders && w.editing:
		return w.phFields.update(msg)
	}
	return nil
}

func (w InitWizard) updateConnection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Back):
		w.result.Cancelled = true
		return w, tea.Quit
	case key.Matches(msg, w.keys.Next):
		cmd, _ := w.conn.next()
		return w, cmd
	case key.Matches(msg, w.keys.Prev):
		cmd := w.conn.prev()
		return w, cmd
	case key.Matches(msg, w.keys.Select):
		if cmd, ok := w.conn.next(); ok {
			return w, cmd
		}
		if _, err := w.port(); err != nil {
			w.validationErr = err.Error()
			return w, nil
		}
		w.validationErr = ""
		if w.conn.value(connDatabase) == "" {
			w.step = stepProject
			cmd := w.project.start()
			return w, cmd
		}
		w.step = stepTest
		w.testing = true
		w.testInfo, w.testErr = "", nil
		return w, tea.Batch(w.spinner.Tick, w.testConnection())
	}
	cmd := w.conn.update(msg)
	return w, cmd
}

func (w InitWizard) updateTest(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if w.testing {
		return w, nil
	}
	switch {
	case key.Matches(msg, w.keys.Select):
		w.step = stepProject
		cmd := w.project.start()
		return w, cmd
	case key.Matches(msg, w.keys.Back):
		w.step = stepConnection
	}
	return w, nil
}

func (w InitWizard) updateProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Back):
		w.validationErr = ""
		w.step = stepConnection
		return w, nil
	case key.Matches(msg, w.keys.Next):
		cmd, _ := w.project.next()
		return w, cmd
	case key.Matches(msg, w.keys.Prev):
		cmd := w.project.prev()
		return w, cmd
	case key.Matches(msg, w.keys.Select):
		if cmd, ok := w.project.next(); ok {
			return w, cmd
		}
		cfg := w.config()
		if err := cfg.Validate(); err != nil {
			w.validationErr = err.Error()
			return w, nil
		}
		w.validationErr = ""
		w.step = stepPlaceholders
		return w, nil
	}
	cmd := w.project.update(msg)
	return w, cmd
}

func (w InitWizard) updatePlaceholders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if w.editing {
		return w.updatePlaceholderEdit(msg)
	}

	switch {
	case key.Matches(msg, w.keys.Up):
		if w.phIdx > 0 {
			w.phIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.phIdx < len(w.placeholders) {
			w.phIdx++
		}
	case key.Matches(msg, w.keys.Select):
		entry := placeholderEntry{}
		if w.phIdx < len(w.placeholders) {
			entry = w.placeholders[w.phIdx]
		}
		w.editing = true
		w.phFields = newFieldSet(
			newField("Placeholder", "APP_SCHEMA", entry.Key),
			newField("Value", "app", entry.Value),
		)
		cmd := w.phFields.start()
		return w, cmd
	case msg.String() == "d":
		if w.phIdx < len(w.placeholders) {
			w.placeholders = append(w.placeholders[:w.phIdx], w.placeholders[w.phIdx+1:]...)
		}
	case msg.String() == "n":
		w.step = stepReview
	case key.Matches(msg, w.keys.Back):
		w.step = stepProject
		cmd := w.project.start()
		return w, cmd
	}
	return w, nil
}

func (w InitWizard) updatePlaceholderEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Back):
		w.editing = false
		return w, nil
	case key.Matches(msg, w.keys.Next):
		cmd, _ := w.phFields.next()
		return w, cmd
	case key.Matches(msg, w.keys.Prev):
		cmd := w.phFields.prev()
		return w, cmd
	case key.Matches(msg, w.keys.Select):
		if cmd, ok := w.phFields.next(); ok {
			return w, cmd
		}
		entry := placeholderEntry{Key: w.phFields.value(0), Value: w.phFields.value(1)}
		if entry.Key != "" {
			if w.phIdx < len(w.placeholders) {
				w.placeholders[w.phIdx] = entry
			} else {
				w.placeholders = append(w.placeholders, entry)
				w.phIdx = len(w.placeholders)
			}
		}
		w.editing = false
		return w, nil
	}
	cmd := w.phFields.update(msg)
	return w, cmd
}

func (w InitWizard) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.result.Config = w.config()
		w.step = stepDone
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = stepPlaceholders
	}
	return w, nil
}

// port parses the port input; empty selects the default port.
func (w InitWizard) port() (int, error) {
	text := w.conn.value(connPort)
	if text == "" {
		return 0, nil
	}
	port, err := strconv.Atoi(text)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %q is not a number between 1 and 65535", text)
	}
	return port, nil
}

// connection returns the connection of the inputs, password included.
func (w InitWizard) connection() *sprocgen.ConnectionConfig {
	port, _ := w.port()
	if port == 0 {
		port = 5432
	}
	host := w.conn.value(connHost)
	if host == "" {
		host = "localhost"
	}
	return &sprocgen.ConnectionConfig{
		Host:     host,
		Port:     port,
		Username: w.conn.value(connUsername),
		Password: w.conn.fields[connPassword].input.Value(),
		Database: w.conn.value(connDatabase),
		SSLMode:  w.conn.value(connSSLMode),
	}
}

// config returns the defaults overlaid with the inputs. The password is left out.
func (w InitWizard) config() config.ProjectConfig {
	port, _ := w.port()
	cfg := w.base
	cfg.Connection.Host = w.conn.value(connHost)
	cfg.Connection.Port = port
	cfg.Connection.Username = w.conn.value(connUsername)
	cfg.Connection.Database = w.conn.value(connDatabase)
	cfg.Connection.SSLMode = w.conn.value(connSSLMode)
	cfg.Source.Directory = w.project.value(projSource)
	cfg.Source.Extension = w.project.value(projExtension)
	cfg.Wrapper.Package = w.project.value(projPackage)
	cfg.Wrapper.Output = w.project.value(projOutput)
	cfg.Placeholders = nil
	if len(w.placeholders) > 0 {
		cfg.Placeholders = make(map[string]string, len(w.placeholders))
		for _, p := range w.placeholders {
			cfg.Placeholders[p.Key] = p.Value
		}
	}
	cfg.ApplyDefaults()
	return cfg
}

type testResultMsg struct {
	info string
	err  error
}

func (w InitWizard) testConnection() tea.Cmd {
	cfg := w.connection()
	tester := w.tester
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		info, err := tester.TestConnection(ctx, cfg)
		return testResultMsg{info: info, err: err}
	}
}

// View implements tea.Model.
func (w InitWizard) View() string {
	var b strings.Builder

	b.WriteString(w.styles.Title.Render("sprocgen - New Project"))
	b.WriteString("\n")

	switch w.step {
	case stepConnection:
		b.WriteString(w.styles.Subtitle.Render("Database connection"))
		b.WriteString("\n")
		b.WriteString(w.conn.view(w.styles))
		b.WriteString(w.viewError())
		b.WriteString(w.styles.Help.Render("tab next • enter continue • esc cancel"))
	case stepTest:
		b.WriteString(w.viewTest())
	case stepProject:
		b.WriteString(w.styles.Subtitle.Render("Project layout"))
		b.WriteString("\n")
		b.WriteString(w.project.view(w.styles))
		b.WriteString(w.viewError())
		b.WriteString(w.styles.Help.Render("tab next • enter continue • esc back"))
	case stepPlaceholders:
		b.WriteString(w.viewPlaceholders())
	case stepReview:
		b.WriteString(w.viewReview())
	}

	return b.String()
}

func (w InitWizard) viewError() string {
	if w.validationErr == "" {
		return ""
	}
	return w.styles.Error.Render("✗ "+w.validationErr) + "\n"
}

func (w InitWizard) viewTest() string {
	cfg := w.connection()
	target := fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)

	switch {
	case w.testing:
		return w.spinner.View() + " Connecting to " + target + "...\n"
	case w.testErr != nil:
		return w.styles.Error.Render("✗ Connection to "+target+" failed: "+w.testErr.Error()) + "\n" +
			w.styles.Help.Render("enter continue anyway • esc edit connection")
	default:
		return w.styles.Success.Render("✓ Connected to "+target) + "\n" +
			w.styles.Description.Render(w.testInfo) + "\n" +
			w.styles.Help.Render("enter continue • esc edit connection")
	}
}

func (w InitWizard) viewPlaceholders() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Placeholders"))
	b.WriteString("\n")
	b.WriteString(w.styles.Description.Render("Values substituted for @NAME@ in routine sources (optional)"))
	b.WriteString("\n\n")

	if w.editing {
		b.WriteString(w.phFields.view(w.styles))
		b.WriteString(w.styles.Help.Render("tab next • enter save • esc cancel"))
		return b.String()
	}

	for i, p := range w.placeholders {
		b.WriteString(w.listItem(i, fmt.Sprintf("%s = %s", p.Key, p.Value)))
	}
	b.WriteString(w.listItem(len(w.placeholders), "+ Add placeholder"))
	b.WriteString(w.styles.Help.Render("\n↑/↓ navigate • enter edit • d delete • n next step • esc back"))
	return b.String()
}

func (w InitWizard) listItem(i int, text string) string {
	if i == w.phIdx {
		return w.styles.Selected.Render("> "+text) + "\n"
	}
	return "  " + w.styles.Unselected.Render(text) + "\n"
}

func (w InitWizard) viewReview() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Review " + config.ConfigFileName))
	b.WriteString("\n\n")

	data, err := yaml.Marshal(w.config())
	if err != nil {
		b.WriteString(w.styles.Error.Render(err.Error()))
	}
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		b.WriteString(w.styles.Description.Render("  " + line))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\nenter save • esc back"))
	return b.String()
}

// Result returns the outcome of the wizard.
func (w InitWizard) Result() InitResult {
	return w.result
}

// RunInitWizard runs the wizard on the terminal.
func RunInitWizard(defaults config.ProjectConfig, opts ...Option) (InitResult, error) {
	p := tea.NewProgram(NewInitWizard(defaults, opts...), tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return InitResult{Cancelled: true}, err
	}
	return model.(InitWizard).Result(), nil
}
