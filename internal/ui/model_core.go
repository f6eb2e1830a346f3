package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spelunkhq/spelunk/internal/searches"
	"github.com/spelunkhq/spelunk/internal/splunk"
	"github.com/spelunkhq/spelunk/internal/theme"
)

var _ tea.Model = (*Model)(nil)

type inputMode int

const (
	modeNormal inputMode = iota
	modeEditing
	modeSaveSearch
	modeLoadSearch
	modeConfirmOverwrite
	modeLocalSearch
	modeThemeSelect
	modeHelp
)

type editorMode int

const (
	editorStandard editorMode = iota
	editorVimNormal
	editorVimInsert
)

type viewMode int

const (
	viewTable viewMode = iota
	viewRaw
)

type viewFocus int

const (
	focusSearch viewFocus = iota
	focusList
	focusDetail
)

const (
	resultPageSize   = 100
	pollInitialDelay  = 250 * time.Millisecond
	pollMaxDelay      = 2 * time.Second
	clockTickInterval = 250 * time.Millisecond
	fastScrollStep   = 10
)

// jobState tracks the one active search job. fetching gates the poll
// task so at most one status or results request is in flight.
type jobState struct {
	sid       string
	createdAt time.Time
	status    *splunk.JobStatus
	fetched   bool
	fetching  bool
	failed    bool
	delay     time.Duration
}

type localFilter struct {
	pattern string
	matches []int
	cursor  int
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(col, row int) bool {
	return col >= r.x && col < r.x+r.w && row >= r.y && row < r.y+r.h
}

type layoutRects struct {
	search rect
	main   rect
	detail rect
}

type Config struct {
	Client    *splunk.Client
	Store     *searches.Store
	Theme     theme.Theme
	Logger    *zap.Logger
	SaveTheme func(name string) error
}

type Model struct {
	cfg    Config
	theme  theme.Theme
	client *splunk.Client
	store  *searches.Store
	logger *zap.Logger

	editor     editorBuffer
	inputMode  inputMode
	editorMode editorMode
	viewMode   viewMode
	viewFocus  viewFocus

	submitSeq    int
	submitting   bool
	job          *jobState
	results      []splunk.Event
	selection    int
	detailScroll int
	scrollOffset int

	filter localFilter

	savedName   string
	saveInput   textinput.Model
	filterInput textinput.Model
	loadList    list.Model
	themeList   list.Model

	detailCache    string
	detailCacheFor int

	status statusMsg
	width  int
	height int
	ready  bool
	layout layoutRects
}

type nameItem string

func (n nameItem) Title() string       { return string(n) }
func (n nameItem) Description() string { return "" }
func (n nameItem) FilterValue() string { return string(n) }

func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	saveInput := textinput.New()
	saveInput.Placeholder = "name"
	saveInput.Prompt = ""
	saveInput.CharLimit = 0

	filterInput := textinput.New()
	filterInput.Placeholder = "regex"
	filterInput.Prompt = "/"
	filterInput.CharLimit = 0

	themeItems := make([]list.Item, 0, len(theme.Names()))
	for _, name := range theme.Names() {
		themeItems = append(themeItems, nameItem(name))
	}
	themeList := newOverlayList(themeItems, "Select Theme")
	loadList := newOverlayList(nil, "Saved Searches")

	return Model{
		cfg:            cfg,
		theme:          cfg.Theme,
		client:         cfg.Client,
		store:          cfg.Store,
		logger:         logger,
		viewMode:       viewTable,
		viewFocus:      focusSearch,
		selection:      -1,
		detailCacheFor: -1,
		saveInput:      saveInput,
		filterInput:    filterInput,
		loadList:       loadList,
		themeList:      themeList,
		status: statusMsg{
			text:  "Press 'q' to quit, 'e' to enter search mode, 't' to change theme.",
			level: statusInfo,
		},
	}
}

func newOverlayList(items []list.Item, title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func (m *Model) setStatus(text string, level statusLevel) {
	m.status = statusMsg{text: text, level: level}
}

// applyLayout recomputes the screen rects used for mouse routing. The
// header is a fixed five rows split 70/30 between editor and sparkline,
// followed by a one-row job summary, the results area, then a status
// row and a one-row footer.
func (m *Model) applyLayout() {
	headerH := 5
	searchW := m.width * 70 / 100
	m.layout.search = rect{x: 0, y: 0, w: searchW, h: headerH}

	contentY := headerH + 1
	contentH := m.height - contentY - 2
	if contentH < 0 {
		contentH = 0
	}
	if m.viewMode == viewTable {
		half := m.width / 2
		m.layout.main = rect{x: 0, y: contentY, w: half, h: contentH}
		m.layout.detail = rect{x: half, y: contentY, w: m.width - half, h: contentH}
	} else {
		m.layout.main = rect{x: 0, y: contentY, w: m.width, h: contentH}
		m.layout.detail = rect{}
	}
}

// editorViewSize reports the inner text window of the query pane.
func (m *Model) editorViewSize() (rows, cols int) {
	rows = m.layout.search.h - 2
	cols = m.layout.search.w - 2
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
