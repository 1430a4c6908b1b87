package main

import (
	"context"
	"errors"
	"fmt"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
	log "github.com/sirupsen/logrus"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"knp-timelapse/internal/common"
	"knp-timelapse/internal/config"
	"knp-timelapse/internal/engine/bridge"
	"knp-timelapse/internal/handlers/tileserver"
	"knp-timelapse/internal/logging"
	"knp-timelapse/internal/mapview"
	"knp-timelapse/internal/site"
	"knp-timelapse/internal/throttle"
)

// Linker flags
var (
	PostHogKey  string
	PostHogHost string
	AppVersion  string = "0.0.0-dev"
)

// EventState is emitted to the frontend after every view state transition
const EventState = "mapview:state"

// ErrNoSite is returned by map calls when the site file could not be loaded
var ErrNoSite = errors.New("no site loaded")

// DateOption is one entry of the date selector
type DateOption struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	TileCount int    `json:"tileCount"`
}

// MapConfig is what the frontend needs to create the map
type MapConfig struct {
	AccessToken string           `json:"accessToken"`
	StyleURL    string           `json:"styleURL"`
	Viewport    mapview.Viewport `json:"viewport"`
	Dates       []DateOption     `json:"dates"`
	CurrentDate string           `json:"currentDate"`
	ThrottleMS  int              `json:"throttleMS"`
}

// StateView is the view state as the frontend renders it
type StateView struct {
	mapview.State
	ShowProgress  bool     `json:"showProgress"`
	VisibleLayers []string `json:"visibleLayers"`
}

// App struct
type App struct {
	ctx        context.Context
	settings   *config.UserSettings
	site       *site.Site
	view       *mapview.View
	engine     *bridge.Engine
	tileServer *tileserver.Server
	phClient   posthog.Client
	resize     func(f func())
	emit       func(event string, data ...interface{})
	mu         sync.Mutex
	log        *log.Entry
}

// NewApp creates a new App application struct
func NewApp() *App {
	logging.Setup()
	config.LoadEnv()
	l := log.WithField("component", "app")

	// Load user settings
	settings, err := config.LoadSettings()
	if err != nil {
		l.WithError(err).Warn("failed to load settings, using defaults")
		settings = config.DefaultSettings()
	}
	l.WithField("path", config.GetSettingsPath()).Info("settings loaded")

	st, err := site.Load(settings.SiteFile)
	if err != nil {
		l.WithError(err).Error("failed to load site, the map will stay empty")
		st = nil
	} else {
		if err := st.Validate(); err != nil {
			l.WithError(err).Warn("site has problems")
		}
		l.WithFields(log.Fields{
			"dates": len(st.Data),
			"tiles": st.TileCount(),
		}).Info("site loaded")
	}

	// Initialize PostHog
	var phClient posthog.Client
	if PostHogKey != "" {
		phConfig := posthog.Config{
			Endpoint: PostHogHost,
		}
		client, err := posthog.NewWithConfig(PostHogKey, phConfig)
		if err != nil {
			l.WithError(err).Warn("failed to initialize PostHog")
		} else {
			phClient = client
		}
	}

	return &App{
		settings:   settings,
		site:       st,
		tileServer: tileserver.NewServer(settings.StaticDir),
		phClient:   phClient,
		resize:     throttle.New(time.Duration(settings.ResizeThrottleMS) * time.Millisecond).Do,
		log:        l,
	}
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.emit = func(event string, data ...interface{}) {
		wailsRuntime.EventsEmit(ctx, event, data...)
	}

	if a.site != nil {
		a.engine = bridge.New(bridge.NewWailsBus(ctx))
		a.attachView(a.engine)
	}

	// Track app start
	a.TrackEvent("app_started", map[string]interface{}{
		"version": a.GetAppVersion(),
		"os":      goruntime.GOOS,
		"arch":    goruntime.GOARCH,
	})
}

// attachView creates the map view over engine
func (a *App) attachView(engine mapview.Engine) {
	opts := mapview.DefaultOptions()
	opts.ReferenceLayer = a.settings.ReferenceLayer
	opts.BoundaryColor = a.settings.BoundaryColor
	opts.BoundaryWidth = a.settings.BoundaryWidth
	opts.InitialViewport = mapview.Viewport{
		Zoom:      a.settings.DefaultZoom,
		Latitude:  a.settings.DefaultCenterLat,
		Longitude: a.settings.DefaultCenterLon,
	}
	opts.InitialDate = a.initialDate()
	opts.OnChange = func(s mapview.State) {
		if a.emit != nil {
			a.emit(EventState, a.stateView(s))
		}
	}

	a.mu.Lock()
	a.view = mapview.New(a.site, engine, opts)
	a.mu.Unlock()
}

func (a *App) initialDate() string {
	if a.settings.DefaultDate != "" {
		return a.settings.DefaultDate
	}
	if dates := a.site.Dates(); len(dates) > 0 {
		return dates[0]
	}
	return ""
}

func (a *App) mapView() (*mapview.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view == nil {
		return nil, ErrNoSite
	}
	return a.view, nil
}

func (a *App) stateView(s mapview.State) StateView {
	visible := make([]string, 0)
	for _, lv := range mapview.Visibilities(s, a.site) {
		if lv.Visibility == mapview.VisibilityVisible {
			visible = append(visible, lv.ID)
		}
	}
	return StateView{
		State:         s,
		ShowProgress:  s.ShowProgress(),
		VisibleLayers: visible,
	}
}

// GetMapConfig returns the access token, style and initial camera
func (a *App) GetMapConfig() (MapConfig, error) {
	v, err := a.mapView()
	if err != nil {
		return MapConfig{}, err
	}
	s := v.State()

	dates := make([]DateOption, 0, len(a.site.Data))
	for _, d := range a.site.Data {
		dates = append(dates, DateOption{
			Date:      d.Date,
			Label:     common.DisplayLabel(d.Date),
			TileCount: len(d.Tiles),
		})
	}

	return MapConfig{
		AccessToken: config.AccessToken(),
		StyleURL:    a.settings.StyleURL,
		Viewport:    s.Viewport,
		Dates:       dates,
		CurrentDate: s.CurrentDate,
		ThrottleMS:  a.settings.ResizeThrottleMS,
	}, nil
}

// GetState returns the current view state
func (a *App) GetState() (StateView, error) {
	v, err := a.mapView()
	if err != nil {
		return StateView{}, err
	}
	return a.stateView(v.State()), nil
}

// SelectDate shows the tiles of date
func (a *App) SelectDate(date string) (StateView, error) {
	v, err := a.mapView()
	if err != nil {
		return StateView{}, err
	}

	s := v.SelectDate(date)
	a.TrackEvent("date_selected", map[string]interface{}{
		"date":  date,
		"known": a.site.HasDate(date),
	})
	return a.stateView(s), nil
}

// OnViewportChange replaces the viewport after a drag, zoom or navigation
// control interaction
func (a *App) OnViewportChange(vp mapview.Viewport) error {
	v, err := a.mapView()
	if err != nil {
		return err
	}
	v.SetViewport(vp)
	return nil
}

// OnResize records a container resize. During a burst the size is applied at
// most once per throttle interval, and the final size always lands.
func (a *App) OnResize(width, height int) error {
	v, err := a.mapView()
	if err != nil {
		return err
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	a.resize(func() {
		v.Resize(width, height)
	})
	return nil
}

// TrackEvent sends an event to PostHog
func (a *App) TrackEvent(event string, props map[string]interface{}) {
	if a.phClient != nil {
		a.phClient.Enqueue(posthog.Capture{
			DistinctId: "backend_user",
			Event:      event,
			Properties: props,
		})
	}
}

// shutdown cleans up resources
func (a *App) shutdown(ctx context.Context) {
	if a.engine != nil {
		a.engine.Close()
	}
	if err := a.tileServer.Close(); err != nil {
		a.log.WithError(err).Warn("failed to stop tile server")
	}
	if a.phClient != nil {
		a.phClient.Close()
	}
}

// GetAppVersion returns the current application version
func (a *App) GetAppVersion() string {
	return AppVersion
}
