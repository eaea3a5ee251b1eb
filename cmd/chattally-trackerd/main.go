// @title         Chattally Tracker
// @version       0.1.0
// @description   Capture ingest, usage correlation, and remote sync daemon

package main

import (
	"context"

	"chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	"chattally/internal/modkit/module"
	"chattally/internal/modkit/repokit"
	"chattally/internal/platform/config"
	"chattally/internal/platform/logger"
	phttp "chattally/internal/platform/net/http"
	"chattally/internal/platform/store"

	"chattally/internal/adapters/alerts"

	confirmdom "chattally/internal/services/confirm/domain"
	confirmmod "chattally/internal/services/confirm/module"
	confirmrepo "chattally/internal/services/confirm/repo"
	pendingmod "chattally/internal/services/pending/module"
	pendingrepo "chattally/internal/services/pending/repo"
	settingshttp "chattally/internal/services/settings/http"
	settingsmod "chattally/internal/services/settings/module"
	settingsrepo "chattally/internal/services/settings/repo"
	syncdom "chattally/internal/services/sync/domain"
	syncmod "chattally/internal/services/sync/module"
	trackerdom "chattally/internal/services/tracker/domain"
	trackermod "chattally/internal/services/tracker/module"
	usagedom "chattally/internal/services/usage/domain"
	usagemod "chattally/internal/services/usage/module"
	usagerepo "chattally/internal/services/usage/repo"
)

func main() {
	root := config.New()
	trackerCfg := root.Prefix("CORE_TRACKER_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	// clickhouse is an optional audit sink; absent DBURL disables it
	chURL := chCfg.MayString("DBURL", "")

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "chattally",
			ClientTag:  "trackerd",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	ctx := context.Background()
	for _, ensure := range []func(context.Context, repokit.Queryer) error{
		settingsrepo.EnsureSchema,
		usagerepo.EnsureSchema,
		pendingrepo.EnsureSchema,
		confirmrepo.EnsureSchema,
	} {
		if err := ensure(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("schema setup failed")
		}
	}

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	notif := alerts.NewLogNotifier()

	// build order follows the port graph: settings -> usage -> sync -> confirm -> tracker
	sm := settingsmod.New(deps)
	settingsPorts := module.MustPortsOf[settingsmod.Ports](sm)

	pm := pendingmod.New(deps)
	pendingPorts := module.MustPortsOf[pendingmod.Ports](pm)

	um := usagemod.New(deps, modkit.WithPorts(usagedom.Ports{
		Settings: settingsPorts.Reader,
		Notifier: notif,
	}))
	usagePorts := module.MustPortsOf[usagemod.Ports](um)

	sy := syncmod.New(deps, modkit.WithPorts(syncdom.Ports{
		Reader: usagePorts.Reader,
		Merger: usagePorts.Merger,
	}))
	syncPorts := module.MustPortsOf[syncmod.Ports](sy)

	cm := confirmmod.New(deps, modkit.WithPorts(confirmdom.Ports{
		Pending:  pendingPorts.Store,
		Recorder: usagePorts.Recorder,
		Pusher:   syncPorts.Engine,
	}))
	confirmPorts := module.MustPortsOf[confirmmod.Ports](cm)

	tm := trackermod.New(deps, modkit.WithPorts(trackerdom.Ports{
		Settings: settingsPorts.Reader,
		Pending:  pendingPorts.Store,
		Detector: confirmPorts.Detector,
		Reader:   usagePorts.Reader,
		Recorder: usagePorts.Recorder,
		Sync:     syncPorts.Engine,
		Notifier: notif,
	}))

	for _, m := range []module.Module{sm, pm, um, sy, cm, tm} {
		module.Register(m.Name(), m.Ports())
	}

	engine := tm.Engine()
	if err := engine.Bootstrap(ctx); err != nil {
		l.Panic().Err(err).Msg("engine bootstrap failed")
	}
	go func() {
		if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("engine stopped")
		}
	}()
	go func() {
		if err := engine.RunReminders(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("reminder loop stopped")
		}
	}()

	// http server (reads CORE_TRACKER_PORT / CORE_TRACKER_ADDR)
	srv := phttp.NewServer(trackerCfg)

	httpkit.MountAPIV1(srv.Router(), httpkit.CommonStack(), func(api httpkit.Router) {
		tm.MountRoutes(api)
		settingshttp.Register(api, settingsPorts.Reader, settingsPorts.Writer)
	})

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
