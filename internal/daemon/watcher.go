package daemon

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"bingwall/internal/events"
	"bingwall/internal/logging"
)

const watcherDebounce = 500 * time.Millisecond

type watcher struct {
	fs *fsnotify.Watcher
}

func (w *watcher) close() {
	if w != nil && w.fs != nil {
		_ = w.fs.Close()
	}
}

// startWatcher watches the directories holding config.json and
// timer_state.json so external edits take effect without a restart.
func (d *Daemon) startWatcher(ctx context.Context) error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(d.state.ConfigPath())
	if err := fs.Add(configDir); err != nil {
		_ = fs.Close()
		return err
	}
	stateDir := filepath.Dir(d.store.Path())
	if stateDir != configDir {
		if err := fs.Add(stateDir); err != nil {
			_ = fs.Close()
			return err
		}
	}
	d.watcher = &watcher{fs: fs}
	d.logger.Info("watching for config and timer state changes",
		logging.String(logging.FieldPath, configDir))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.watchLoop(ctx, fs)
	}()
	return nil
}

func (d *Daemon) watchLoop(ctx context.Context, fs *fsnotify.Watcher) {
	configName := filepath.Base(d.state.ConfigPath())
	stateName := filepath.Base(d.store.Path())

	// Editors and atomic saves produce bursts of events; one debounced
	// reload covers the burst.
	pending := make(map[string]struct{})
	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return
		case event, ok := <-fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if name != configName && name != stateName {
				continue
			}
			pending[name] = struct{}{}
			if debounce == nil {
				debounce = time.NewTimer(d.debounce)
				fire = debounce.C
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(d.debounce)
			}
		case <-fire:
			changed := pending
			pending = make(map[string]struct{})
			debounce = nil
			fire = nil
			d.applyFileChanges(changed, configName, stateName)
		case err, ok := <-fs.Errors:
			if !ok {
				return
			}
			d.logger.Warn("file watcher error", logging.Error(err))
		}
	}
}

func (d *Daemon) applyFileChanges(changed map[string]struct{}, configName, stateName string) {
	if _, ok := changed[configName]; ok {
		cfg, err := d.state.Reload()
		if err != nil {
			logging.WarnWithContext(d.logger, "config reload failed", "config_reload_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix or remove the config file"),
				logging.String(logging.FieldImpact, "the previous config stays live"))
		} else {
			d.logger.Info("config reloaded",
				logging.String(logging.FieldEventType, "config_reloaded"),
				logging.String(logging.FieldMarket, cfg.Market),
				logging.String("wallpaper_dir", cfg.WallpaperDir))
		}
	}
	if _, ok := changed[stateName]; ok {
		st := d.store.Load()
		if st.Enabled != d.state.Timer().IsEnabled() {
			d.state.Timer().Sync(st.Enabled)
			d.hub.Publish(events.TimerStateChanged(st.Enabled))
			d.logger.Info("timer state synced from file",
				logging.String(logging.FieldEventType, "timer_state_synced"),
				logging.Bool("enabled", st.Enabled))
		}
	}
}
