package params

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/xrplkit/walletconsole/log"
)

// WatchConfig reloads the config file when it is rewritten on disk,
// so console lists (networks, alert targets) can be edited without restart.
// The returned stop function closes the watcher.
func WatchConfig() (stop func(), err error) {
	if configFilePath == "" {
		log.Warn("config file path is empty, nothing to watch")
		return func() {}, nil
	}

	watch, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("fsnotify.NewWatcher failed", "err", err)
		return nil, err
	}

	// watch the directory, editors often replace the file on save
	err = watch.Add(filepath.Dir(configFilePath))
	if err != nil {
		log.Error("watch.Add config dir failed", "err", err)
		_ = watch.Close()
		return nil, err
	}

	done := make(chan struct{})
	go startWatcher(watch, done)
	return func() { close(done) }, nil
}

func startWatcher(watch *fsnotify.Watcher, done <-chan struct{}) {
	log.Info("start fsnotify watch", "configFile", configFilePath)
	defer func() {
		log.Info("stop fsnotify watch")
		_ = watch.Close()
	}()

	ops := []fsnotify.Op{
		fsnotify.Create,
		fsnotify.Write,
	}

	for {
		select {
		case <-done:
			return
		case ev, ok := <-watch.Events:
			if !ok {
				continue
			}
			log.Trace("fsnotify watch event", "event", ev)
			for _, op := range ops {
				if ev.Op&op == op {
					if err := reloadIfConfigFile(ev.Name); err != nil {
						log.Info("reload config error", "configFile", ev.Name, "err", err)
					}
					break
				}
			}
		case werr, ok := <-watch.Errors:
			if !ok {
				continue
			}
			log.Warn("fsnotify watch error", "err", werr)
		}
	}
}

func reloadIfConfigFile(fileName string) error {
	if !strings.HasSuffix(fileName, ".toml") {
		return nil
	}
	if filepath.Clean(fileName) != filepath.Clean(configFilePath) {
		return nil
	}
	fileStat, _ := os.Stat(fileName)
	// ignore if file does not exist, or is a directory, or is an empty file
	if fileStat == nil || fileStat.IsDir() || fileStat.Size() == 0 {
		return nil
	}
	return ReloadConfig()
}
