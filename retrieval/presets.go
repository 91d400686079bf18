package retrieval

import (
	"reschool-widgets/config"
	"reschool-widgets/db"
)

// DesktopChain is the macOS-style order: the shared store, then the file in
// the group container, then the file in application support. File sources
// whose base directory is not configured are left out.
func DesktopChain(cfg *config.Config, store db.Store) *Chain {
	c := &Chain{Timeout: cfg.SourceTimeout}
	if store != nil {
		c.Sources = append(c.Sources, StoreSource{Label: sharedStoreLabel, Store: store})
	}
	if cfg.GroupDir != "" {
		c.Sources = append(c.Sources, FileSource{Label: groupFileLabel, Dir: SharedDataDir(cfg.GroupDir)})
	}
	if cfg.AppSupportDir != "" {
		c.Sources = append(c.Sources, FileSource{Label: appSupportLabel, Dir: AppSupportDataDir(cfg.AppSupportDir)})
	}
	return c
}

// MobileChain reads only the shared store, like SharedPreferences or App
// Group defaults on phones.
func MobileChain(cfg *config.Config, store db.Store) *Chain {
	c := &Chain{Timeout: cfg.SourceTimeout}
	if store != nil {
		c.Sources = append(c.Sources, StoreSource{Label: sharedStoreLabel, Store: store})
	}
	return c
}

// ChainFor picks the preset for the configured platform.
func ChainFor(cfg *config.Config, store db.Store) *Chain {
	if cfg.Platform == config.PlatformMobile {
		return MobileChain(cfg, store)
	}
	return DesktopChain(cfg, store)
}
