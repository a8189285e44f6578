package runlog

import "github.com/kilianp07/sessionplan/core/factory"

var storeRegistry = factory.NewRegistry[Store]()

// RegisterStore adds a store factory under name.
func RegisterStore(name string, f factory.Factory[Store]) error {
	return storeRegistry.Register(name, f)
}

// NewStore instantiates the store described by cfg.
func NewStore(cfg factory.ModuleConfig) (Store, error) {
	return storeRegistry.Create(cfg)
}

type storeConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

func decode(conf map[string]any) (storeConf, error) {
	var c storeConf
	err := factory.Decode(conf, &c)
	return c, err
}

func init() {
	_ = RegisterStore("jsonl", func(conf map[string]any) (Store, error) {
		c, err := decode(conf)
		if err != nil {
			return nil, err
		}
		return NewJSONLStore(c.Path)
	})
	_ = RegisterStore("rotating", func(conf map[string]any) (Store, error) {
		c, err := decode(conf)
		if err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays, c.Compress)
	})
	_ = RegisterStore("sqlite", func(conf map[string]any) (Store, error) {
		c, err := decode(conf)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
}
