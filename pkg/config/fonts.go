package config

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/qlabel/pkg/fonts"
)

// FontTable builds the font table: the built-in Go fonts, then every
// [[fonts]] entry. Entries whose file cannot be located or parsed are
// logged and skipped. The default font is the first of
// label.default_fonts that is present.
func (c *Config) FontTable(logger *log.Logger) (*fonts.Table, error) {
	b := fonts.NewBuilder()
	if err := b.AddBuiltin(); err != nil {
		return nil, err
	}

	for _, ff := range c.Fonts {
		path, err := fonts.Locate(ff.File, c.Server.AdditionalFontFolder)
		if err != nil {
			logger.Warn("skipping font", "family", ff.Family, "style", ff.Style, "err", err)
			continue
		}
		f, err := fonts.Load(ff.Family, ff.Style, path)
		if err != nil {
			logger.Warn("skipping font", "family", ff.Family, "style", ff.Style, "path", path, "err", err)
			continue
		}
		b.Add(f)
		logger.Debug("loaded font", "font", f.Name(), "path", path)
	}

	table, err := b.Build(c.Label.DefaultFonts)
	if err != nil {
		return nil, err
	}
	if table.DefaultIsFallback() {
		logger.Error("could not find any of the default fonts", "default", table.Default().String())
	} else {
		logger.Debug("selected default font", "font", table.Default().String())
	}
	return table, nil
}
