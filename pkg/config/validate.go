package config

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/pipeline"
	"github.com/matzehuels/kmltool/pkg/proj"
)

// minThreshold keeps a split from producing one archive per placemark.
const minThreshold = 1024

var kmlName = regexp.MustCompile(`(?i)\.kml$`)

// Validate checks every section.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Export),
		validation.Field(&c.Convert),
		validation.Field(&c.Cache),
		validation.Field(&c.Log),
	)
}

// Validate checks the export section.
func (e Export) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Threshold, validation.Required, validation.Min(minThreshold)),
		validation.Field(&e.Mode, validation.Required, validation.In(pipeline.ModeEarth, pipeline.ModeMaps)),
		validation.Field(&e.DocName,
			validation.Match(kmlName).Error("must end in .kml"),
			validation.By(archivePath),
		),
	)
}

// Validate checks that the reference system has a transform.
func (c Convert) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CRS, validation.Required, validation.By(knownCRS)),
	)
}

// Validate checks the cache section. The directory is only required when
// the cache is enabled.
func (c Cache) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Dir, validation.When(!c.Disabled, validation.Required)),
		validation.Field(&c.TTL, validation.Min(0)),
	)
}

// Validate checks the log level name.
func (l Log) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
	)
}

func knownCRS(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := proj.Lookup(s); err != nil {
		return errors.New(apperr.UserMessage(err))
	}
	return nil
}

func archivePath(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if err := apperr.ValidateArchivePath(s); err != nil {
		return errors.New(apperr.UserMessage(err))
	}
	return nil
}
