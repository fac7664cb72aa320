package config

import (
	"net/url"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/pipeline"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateArchive() error {
	u, err := url.Parse(c.Archive.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "archive.base_url must be an absolute URL, got %q", c.Archive.BaseURL)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "file":
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.dir must be set for the file backend")
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr must be set for the redis backend")
		}
	case "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis, or none, got %q", c.Cache.Backend)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "file":
		if c.Store.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.dir must be set for the file backend")
		}
	case "mongo":
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri must be set for the mongo backend")
		}
		if c.Store.MongoDatabase == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_database must be set for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend must be file or mongo, got %q", c.Store.Backend)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if err := pipeline.ValidateViz(c.Output.Viz); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Output.Formats); err != nil {
		return err
	}
	if err := pipeline.ValidateVizFormats(c.Output.Viz, c.Output.Formats); err != nil {
		return err
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "output.width and output.height must be positive")
	}
	return nil
}
