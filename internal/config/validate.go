package config

import (
	"errors"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateSummary(); err != nil {
		return err
	}
	if err := c.validatePlanning(); err != nil {
		return err
	}
	return c.validateWhisper()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.UploadDir) == "" {
		return errors.New("paths.upload_dir must be set")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.ConfidenceThreshold < 0 || c.Analysis.ConfidenceThreshold > 1 {
		return errors.New("analysis.confidence_threshold must be between 0 and 1")
	}
	if c.Analysis.TopTopics <= 0 {
		return errors.New("analysis.top_topics must be positive")
	}
	return nil
}

func (c *Config) validateSummary() error {
	if c.Summary.MaxSentences <= 0 {
		return errors.New("summary.max_sentences must be positive")
	}
	return nil
}

func (c *Config) validatePlanning() error {
	if c.Planning.DefaultDurationDays <= 0 {
		return errors.New("planning.default_duration_days must be positive")
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if strings.TrimSpace(c.Whisper.Binary) == "" {
		return errors.New("whisper.binary must be set")
	}
	return nil
}
