// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SFTPConfig holds the imaging endpoint connection and path layout.
type SFTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	RemoteBase  string `yaml:"remote_base"`  // inbound drop for uploaded attachments
	ReleaseBase string `yaml:"release_base"` // rendered documents and sidecars
	ArchiveBase string `yaml:"archive_base"` // released pairs after registration
	ErrorBase   string `yaml:"error_base"`   // released pairs after a failure
}

// OAuthConfig holds optional client-credentials settings for the downstream
// HTTP clients. When TokenURL is empty the clients use plain HTTP.
type OAuthConfig struct {
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
}

// Config holds all configuration for the handoff service.
type Config struct {
	// Redis
	RedisURL        string
	WorkQueue       string
	ReleaseQueue    string
	DeadLetterQueue string

	// Postgres
	DatabaseURL string

	// Imaging endpoint
	SFTP SFTPConfig

	// Downstream services
	RegistryBaseURL   string
	ValidationBaseURL string
	MailboxBaseURL    string
	OAuth             OAuthConfig

	// Source mailbox
	GraphBaseURL    string
	MailboxUser     string
	ProcessedFolder string
	ErrorFolder     string

	// Import session
	BatchClass      string
	ImportReference string

	// Worker policy
	MaxAttempts  int
	RetryBackoff time.Duration
	CallTimeout  time.Duration

	// HTTP server
	Port int
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Redis struct {
		URL    string `yaml:"url"`
		Queues struct {
			Work       string `yaml:"work"`
			Release    string `yaml:"release"`
			DeadLetter string `yaml:"dead_letter"`
		} `yaml:"queues"`
	} `yaml:"redis"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	SFTP     SFTPConfig `yaml:"sftp"`
	Registry struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"registry"`
	Validation struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"validation"`
	Mailbox struct {
		BaseURL         string `yaml:"base_url"`
		GraphBaseURL    string `yaml:"graph_base_url"`
		User            string `yaml:"user"`
		ProcessedFolder string `yaml:"processed_folder"`
		ErrorFolder     string `yaml:"error_folder"`
	} `yaml:"mailbox"`
	OAuth         OAuthConfig `yaml:"oauth"`
	ImportSession struct {
		BatchClass string `yaml:"batch_class"`
		Reference  string `yaml:"reference"`
	} `yaml:"import_session"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// environment variables for non-YAML settings.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "/app/config/config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	// Expand ${VAR} references in the YAML
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	cfg := &Config{
		RedisURL:        firstNonEmpty(raw.Redis.URL, envOrDefault("REDIS_URL", "redis://localhost:6379/0")),
		WorkQueue:       firstNonEmpty(raw.Redis.Queues.Work, envOrDefault("WORK_QUEUE", "handoff.work")),
		ReleaseQueue:    firstNonEmpty(raw.Redis.Queues.Release, envOrDefault("RELEASE_QUEUE", "handoff.release")),
		DeadLetterQueue: firstNonEmpty(raw.Redis.Queues.DeadLetter, envOrDefault("DEAD_LETTER_QUEUE", "handoff.dead")),
		DatabaseURL:     firstNonEmpty(raw.Database.URL, os.Getenv("DATABASE_URL")),

		SFTP: raw.SFTP,

		RegistryBaseURL:   firstNonEmpty(raw.Registry.BaseURL, os.Getenv("REGISTRY_BASE_URL")),
		ValidationBaseURL: firstNonEmpty(raw.Validation.BaseURL, os.Getenv("VALIDATION_BASE_URL")),
		MailboxBaseURL:    firstNonEmpty(raw.Mailbox.BaseURL, os.Getenv("MAILBOX_BASE_URL")),
		OAuth:             raw.OAuth,

		GraphBaseURL:    firstNonEmpty(raw.Mailbox.GraphBaseURL, envOrDefault("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0")),
		MailboxUser:     firstNonEmpty(raw.Mailbox.User, os.Getenv("MAILBOX_USER")),
		ProcessedFolder: firstNonEmpty(raw.Mailbox.ProcessedFolder, "archive"),
		ErrorFolder:     firstNonEmpty(raw.Mailbox.ErrorFolder, "deleteditems"),

		BatchClass:      firstNonEmpty(raw.ImportSession.BatchClass, "EmailImport"),
		ImportReference: firstNonEmpty(raw.ImportSession.Reference, envOrDefault("IMPORT_REFERENCE", "TBD")),

		MaxAttempts:  envOrDefaultInt("WORKER_MAX_ATTEMPTS", 3),
		RetryBackoff: envOrDefaultDuration("WORKER_RETRY_BACKOFF", 5*time.Second),
		CallTimeout:  envOrDefaultDuration("COLLABORATOR_TIMEOUT", 30*time.Second),
		Port:         envOrDefaultInt("PORT", 8080),
	}

	if cfg.SFTP.Port == 0 {
		cfg.SFTP.Port = 22
	}

	if cfg.SFTP.Host == "" {
		return nil, fmt.Errorf("sftp.host is required — the pipeline cannot run without the imaging endpoint")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database.url is required — dead-letter records need Postgres")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
