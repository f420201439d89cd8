package jsonserver

import "taskboard/internal/config"

func newTestConfig(baseURL string) *config.Config {
	cfg := config.New("")
	cfg.BaseURL = baseURL
	return cfg
}
