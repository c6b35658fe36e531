// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for campus.
//
// # Key Types
//
//   - Config: all settings, grouped by section
//   - APIConfig: backend base URL and timeout
//   - SessionConfig: session store backend selection
//   - DashboardConfig: sample-data fallback
//   - ServerConfig: development backend (campus serve)
//
// # Configuration Precedence
//
// Highest first:
//   - Environment variables (CAMPUS_*)
//   - .env in the working directory, then ~/.campus/.env
//   - ~/.campus/config.toml
//   - Built-in defaults
//
// CAMPUS_HOME relocates ~/.campus.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(cfg.API.BaseURL, store).WithTimeout(cfg.API.Timeout())
package config
