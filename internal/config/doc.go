// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package config loads Wanderlens configuration with Koanf v2.

Sources are layered with clear precedence (environment > file > defaults):

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Config File:

The first file found among CONFIG_PATH, ./config.yaml, ./config.yml,
/etc/wanderlens/config.yaml and /etc/wanderlens/config.yml is loaded.

	cache:
	  memory_budget_mb: 50
	  max_age: 24h
	stream:
	  budget_mb: 500
	providers:
	  order: [unsplash, pexels]
	  pexels:
	    enabled: true
	    base_url: https://api.pexels.com

Environment Variables:

Only variables listed in the env mapping table are read, for example
CACHE_MEMORY_BUDGET_MB, STREAM_BUDGET_MB, PEXELS_API_KEY, HTTP_PORT and
LOG_LEVEL. PROVIDER_ORDER and CORS_ORIGINS take comma-separated lists.
*/
package config
