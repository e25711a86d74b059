// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/fjordsync/internal/adapters/barentswatch"
	_ "go.trai.ch/fjordsync/internal/adapters/config"
	_ "go.trai.ch/fjordsync/internal/adapters/fiskeridir"
	_ "go.trai.ch/fjordsync/internal/adapters/geonorge"
	_ "go.trai.ch/fjordsync/internal/adapters/httpclient"
	_ "go.trai.ch/fjordsync/internal/adapters/logger"
	_ "go.trai.ch/fjordsync/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/fjordsync/internal/app"
	_ "go.trai.ch/fjordsync/internal/cache"
	_ "go.trai.ch/fjordsync/internal/engine/offline"
	_ "go.trai.ch/fjordsync/internal/engine/zones"
)
