// Package config provides the configuration for tessera.
//
// Configuration is resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TESSERA_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← tessera.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load("tessera.toml")
//	if err != nil {
//	    return err
//	}
//	opts := renderer.Options{MaxFPS: cfg.Render.MaxFPS}
package config
