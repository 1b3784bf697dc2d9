// Package confloader loads configuration with koanf and watches the
// configuration file with fsnotify.
//
// Sources, lowest to highest priority:
//
//  1. Defaults (LoadMap before Load)
//  2. YAML configuration file
//  3. REDISKV_ environment variables
//  4. Command-line flags (LoadMap after Load)
//
// Environment variables map to keys by splitting the section at the first
// underscore: REDISKV_SERVER_READ_TIMEOUT sets server.read_timeout.
package confloader
