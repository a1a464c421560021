// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/keranjang/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/keranjang/config.cue on macOS,
// %APPDATA%\keranjang\config.cue on Windows). It selects the storage backend, the member
// directory feed, the product lookup endpoint and network timeout, the history capacity
// and UI settings. KERANJANG_* environment variables override single keys, for example
// KERANJANG_STORAGE_BACKEND=memory.
//
// The file is validated against an embedded CUE schema (config_schema.cue) before it is
// merged over the defaults.
package config
