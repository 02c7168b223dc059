// Package file provides the TOML file implementation of driven.ConfigStore.
//
// Settings live in ~/.courtfetch/config.toml. Tables are flattened into
// dot-notation keys on load ([ingest] max_pages becomes "ingest.max_pages")
// and nested again on save. Watch reloads the file when another process or
// an editor changes it.
package file
