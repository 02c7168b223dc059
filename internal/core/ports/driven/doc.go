// Package driven declares what the core needs from the outside world:
// persistence (CaseStore), the court portal (CaseScraper), bounded document
// download (Downloader), text extraction (TextExtractor) and configuration
// (ConfigStore).
//
// Metrics is optional; services skip recording when it is nil.
//
// This package may import domain and nothing else from the module.
package driven
