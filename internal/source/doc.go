// Package source routes dataset URLs to the handler able to fetch them.
//
// Handlers are tried in registration order and the first one whose
// CanHandle accepts the URL performs the fetch. Payloads land in the
// project's raw data folder; sidecar metadata lands in the external folder.
//
// Two handlers ship by default:
//   - PlatformHandler: hosted dataset platform URLs (Kaggle API compatible)
//   - DirectDownloadHandler: plain tabular files and download links
//
// A remote "not found" is soft: the handler logs it and returns the raw
// destination without error so the enclosing command can carry on.
package source
