package ranges

import _ "embed"

// bundledRanges is a snapshot of the International ISBN Agency's range
// allocation, trimmed to the GS1 prefix tables plus the most common group
// tables. It keeps the provider useful offline; configure a URL and call
// Refresh (or Start) to serve the full, current allocation instead.
//
//go:embed ranges.json
var bundledRanges []byte
