// Package migrations embeds the SQL schema applied by the API server and hrmsctl.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
