package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# Mapathon configuration

# The name of the server.
name: "{{ .Name }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# The HTTP API configuration.
http:
  # Serve the JSON API.
  enabled: {{ .HTTP.Enabled }}

  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The public URL of the HTTP server.
  public_url: "{{ .HTTP.PublicURL }}"

# The stats server configuration.
stats:
  # Serve Prometheus metrics.
  enabled: {{ .Stats.Enabled }}

  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# The database configuration.
db:
  # The database driver to use.
  # Valid values are "sqlite", "postgres", and "pgx".
  driver: "{{ .DB.Driver }}"
  # The database data source name.
  # This is driver specific and can be a file path or connection string.
  data_source: "{{ .DB.DataSource }}"

# Team formation defaults.
formation:
  # Team size used when none is given.
  default_team_size: {{ .Formation.DefaultTeamSize }}
  # Shuffle seed. 0 picks a new seed for every formation.
  seed: {{ .Formation.Seed }}

# Region catalog.
catalog:
  # YAML or CSV file, or an s3://bucket/key URL.
  source: "{{ .Catalog.Source }}"
  s3:
    region: "{{ .Catalog.S3.Region }}"
    # Custom endpoint for S3 compatible storage.
    endpoint: "{{ .Catalog.S3.Endpoint }}"
    use_path_style: {{ .Catalog.S3.UsePathStyle }}

# Scheduled jobs.
jobs:
  # Integrity sweep schedule. Leave empty to disable.
  integrity_sweep: "{{ .Jobs.IntegritySweep }}"
`))

func newConfigFile(cfg *Config) string {
	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck
	return b.String()
}
