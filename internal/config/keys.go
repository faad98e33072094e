package config

// Viper keys. AutomaticEnv maps each key to its upper-cased environment variable
// (odoo_url -> ODOO_URL).
const (
	KeyURL           = "odoo_url"
	KeyDatabase      = "odoo_db"
	KeyUser          = "odoo_user"
	KeyPassword      = "odoo_password"
	KeyTimeout       = "odoo_timeout"
	KeyUserAgent     = "odoo_user_agent"
	KeyMaxConcurrent = "odoo_max_concurrent"
	KeyLogLevel      = "log_level"
	KeyAuthToken     = "mcp_auth_token"
	KeyHTTPAddr      = "mcp_http_addr"
	KeyEnvFile       = "env_file"
)
