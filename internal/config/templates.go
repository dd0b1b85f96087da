package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Investment Appointment Configuration

[business]
# Currency whose amounts carry no minor unit
local_currency = "TWD"
# Minimum whole-number percentage per buy allocation
min_buy_percent = 5
# Supervisor authorization code required to approve records
auth_code = "0231"
# Minimum authorization level
auth_level = 1

[database]
# SQLite database path. Empty uses <configdir>/appoint.db
path = ""

[ui]
# Enable colored output
color_enabled = true
# Time format
time_format = "15:04:05"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log file path. Empty uses <configdir>/logs/appoint.log
file_path = ""
max_size_mb = 10
max_backups = 5
max_age_days = 30
# Also log to the console
console = false

[operator]
# Operator user ID stamped onto approved records.
# Overridable with APPOINT_USER.
user_id = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}
