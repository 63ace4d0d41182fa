// conf/validate.go settings validation
package conf

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidationError holds the accumulated validation failures for a settings load.
type ValidationError struct {
	Errors []string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ValidateSettings checks the loaded settings for misconfiguration that would
// only surface later at runtime.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateMainSettings(&settings.Main); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateListenerSettings(&settings.Listener); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateMainSettings(main *MainSettings) error {
	if main.TimeZone != "" {
		if _, err := time.LoadLocation(main.TimeZone); err != nil {
			return fmt.Errorf("main.timezone: unknown timezone %q", main.TimeZone)
		}
	}
	return nil
}

func validateOutputSettings(output *OutputSettings) error {
	if !output.SQLite.Enabled && !output.MySQL.Enabled {
		return fmt.Errorf("output: at least one of sqlite or mysql must be enabled")
	}
	if output.SQLite.Enabled && output.SQLite.Path == "" {
		return fmt.Errorf("output.sqlite.path: path is required when sqlite is enabled")
	}
	if output.MySQL.Enabled {
		if output.MySQL.Host == "" || output.MySQL.Database == "" {
			return fmt.Errorf("output.mysql: host and database are required when mysql is enabled")
		}
	}
	return nil
}

func validateListenerSettings(listener *ListenerSettings) error {
	if listener.MinInterval < 0 {
		return fmt.Errorf("listener.mininterval: must not be negative")
	}
	return nil
}

func validateWebServerSettings(ws *WebServerSettings) error {
	if !ws.Enabled {
		return nil
	}
	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("webserver.port: invalid port %q", ws.Port)
	}
	if ws.Cache.TTL < 0 {
		return fmt.Errorf("webserver.cache.ttl: must not be negative")
	}
	return nil
}
