// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "DoveWatch")
	viper.SetDefault("main.timezone", "")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/dovewatch.log")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "dove_events.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "dovewatch")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.database", "dovewatch")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("listener.enabled", false)
	viper.SetDefault("listener.species", "Spotted Dove")
	viper.SetDefault("listener.mininterval", 1.0)
	viper.SetDefault("listener.clippath", "clips/")

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic", "dovewatch/detections")
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.retain", false)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.cache.enabled", true)
	viper.SetDefault("webserver.cache.ttl", 30)

	viper.SetDefault("report.outputpath", "reports/")
}
