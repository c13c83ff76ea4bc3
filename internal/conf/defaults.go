// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "flugtracker")

	// Default station is EDTW, radius 5 NM
	viper.SetDefault("station.latitude", 48.2789)
	viper.SetDefault("station.longitude", 8.4294)
	viper.SetDefault("station.radiusnm", 5.0)

	viper.SetDefault("feed.provider", "aggregator")
	viper.SetDefault("feed.receiverurl", "http://localhost:8080/data/aircraft.json")
	viper.SetDefault("feed.aggregatorurl", "https://api.adsb.lol")
	viper.SetDefault("feed.timeout", 5)

	viper.SetDefault("typedb.path", "aircraft_types.csv")
	viper.SetDefault("typedb.remoteurl", "https://www4.icao.int/doc8643/External/AircraftTypes")
	viper.SetDefault("typedb.refreshdays", 180)
	viper.SetDefault("typedb.cachettl", 60)

	viper.SetDefault("tracker.pollinterval", 300)
	viper.SetDefault("tracker.retention.interval", 86400)
	viper.SetDefault("tracker.retention.maxage", "90d")

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic", "flugtracker/observations")
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.retain", false)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "0.0.0.0:8090")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "flugtracker.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "flugtracker")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "flugtracker")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
}
