package main

import (
	"flag"
	"glucotrend/glucorisk/defs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Secrets go to the env file; everything else to the docker config.
func main() {
	dexcomAccount := flag.String("dexcom-account", "", "dexcom account")
	dexcomPassword := flag.String("dexcom-password", "", "dexcom password")
	dexcomSync := flag.Duration("dexcom-sync", 0, "dexcom sync interval, 0 to disable")

	discordToken := flag.String("discord-token", "", "discord token")
	discordGuild := flag.String("discord-guild", "", "discord guild id")

	glucoseLow := flag.Float64("glucose-low", defs.DefaultGlucoseLow, "lower bound for glucose in mg/dL")
	glucoseHigh := flag.Float64("glucose-high", defs.DefaultGlucoseHigh, "upper bound for glucose in mg/dL")

	addr := flag.String("addr", defs.DefaultAddr, "http listen address")
	maxUpload := flag.Int64("max-upload", defs.DefaultMaxUploadBytes, "max upload size in bytes")
	timezone := flag.String("timezone", "America/Toronto", "timezone for reports")

	configOut := flag.String("config-out", "docker-config.yaml", "config file to write")
	envOut := flag.String("env-out", "glucorisk.env", "env file to write")

	flag.Parse()

	cfg := defs.Config{
		Server: defs.ServerConfig{
			Addr:           *addr,
			MaxUploadBytes: *maxUpload,
		},
		Dexcom: defs.DexcomConfig{
			Account:      *dexcomAccount,
			SyncInterval: *dexcomSync,
		},
		Discord: defs.DiscordConfig{
			Guild: *discordGuild,
		},
		Glucose: defs.GlucoseConfig{
			Low:  *glucoseLow,
			High: *glucoseHigh,
		},
		Timezone: *timezone,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err = os.WriteFile(*configOut, data, 0666); err != nil {
		log.Fatal(err)
	}

	envVars := map[string]string{
		defs.EnvDexcomPassword: *dexcomPassword,
		defs.EnvDiscordToken:   *discordToken,
	}
	if err = godotenv.Write(envVars, *envOut); err != nil {
		log.Fatal(err)
	}
}
