package main

import (
	"context"
	"errors"
	"flag"
	"glucotrend/glucorisk"
	"glucotrend/glucorisk/defs"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	envFile    string
)

func init() {
	flag.StringVar(&configFile, "f", "config.yaml", "config file")
	flag.StringVar(&envFile, "env", ".env", "env file with secrets, optional")
	flag.Parse()
}

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("unable to load env file", zap.String("file", envFile), zap.Error(err))
	}

	config := defs.Config{Logger: logger}

	file, err := os.ReadFile(configFile)
	if err != nil {
		logger.Fatal("unable to read config file", zap.String("file", configFile), zap.Error(err))
	}

	if err = yaml.Unmarshal(file, &config); err != nil {
		logger.Fatal("unable to parse config file", zap.String("file", configFile), zap.Error(err))
	}

	logger.Debug("loaded config file", zap.String("file", configFile))

	s, err := glucorisk.New(config)
	if err != nil {
		logger.Fatal("unable to create server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
