package main

import (
	"context"
	"fmt"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bytepower_keyspace/base"
	"bytepower_keyspace/base/log"
	"bytepower_keyspace/service"

	"github.com/spf13/pflag"
)

var configPath = pflag.StringP("config", "c", "config.yaml", "config file path")
var host = pflag.StringP("host", "h", "", "server listen host, overrides server.url")
var port = pflag.IntP("port", "p", 0, "server listen port, overrides server.url")
var versionFlag = pflag.BoolP("version", "v", false, "service version")
var version string

const stopServicesTimeout = 10 * time.Second

func listenAddress() string {
	if *host == "" && *port == 0 {
		return ""
	}
	listenHost, listenPort := *host, *port
	if listenHost == "" {
		listenHost = "0.0.0.0"
	}
	if listenPort == 0 {
		listenPort = 6379
	}
	return fmt.Sprintf("%s:%d", listenHost, listenPort)
}

func main() {
	pflag.Parse()
	if *versionFlag {
		fmt.Println(version)
		return
	}
	if *configPath == "" {
		panic("config should not be empty")
	}
	if err := base.InitServer(*configPath); err != nil {
		panic(err)
	}

	dep := base.GetServerDependency()
	logger := dep.Logger
	config := base.GetServerConfig()
	proxyService, err := service.NewProxyService(config, dep, listenAddress())
	if err != nil {
		panic(err)
	}
	if err := proxyService.Run(); err != nil {
		panic(err)
	}
	logger.Info(
		"keyspace server has started",
		log.String("address", proxyService.Addr()),
		log.String("prefix", config.Namespace.Prefix),
	)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signalCh
	logger.Info("signal received, closing service...", log.String("signal", sig.String()))
	if err := proxyService.Stop(config.Server.GracefulShutdownWait()); err != nil {
		logger.Error("stop keyspace server", log.Error(err))
	}
	logger.Info("keyspace server is stopped, try to stop other related services...")
	ctx, cancel := context.WithTimeout(context.Background(), stopServicesTimeout)
	defer cancel()
	if err := base.Stop(ctx); err != nil {
		logger.Error("stop related services", log.Error(err))
	}
	logger.Info("keyspace server and related service are all closed")
}
