package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux

	dig_container "github.com/trezcool/gradebook/apps/api/di/dig"
	echoapi "github.com/trezcool/gradebook/apps/api/echo"
	"github.com/trezcool/gradebook/core"
)

func main() {
	if err := dig_container.New().Invoke(run); err != nil {
		log.Fatal(err)
	}
}

// run serves the gradebook API until it fails or is asked to stop.
func run(
	conf *core.Config,
	logger core.Logger,
	dbLogger dig_container.DBLoggerParam,
	closeDB dig_container.CloseDBFunc,
	server *echoapi.Server,
) {
	logger.Info(fmt.Sprintf("gradebook api starting (%s storage): %s", conf.Database.Driver, conf))
	defer logger.Info("gradebook api stopped")
	defer func() {
		if err := closeDB(); err != nil {
			dbLogger.Logger.Fatal("closing gradebook store", err)
		}
	}()

	publishVars(conf)
	go serveDebug(conf.Server.DebugHost, logger)
	go server.Start()

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("gradebook api failed: %v", err), err)
	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v received, draining requests", sig))
		stop(conf, logger, server)
	}
}

// publishVars exposes the build and storage settings under /debug/vars.
func publishVars(conf *core.Config) {
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Database.Driver)
}

// serveDebug serves pprof and expvar from the default mux.
func serveDebug(addr string, logger core.Logger) {
	if err := http.ListenAndServe(addr, http.DefaultServeMux); err != nil {
		logger.Error(fmt.Sprintf("debug server on %s closed: %v", addr, err), err)
	}
}

// stop lets in-flight requests finish within the shutdown timeout, then closes the server.
func stop(conf *core.Config, logger core.Logger, server *echoapi.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err == nil {
		return
	}
	logger.Error(fmt.Sprintf("graceful stop failed: %v", err), err)
	if err = server.Close(); err != nil {
		logger.Fatal(fmt.Sprintf("forced stop failed: %v", err), err)
	}
}
