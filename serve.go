package main

import (
	"bandeja/internal/back"
	"bandeja/internal/config"
	"bandeja/internal/web"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

func serve() error {
	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return err
	}

	b, err := back.New("sqlite3", conf.SQLiteDSN)
	if err != nil {
		return err
	}

	server := web.NewServer(b, conf.HTTPListen)

	done := make(chan struct{})
	signaled := make(chan os.Signal, 1)
	signal.Notify(signaled, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go server.Serve(&wg, done)

	sig := <-signaled
	log.Printf("received signal %d", sig)

	close(done)
	wg.Wait()
	log.Print("shutdown complete")

	return nil
}
