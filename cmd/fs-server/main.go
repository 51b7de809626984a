package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os/signal"
	"syscall"

	"filestore/pkg/app"
	"filestore/pkg/config"
	"filestore/pkg/server"

	"github.com/spf13/viper"
)

func main() {
	// 1. Load Config
	cfgFile := flag.String("config", "", "config file (default is $HOME/.fs/config.yaml)")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	flag.Parse()

	if err := config.Load(*cfgFile); err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	config.SetupLogger()
	if *addr != "" {
		viper.Set("server.addr", *addr)
	}

	// 2. Init Core Application (bucket provisioning happens here)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to initialize app: %v", err)
	}
	defer application.Close()
	fmt.Printf("✅ Storage initialized (backend: %s).\n", application.Store.StoreType())

	// 3. Setup Network
	listenAddr := viper.GetString("server.addr")
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatalf("❌ Failed to listen on %s: %v", listenAddr, err)
	}

	// 4. Setup gRPC Server
	grpcServer := server.New(application)

	// 5. Start Server (Async)
	go func() {
		fmt.Printf("🚀 gRPC Server listening on %s...\n", listenAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("❌ Failed to serve: %v", err)
		}
	}()

	// 6. Graceful Shutdown
	<-ctx.Done()

	fmt.Println("\n⚠️  Shutting down server...")
	grpcServer.GracefulStop()
	fmt.Println("👋 Server stopped.")
}
