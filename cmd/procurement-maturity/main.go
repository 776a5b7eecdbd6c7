package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/pkg/errors"

	procmaturity "github.com/nsip/procurement-maturity"
	"github.com/nsip/procurement-maturity/internal/advisor"
	"github.com/nsip/procurement-maturity/internal/benchmark"
	"github.com/nsip/procurement-maturity/internal/catalog"
	"github.com/nsip/procurement-maturity/internal/store"
)

func main() {

	fs := flag.NewFlagSet("procurement-maturity", flag.ExitOnError)
	var (
		_                 = fs.String("config", "", "config file (optional), json format.")
		serviceName       = fs.String("name", "", "name for this assessment service instance")
		serviceID         = fs.String("id", "", "id for this assessment service instance, leave blank to auto-generate a unique id")
		serviceHost       = fs.String("host", "localhost", "name/address of host for this service")
		servicePort       = fs.Int("port", 0, "port to run service on, if not specified will assign an available port automatically")
		storeKind         = fs.String("store", "file", "where organization records are kept: file or redis")
		dataDir           = fs.String("dataDir", "org_data", "directory of organization files when store is file")
		redisAddr         = fs.String("redisAddr", "localhost:6379", "redis address when store is redis")
		redisPassword     = fs.String("redisPassword", "", "redis password")
		redisDB           = fs.Int("redisDB", 0, "redis database number")
		catalogDir        = fs.String("catalogDir", "", "directory with replacement catalog json files, leave blank for the built-in catalog")
		benchmarkFile     = fs.String("benchmarkFile", "", "yaml file with replacement benchmarks, leave blank for the built-in table")
		ollamaEnabled     = fs.Bool("ollamaEnabled", false, "generate recommendations with an ollama server")
		ollamaHost        = fs.String("ollamaHost", "localhost", "host name/address of the ollama server")
		ollamaPort        = fs.Int("ollamaPort", 11434, "port the ollama server is running on")
		ollamaModel       = fs.String("ollamaModel", advisor.DefaultModel, "model used for generated recommendations")
		ollamaTemperature = fs.Float64("ollamaTemperature", advisor.DefaultTemperature, "sampling temperature for generated recommendations")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("PROC_MATURITY"),
	); err != nil {
		fmt.Printf("\nCannot read configuration:\n%s\n\n", err)
		os.Exit(1)
	}

	st, err := openStore(*storeKind, *dataDir, store.RedisOptions{
		Addr:     *redisAddr,
		Password: *redisPassword,
		DB:       *redisDB,
	})
	if err != nil {
		fmt.Printf("\nCannot open response store:\n%s\n\n", err)
		os.Exit(1)
	}

	opts := []procmaturity.Option{
		procmaturity.Name(*serviceName),
		procmaturity.ID(*serviceID),
		procmaturity.Host(*serviceHost),
		procmaturity.Port(*servicePort),
		procmaturity.Store(st),
	}
	if *catalogDir != "" {
		cat, err := catalog.Load(os.DirFS(*catalogDir))
		if err != nil {
			fmt.Printf("\nCannot load catalog:\n%s\n\n", err)
			os.Exit(1)
		}
		opts = append(opts, procmaturity.Catalog(cat))
	}
	if *benchmarkFile != "" {
		bench, err := benchmark.LoadFile(*benchmarkFile)
		if err != nil {
			fmt.Printf("\nCannot load benchmarks:\n%s\n\n", err)
			os.Exit(1)
		}
		opts = append(opts, procmaturity.Benchmarks(bench))
	}
	if *ollamaEnabled {
		opts = append(opts, procmaturity.Advisor(
			advisor.NewOllama(*ollamaHost, *ollamaPort, *ollamaModel, *ollamaTemperature)))
	}

	srvc, err := procmaturity.New(opts...)
	if err != nil {
		fmt.Printf("\nCannot create procurement-maturity service:\n%s\n\n", err)
		st.Close()
		os.Exit(1)
	}

	srvc.PrintConfig()

	// signal handler for shutdown
	closed := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nprocurement-maturity shutting down")
		srvc.Shutdown()
		fmt.Println("procurement-maturity closed")
		close(closed)
	}()

	srvc.Start()

	// block until shutdown by sig-handler
	<-closed

}

func openStore(kind, dataDir string, redisOpts store.RedisOptions) (store.Store, error) {
	switch kind {
	case "file":
		return store.NewFile(dataDir)
	case "redis":
		return store.NewRedis(context.Background(), redisOpts)
	}
	return nil, errors.Errorf("unknown store %q, expected file or redis", kind)
}
