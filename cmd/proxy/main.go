// Command proxy runs the caching HTTP/1.0 forward proxy.
//
// Usage: proxy [-c config.yaml] <port>
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/yourusername/relay/cache"
	"github.com/yourusername/relay/conf"
	"github.com/yourusername/relay/contrib/config"
	"github.com/yourusername/relay/contrib/config/provider/file"
	"github.com/yourusername/relay/contrib/kratos"
	"github.com/yourusername/relay/contrib/log"
	"github.com/yourusername/relay/contrib/transport"
	"github.com/yourusername/relay/debug"
	"github.com/yourusername/relay/origin"
	"github.com/yourusername/relay/pkg/mapstruct"
	"github.com/yourusername/relay/proxy"
	"github.com/yourusername/relay/server"
)

var flagConf = "config.yaml"

func init() {
	flag.StringVar(&flagConf, "c", defaultConfigPath(), "config file path")
}

func defaultConfigPath() string {
	if path := os.Getenv("RELAY_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

func main() {
	port, ok := parsePort()
	if !ok {
		fmt.Fprintf(os.Stderr, "usage: %s <port>\n", os.Args[0])
		os.Exit(2)
	}

	log.SetLogger(log.With(log.GetLogger(), "ts", time.Now().Format(time.RFC3339), "pid", os.Getpid()))

	registerer := prometheus.WrapRegistererWithPrefix("relay_", prometheus.DefaultRegisterer)
	registerer.MustRegister(collectors.NewGoCollector())

	bc := conf.Default()
	if _, err := os.Stat(flagConf); err == nil {
		c := config.New[conf.Bootstrap](config.WithSource(file.NewSource(flagConf)))
		defer c.Close()

		loaded := &conf.Bootstrap{}
		if err := c.Scan(loaded); err != nil {
			log.Errorf("load config %s failed: %v", flagConf, err)
		} else if merged, err := conf.Merge(bc, loaded); err == nil {
			bc = merged
		}
	}

	log.SetLogger(log.NewZapLogger(log.Options{
		Level:      bc.Logger.Level,
		Path:       bc.Logger.Path,
		Caller:     bc.Logger.Caller,
		MaxSize:    bc.Logger.MaxSize,
		MaxAge:     bc.Logger.MaxAge,
		MaxBackups: bc.Logger.MaxBackups,
		Compress:   bc.Logger.Compress,
	}))

	c := cache.New(bc.Cache.MaxCacheSize, bc.Cache.MaxContentSize)
	o := origin.New(bc.Upstream.DialTimeout)
	handler := proxy.NewHandler(c, o)

	acceptor, err := server.New(fmt.Sprintf("0.0.0.0:%d", port), bc.PidFile, bc.Server.ReadTimeout, handler.Handle)
	if err != nil {
		log.Errorf("bind failed: %v", err)
		os.Exit(1)
	}

	servers := []transport.Server{acceptor}
	if bc.Metrics.Addr != "" {
		servers = append(servers, debug.New(bc.Metrics.Addr, c, decodeOperator(bc.Operator)))
	}

	app := kratos.New(
		kratos.Name("relay-proxy"),
		kratos.Logger(log.GetLogger()),
		kratos.Server(servers...),
	)

	if err := app.Run(); err != nil {
		log.Errorf("app stopped with error: %v", err)
		os.Exit(1)
	}
}

// decodeOperator decodes the freeform config Operator section into a
// conf.OperatorInfo for /debug/version; a nil/invalid section yields nil
// so the field is simply omitted.
func decodeOperator(raw map[string]any) any {
	if len(raw) == 0 {
		return nil
	}
	var info conf.OperatorInfo
	if err := mapstruct.Decode(raw, &info); err != nil {
		log.Warnf("decode operator config: %v", err)
		return nil
	}
	return info
}

func parsePort() (int, bool) {
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		return 0, false
	}

	var port int
	if _, err := fmt.Sscanf(args[0], "%d", &port); err != nil {
		return 0, false
	}
	if port < 1 || port > 65535 {
		return 0, false
	}
	return port, true
}
