// Command boltping connects to a Bolt server, runs a single query, and
// prints the record it gets back — the end-to-end C3–C7 path in one
// invocation, the way the teacher's cmd/cc-backend exposes its whole
// subsystem behind one flag-parsed main.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/nexusgraph/bolt-go/internal/boltauth"
	"github.com/nexusgraph/bolt-go/internal/boltconfig"
	"github.com/nexusgraph/bolt-go/internal/boltconn"
	"github.com/nexusgraph/bolt-go/internal/boltevents"
	"github.com/nexusgraph/bolt-go/internal/boltlog"
	"github.com/nexusgraph/bolt-go/internal/boltmetrics"
	"github.com/nexusgraph/bolt-go/internal/boltrouting"
	"github.com/nexusgraph/bolt-go/internal/session"
	"github.com/nexusgraph/bolt-go/internal/transport"
	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/bolt/messages"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	flagURI         string
	flagUser        string
	flagPassword    string
	flagQuery       string
	flagDb          string
	flagLogLevel    string
	flagTLSMode     string
	flagMetricsAddr string
	flagEventsAddr  string
)

func cliInit() {
	flag.StringVar(&flagURI, "uri", "bolt://localhost:7687", "Bolt connection URI (bolt:// or neo4j://)")
	flag.StringVar(&flagUser, "user", "neo4j", "Basic auth principal")
	flag.StringVar(&flagPassword, "password", "", "Basic auth credentials")
	flag.StringVar(&flagQuery, "query", "RETURN 1 AS n", "Cypher query to run")
	flag.StringVar(&flagDb, "db", "", "Target database (empty means server default)")
	flag.StringVar(&flagLogLevel, "loglevel", "warn", "Sets the logging level: [debug, info, warn, err]")
	flag.StringVar(&flagTLSMode, "tls", string(boltconfig.TLSDisable), "TLS mode: disable, require, verify")
	flag.StringVar(&flagMetricsAddr, "metrics-addr", "", "If set, serve Prometheus metrics on this address (e.g. :9090)")
	flag.StringVar(&flagEventsAddr, "events-addr", "", "If set, publish connection lifecycle events to this NATS address")
	flag.Parse()
}

func main() {
	cliInit()
	boltlog.SetLevel(flagLogLevel)

	if err := run(); err != nil {
		boltlog.Err("boltping failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	target, err := boltrouting.ParseURI(flagURI)
	if err != nil {
		return fmt.Errorf("boltping: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, target.Address(), boltconfig.TLSMode(flagTLSMode), target.Host)
	if err != nil {
		return fmt.Errorf("boltping: dial: %w", err)
	}

	c := boltconn.New(conn, &boltlog.Default)

	if flagMetricsAddr != "" {
		m := boltmetrics.New("boltping")
		m.MustRegister(prometheus.DefaultRegisterer)
		c.SetMetrics(m)
		go serveMetrics(flagMetricsAddr)
	}

	if flagEventsAddr != "" {
		pub, err := boltevents.NewPublisher(boltevents.Config{Address: flagEventsAddr}, "boltping.lifecycle")
		if err != nil {
			return fmt.Errorf("boltping: events: %w", err)
		}
		defer pub.Close()
		c.SetEventSink(boltevents.NewRecorder(pub))
	}

	if err := c.PerformHandshake(boltconfig.DefaultProposedVersions); err != nil {
		return fmt.Errorf("boltping: handshake: %w", err)
	}

	helloParams := messages.HelloParams{
		UserAgent: "boltping/0.1",
		BoltAgent: messages.BoltAgent{Product: "boltping/0.1", Language: "Go"},
	}
	if c.Version().Less(bolt.Version{Major: 5, Minor: 1}) {
		auth := boltauth.BasicAuth(flagUser, flagPassword)
		helloParams.Scheme, _ = auth["scheme"].AsString()
		helloParams.Principal, _ = auth["principal"].AsString()
		helloParams.Credentials, _ = auth["credentials"].AsString()
	}
	if _, err := c.SendHello(helloParams); err != nil {
		return fmt.Errorf("boltping: HELLO: %w", err)
	}
	if c.Version().AtLeast(5, 1) {
		logon := messages.LogonParams{Auth: boltauth.BasicAuth(flagUser, flagPassword)}
		if _, err := c.SendLogon(logon); err != nil {
			return fmt.Errorf("boltping: LOGON: %w", err)
		}
	}

	sess := session.New(c, flagDb, &boltlog.Default)
	defer sess.Close()

	result, err := sess.Run(flagQuery, nil)
	if err != nil {
		return fmt.Errorf("boltping: query failed: %w", err)
	}

	for _, rec := range result.Records {
		fmt.Println(rec.Fields)
	}
	return nil
}

// serveMetrics exposes the default Prometheus registry on addr until
// the process exits. Failures are logged, not fatal: a query that
// already succeeded shouldn't be undone by a metrics endpoint that
// couldn't bind.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		boltlog.Err("metrics server stopped", "error", err)
	}
}
