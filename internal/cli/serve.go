package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pentasign/pentasign-sdk/metrics"
	"github.com/pentasign/pentasign-sdk/plausibility"
	"github.com/pentasign/pentasign-sdk/server"
	"github.com/pentasign/pentasign-sdk/signing"
	"github.com/pentasign/pentasign-sdk/signing/keys"
	"github.com/pentasign/pentasign-sdk/signing/repository"
)

const flagAddr = "addr"

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the signing HTTP API",
		Long: `Serve the HTTP API:

  POST /v1/sign              multipart: document, sofi
  POST /v1/verify            multipart: document, bundle[, metadata]
  GET  /v1/pattern/:digest   SVG, optional ?nonce=
  GET  /v1/schema[/:kind]    JSON schemas
  GET  /v1/bundles/:digest   archived bundle (with --out)
  GET  /healthz, /metrics`,
		Args:              cobra.NoArgs,
		RunE:              a.runServe,
		DisableAutoGenTag: true,
	}
	cmd.Flags().String(flagAddr, ":8080", "listen address")
	cmd.Flags().String(flagScheme, keys.SchemeEd25519, "key scheme for signing")
	cmd.Flags().String(flagOut, "", "archive every signing result in this directory")
	cmd.Flags().Bool(flagNumericSofi, false, "require numeric SOFI IDs")
	cmd.Flags().Int64(flagMaxSize, 32<<20, "maximum document size in bytes")
	cmd.Flags().String(flagPlausibilityEndpoint, "", "URL of the plausibility service")
	cmd.Flags().Duration(flagPlausibilityTimeout, 0, "timeout for the plausibility check")
	cmd.Flags().Bool(flagPlausibilityInsecure, false, "allow plain http and skip TLS verification for the plausibility service")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	srv, err := a.buildServer()
	if err != nil {
		return err
	}
	return srv.Run(a.context(cmd))
}

func (a *app) buildServer() (*server.Server, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}

	scheme, err := keys.Lookup(cfg.Scheme)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svcOpts := []signing.SigningServiceOption{
		signing.WithKeyScheme(scheme),
		signing.WithLogger(a.logger),
		signing.WithMetrics(metrics.NewCollector(reg)),
	}
	if cfg.Plausibility.Endpoint != "" {
		checker, err := plausibility.NewHTTPChecker(cfg.Plausibility.Endpoint,
			plausibility.WithTimeout(cfg.Plausibility.Timeout),
			plausibility.WithInsecure(cfg.Plausibility.Insecure),
			plausibility.WithLogger(a.logger),
		)
		if err != nil {
			return nil, err
		}
		svcOpts = append(svcOpts, signing.WithPlausibilityChecker(checker))
	}

	srvOpts := []server.Option{
		server.WithLogger(a.logger),
		server.WithGatherer(reg),
	}
	if cfg.Out != "" {
		archive, err := repository.NewFSBundleRepository(cfg.Out)
		if err != nil {
			return nil, err
		}
		srvOpts = append(srvOpts, server.WithArchive(archive))
	}

	return server.New(server.Config{
		Addr:            cfg.Addr,
		MaxDocumentSize: cfg.MaxDocumentSize,
		NumericSofi:     cfg.NumericSofi,
	}, signing.NewSigningService(svcOpts...), srvOpts...)
}
