package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikey/mailprobe/internal/config"
	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/factory"
	"github.com/mikey/mailprobe/internal/logging"
	"github.com/mikey/mailprobe/internal/probe"
	"go.uber.org/zap"
)

var (
	// Classifier flags
	classifierType = flag.String("classifier", "weighted", "Classifier type (weighted, remote)")
	remoteURL      = flag.String("remote-url", "http://localhost:9090", "Base URL of the remote model service")
	threshold      = flag.Float64("threshold", 0.7, "Decision threshold applied to classifier scores")

	// DNS flags
	resolverType = flag.String("resolver", "miekg", "DNS resolver (miekg, std)")
	nameservers  = flag.String("nameservers", "", "Comma-separated nameservers (host:port)")
	dnsTimeout   = flag.Duration("dns-timeout", 5*time.Second, "Timeout per DNS lookup")

	// Probe flags
	smtpEnabled = flag.Bool("smtp", true, "Enable the SMTP handshake probe")
	smtpDialer  = flag.String("smtp-dialer", "native", "SMTP dialer (native, trysmtp)")
	callTimeout = flag.Duration("call-timeout", 15*time.Second, "Overall deadline per address")
	spfAdvisory = flag.Bool("spf-advisory", false, "Also run a full SPF evaluation for the domain's primary MX")

	// Input flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: mailprobe-cli [flags] address [address ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	// Build the pipeline directly from factories
	resolverFactory := factory.NewResolverFactory(cfg, logger)
	resolver, err := resolverFactory.CreateResolver()
	if err != nil {
		logger.Fatal("Failed to create resolver", zap.Error(err))
	}

	classifierFactory := factory.NewClassifierFactory(cfg, logger)
	clf, err := classifierFactory.CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create classifier", zap.Error(err))
	}

	smtpFactory := factory.NewSMTPFactory(cfg, logger)
	pipelineFactory := factory.NewPipelineFactory(cfg, logger)
	aggregator, err := pipelineFactory.CreateAggregator(resolver, smtpFactory)
	if err != nil {
		logger.Fatal("Failed to create probe pipeline", zap.Error(err))
	}

	service := core.NewValidatorService(aggregator, clf, logger, cfg.GetFloat64("classifier.threshold"))

	probeConfig := cfg.GetProbe()
	policy := probe.NewPolicyRecordProbe(resolver, probeConfig.DKIMSelectors, probeConfig.PolicyTimeout, logger)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	exitCode := 0
	for _, address := range flag.Args() {
		result, err := service.Validate(context.Background(), address)
		if err != nil {
			logger.Error("Validation failed", zap.String("email", address), zap.Error(err))
			exitCode = 1
			continue
		}

		output := map[string]any{
			"email":                 result.Email,
			"traditionalValidation": result.TraditionalValidation,
			"aiValidation":          result.AIValidation,
			"aiConfidence":          result.AIConfidence,
			"features":              result.Features,
		}

		if *spfAdvisory {
			if email, ok := probe.ParseAddress(address); ok {
				verdict, err := policy.EvaluateSPF(context.Background(), email)
				if err != nil {
					logger.Debug("SPF evaluation failed", zap.Error(err))
				}
				if verdict != "" {
					output["spfAdvisory"] = verdict
				}
			}
		}

		if err := encoder.Encode(output); err != nil {
			logger.Fatal("Failed to encode result", zap.Error(err))
		}
	}
	os.Exit(exitCode)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.type", *classifierType)
	v.Set("classifier.threshold", *threshold)
	v.Set("classifier.remote.base_url", *remoteURL)

	v.Set("dns.resolver", *resolverType)
	v.Set("dns.timeout", dnsTimeout.String())
	if *nameservers != "" {
		servers := strings.Split(*nameservers, ",")
		for i, server := range servers {
			servers[i] = strings.TrimSpace(server)
		}
		v.Set("dns.nameservers", servers)
	}

	v.Set("probe.smtp.enabled", *smtpEnabled)
	v.Set("probe.smtp.dialer", *smtpDialer)
	v.Set("probe.call_timeout", callTimeout.String())

	return config.NewFromViper(v)
}
