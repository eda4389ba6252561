// Package container provides dependency injection for the chatledger
// application. It builds every component once from the configuration and
// hands out the shared, immutable instances.
package container

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/chatledger/internal/batch"
	"fjacquet/chatledger/internal/categorizer"
	"fjacquet/chatledger/internal/config"
	"fjacquet/chatledger/internal/ingest"
	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/parser"
	"fjacquet/chatledger/internal/report"
	"fjacquet/chatledger/internal/store"
	"fjacquet/chatledger/internal/validation"
)

// Container holds all application dependencies. It is immutable after
// creation; dependencies are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	taxonomy   categorizer.Taxonomy
	classifier *categorizer.Classifier
	parser     *parser.Parser
	validator  *validation.TransactionValidator
	ledger     *store.Ledger
	ingest     *ingest.Service
	batch      *batch.Processor
	report     *report.Generator
}

// NewContainer creates and wires all application dependencies with the
// logger described by cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, cfg.NewLogger())
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	taxonomy, err := store.LoadTaxonomy(cfg.Categories.File, logger)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	classifier, err := categorizer.New(taxonomy, logger)
	if err != nil {
		return nil, fmt.Errorf("building classifier: %w", err)
	}

	rules, err := ParserRules(cfg)
	if err != nil {
		return nil, err
	}
	p, err := parser.New(rules, classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("building parser: %w", err)
	}

	validator := validation.NewTransactionValidator(classifier, cfg.Currency.Allowed)

	ledger, err := store.NewLedger(cfg.Ledger.File, cfg.LedgerDelimiter(), cfg.Currency.Home, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	service := ingest.NewService(p, classifier, validator, ledger, cfg.Auth.Users, logger)

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldFile, cfg.Ledger.File),
		logging.F("threshold", rules.Threshold),
		logging.F("default_direction", rules.DefaultDirection.String()))

	return &Container{
		logger:     logger,
		config:     cfg,
		taxonomy:   taxonomy,
		classifier: classifier,
		parser:     p,
		validator:  validator,
		ledger:     ledger,
		ingest:     service,
		batch:      batch.NewProcessor(service, logger),
		report:     report.NewGenerator(logger),
	}, nil
}

// ParserRules derives parser rules from the configuration, starting from
// the built-in lexicons.
func ParserRules(cfg *config.Config) (parser.Rules, error) {
	rules := parser.DefaultRules()
	rules.HomeCurrency = cfg.Currency.Home
	rules.Threshold = cfg.Parser.ConfidenceThreshold
	rules.MinPlausible = decimal.NewFromFloat(cfg.Parser.MinAmount)
	rules.MaxPlausible = decimal.NewFromFloat(cfg.Parser.MaxAmount)

	d, err := cfg.DefaultDirection()
	if err != nil {
		return parser.Rules{}, err
	}
	rules.DefaultDirection = d
	return rules, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTaxonomy returns the category taxonomy the classifier was built from.
func (c *Container) GetTaxonomy() categorizer.Taxonomy {
	return c.taxonomy
}

// GetClassifier returns the category classifier.
func (c *Container) GetClassifier() *categorizer.Classifier {
	return c.classifier
}

// GetParser returns the transaction parser.
func (c *Container) GetParser() *parser.Parser {
	return c.parser
}

// GetValidator returns the transaction validator.
func (c *Container) GetValidator() *validation.TransactionValidator {
	return c.validator
}

// GetLedger returns the CSV ledger.
func (c *Container) GetLedger() *store.Ledger {
	return c.ledger
}

// GetIngest returns the message ingest service.
func (c *Container) GetIngest() *ingest.Service {
	return c.ingest
}

// GetBatch returns the processor for files of messages.
func (c *Container) GetBatch() *batch.Processor {
	return c.batch
}

// GetReport returns the monthly report generator.
func (c *Container) GetReport() *report.Generator {
	return c.report
}
