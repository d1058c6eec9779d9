// Package app assembles the chat service from configuration. Both entrypoints
// share it so the HTTP server and the Lambda function behave the same.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"coach-agent/internal/audit"
	"coach-agent/internal/config"
	"coach-agent/internal/integrations/openai"
	"coach-agent/internal/integrations/paramstore"
	"coach-agent/internal/knowledge"
	"coach-agent/internal/repository"
	"coach-agent/internal/usecase"
)

var loadAWSConfig = func(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// Build wires every dependency of the chat service. AWS configuration is only
// loaded when an AWS-backed integration is enabled.
func Build(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*usecase.ChatService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: config must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var awsCfg aws.Config
	if cfg.AWSEnabled() {
		var err error
		awsCfg, err = loadAWSConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("app: load AWS config: %w", err)
		}
	}

	keys, err := buildKeySource(cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}

	llm, err := openai.New(cfg.OpenAIClient, keys, openai.Settings{
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		MaxTokens:   cfg.OpenAIMaxTokens,
		BaseURL:     cfg.OpenAIBaseURL,
		Timeout:     cfg.OpenAITimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("app: create completion client: %w", err)
	}

	sinks, err := buildSinks(cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}

	svc, err := usecase.NewChatService(
		llm,
		audit.New(logger, sinks...),
		usecase.NewHistory(cfg.ChatHistoryKeep),
		knowledge.Load(cfg.KnowledgeBasePath, logger),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("app: create chat service: %w", err)
	}
	return svc, nil
}

func buildKeySource(cfg *config.Config, awsCfg aws.Config, logger *zap.SugaredLogger) (openai.KeySource, error) {
	if cfg.OpenAIAPIKey != "" {
		return openai.StaticKey(cfg.OpenAIAPIKey), nil
	}
	if cfg.ParamPrefix == "" {
		logger.Warnw("OPENAI_API_KEY is not set; every chat request will use the fallback reply")
		return openai.StaticKey(""), nil
	}

	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, fmt.Errorf("app: create SSM client: %w", err)
	}
	keys, err := openai.NewParamStoreKey(ssmClient, cfg.ParamPrefix)
	if err != nil {
		return nil, fmt.Errorf("app: create parameter store key: %w", err)
	}
	logger.Infow("API key will be read from Parameter Store", "prefix", cfg.ParamPrefix)
	return keys, nil
}

func buildSinks(cfg *config.Config, awsCfg aws.Config, logger *zap.SugaredLogger) ([]audit.Sink, error) {
	file, err := audit.NewFileSink(cfg.InteractionLogPath)
	if err != nil {
		return nil, fmt.Errorf("app: create interaction log: %w", err)
	}
	sinks := []audit.Sink{file}

	if cfg.AuditTable != "" {
		table, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.AuditTable)
		if err != nil {
			return nil, fmt.Errorf("app: create audit table: %w", err)
		}
		sinks = append(sinks, table)
		logger.Infow("interaction log mirrored to DynamoDB", "table", cfg.AuditTable)
	}
	return sinks, nil
}
