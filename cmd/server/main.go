package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/programme-lv/arena/catalog"
	"github.com/programme-lv/arena/conf"
	"github.com/programme-lv/arena/contest"
	"github.com/programme-lv/arena/http"
	"github.com/programme-lv/arena/judge"
	"github.com/programme-lv/arena/store"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		panic("Error loading .env file")
	}

	cfg := conf.FromEnv()
	ctx := context.Background()

	problems, err := catalog.LoadDir(cfg.ProblemsDir, catalog.LoadDirOpts{
		AssetURLBase: cfg.AssetUrlBase,
	})
	if err != nil {
		slog.Error("failed to load problem catalog", "dir", cfg.ProblemsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("problem catalog loaded", "dir", cfg.ProblemsDir, "problems", len(problems))

	recordStore := newRecordStore(ctx, cfg)
	judgeClient := newJudgeClient(ctx, cfg)

	contestSrvc := contest.NewService(catalog.NewInMemCatalog(problems), judgeClient, recordStore)
	if err := contestSrvc.Restore(ctx); err != nil {
		slog.Error("failed to restore engine state", "error", err)
		os.Exit(1)
	}

	httpServer := http.NewHttpServer(contestSrvc, []byte(cfg.JwtKey), http.OrganizerCreds{
		Username:       cfg.OrganizerUsername,
		PasswordBcrypt: cfg.OrganizerPwBcrypt,
	}, cfg.AllowedOrigins)

	log.Printf("Starting server on %s", cfg.HttpAddress)
	err = httpServer.Start(cfg.HttpAddress)
	log.Printf("Server stopped with error: %v", err)
}

func newRecordStore(ctx context.Context, cfg conf.Conf) store.RecordStore {
	switch cfg.StoreKind {
	case "dynamodb":
		awsCfg := conf.AwsConfig(ctx)
		return store.NewDynamoDbRecordStore(dynamodb.NewFromConfig(awsCfg), cfg.DdbRecordTable)
	default:
		slog.Warn("using in-memory record store, state is lost on restart")
		return store.NewInMemStore()
	}
}

func newJudgeClient(ctx context.Context, cfg conf.Conf) judge.Client {
	switch cfg.JudgeKind {
	case "http":
		client := judge.NewHttpClient(cfg.JudgeHttpEndpoint, cfg.JudgeApiKey, 30*time.Second)
		return judge.WrapRetry(client, judge.RetryConfig{MaxAttempts: 3})
	case "sqs":
		awsCfg := conf.AwsConfig(ctx)
		return judge.NewSqsClient(sqs.NewFromConfig(awsCfg), cfg.JudgeSqsQueueUrl)
	default:
		slog.Warn("using stub judge, every submission passes")
		return judge.NewStubClient()
	}
}
