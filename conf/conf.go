package conf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"goa.design/clue/log"
)

// Conf is everything the server binary needs from its environment.
// Required values panic at startup rather than failing mid-contest.
type Conf struct {
	HttpAddress string

	JwtKey string

	OrganizerUsername string
	OrganizerPwBcrypt string

	// "in-mem" or "dynamodb"
	StoreKind      string
	DdbRecordTable string

	// "stub", "http" or "sqs"
	JudgeKind         string
	JudgeHttpEndpoint string
	JudgeApiKey       string
	JudgeSqsQueueUrl  string

	ProblemsDir  string
	AssetUrlBase string
	AssetBucket  string

	AllowedOrigins []string
}

func FromEnv() Conf {
	c := Conf{
		HttpAddress:       getenv("ARENA_HTTP_ADDRESS", ":8080"),
		JwtKey:            mustGetenv("JWT_KEY"),
		OrganizerUsername: getenv("ORGANIZER_USERNAME", "organizer"),
		OrganizerPwBcrypt: mustGetenv("ORGANIZER_PW_BCRYPT"),
		StoreKind:         getenv("STORE_KIND", "in-mem"),
		DdbRecordTable:    getenv("DDB_RECORD_TABLE", "ArenaRecords"),
		JudgeKind:         getenv("JUDGE_KIND", "stub"),
		JudgeHttpEndpoint: os.Getenv("JUDGE_HTTP_ENDPOINT"),
		JudgeApiKey:       os.Getenv("JUDGE_API_KEY"),
		JudgeSqsQueueUrl:  os.Getenv("JUDGE_SQS_QUEUE_URL"),
		ProblemsDir:       getenv("PROBLEMS_DIR", "./problems"),
		AssetUrlBase:      os.Getenv("ASSET_URL_BASE"),
		AssetBucket:       os.Getenv("ASSET_S3_BUCKET"),
	}

	origins := getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			c.AllowedOrigins = append(c.AllowedOrigins, origin)
		}
	}

	switch c.StoreKind {
	case "in-mem", "dynamodb":
	default:
		panic(fmt.Sprintf("unknown STORE_KIND %q", c.StoreKind))
	}
	switch c.JudgeKind {
	case "stub":
	case "http":
		if c.JudgeHttpEndpoint == "" {
			panic("JUDGE_HTTP_ENDPOINT is required when JUDGE_KIND=http")
		}
	case "sqs":
		if c.JudgeSqsQueueUrl == "" {
			panic("JUDGE_SQS_QUEUE_URL is required when JUDGE_KIND=sqs")
		}
	default:
		panic(fmt.Sprintf("unknown JUDGE_KIND %q", c.JudgeKind))
	}

	return c
}

// AwsConfig loads the SDK config the DynamoDB, SQS and S3 clients share.
func AwsConfig(ctx context.Context) aws.Config {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(getenv("AWS_REGION", "eu-central-1")),
		config.WithLogger(log.AsAWSLogger(ctx)),
	}
	if profile := os.Getenv("AWS_PROFILE"); profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		panic(fmt.Sprintf("unable to load SDK config, %v", err))
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustGetenv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("%s is not set", key))
	}
	return v
}
