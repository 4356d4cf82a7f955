// Command post-scores is the Lambda function recording a score.
package main

import (
	"context"
	"log"
	"os"

	"github.com/Black-And-White-Club/leaderboard-scores/app"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	ctx := context.Background()

	application, err := app.Bootstrap(ctx, os.Getenv("CONFIG_PATH"), app.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	lambda.StartWithOptions(
		application.ScoreModule.Handlers().HandlePostScoreLambda,
		lambda.WithEnableSIGTERM(func() {
			application.Shutdown(context.Background())
		}),
	)
}
