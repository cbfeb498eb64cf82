//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"bookrec/internal/platform/dynamo"
)

const (
	dynamoLocalImage = "amazon/dynamodb-local:2.5.2"
	dynamoLocalPort  = "8000/tcp"
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// DynamoLocal starts DynamoDB Local, creates the Books and ReadingLists
// tables and returns a client pointed at it. The container is terminated
// when the test ends.
func DynamoLocal(t *testing.T) *dynamodb.Client {
	t.Helper()
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dynamoLocalImage,
			ExposedPorts: []string{dynamoLocalPort},
			Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
			WaitingFor:   wait.ForListeningPort(dynamoLocalPort).WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start dynamodb-local: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, dynamoLocalPort)
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	cfg := aws.Config{
		Region:      "eu-north-1",
		Credentials: credentials.NewStaticCredentialsProvider("local", "local", ""),
	}
	client := dynamo.NewClient(cfg, fmt.Sprintf("http://%s:%s", host, port.Port()))

	if err := dynamo.EnsureTables(ctx, client, "Books", "ReadingLists", "userId-index"); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return client
}
