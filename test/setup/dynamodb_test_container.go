/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/store"
	"github.com/dealdocs/agent-contact-import/internal/system/config"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
)

type TestDynamoDB struct {
	Container testcontainers.Container
	Client    *dynamodb.Client
	Config    config.StoreConfig
}

// SetupTestDynamoDB starts an in-memory DynamoDB Local container.
func SetupTestDynamoDB(ctx context.Context) (*TestDynamoDB, error) {
	req := testcontainers.ContainerRequest{
		Image:        "amazon/dynamodb-local:2.5.2",
		ExposedPorts: []string{"8000/tcp"},
		Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
		WaitingFor:   wait.ForListeningPort("8000/tcp"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	port, err := container.MappedPort(ctx, "8000")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	storeConfig := config.StoreConfig{
		Region:          "us-east-1",
		Endpoint:        fmt.Sprintf("http://%s:%s", host, port.Port()),
		AccessKeyID:     "local",
		SecretAccessKey: "local",
	}
	client, err := store.NewDynamoDBClient(ctx, storeConfig)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	log.GetLogger().Info(fmt.Sprintf("DynamoDB Local started at %s", storeConfig.Endpoint))
	return &TestDynamoDB{
		Container: container,
		Client:    client,
		Config:    storeConfig,
	}, nil
}

// CreateAgentTable creates a table keyed by id and waits until it is usable.
func (d *TestDynamoDB) CreateAgentTable(ctx context.Context, name string) error {
	_, err := d.Client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return err
	}
	return dynamodb.NewTableExistsWaiter(d.Client).Wait(ctx,
		&dynamodb.DescribeTableInput{TableName: aws.String(name)}, 30*time.Second)
}

// ScanTable returns every item of a table.
func (d *TestDynamoDB) ScanTable(ctx context.Context, name string) ([]store.Item, error) {
	var items []store.Item
	paginator := dynamodb.NewScanPaginator(d.Client, &dynamodb.ScanInput{TableName: aws.String(name)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func (d *TestDynamoDB) Terminate(ctx context.Context) {
	_ = d.Container.Terminate(ctx)
}
