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

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/dealdocs/agent-contact-import/internal/system/config"
)

// Item is one record in the store's wire format.
type Item = map[string]types.AttributeValue

// ErrCapacityExceeded marks a write rejected because the table's throughput is exhausted.
var ErrCapacityExceeded = errors.New("store capacity exceeded")

// capacityErrorCodes are the API error codes the store uses for throttling.
var capacityErrorCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"ThrottlingException":                    true,
	"RequestLimitExceeded":                   true,
}

// AgentContactStoreInterface writes batches of items to a table.
type AgentContactStoreInterface interface {
	// BatchPut writes up to one batch of items. Items the store did not process are returned
	// without an error; a throttled call returns an error wrapping ErrCapacityExceeded.
	BatchPut(ctx context.Context, table string, items []Item) ([]Item, error)
}

// DynamoDBAPI is the part of the DynamoDB client the store needs.
type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoDBStore is the DynamoDB implementation of AgentContactStoreInterface.
type DynamoDBStore struct {
	client DynamoDBAPI
}

func NewDynamoDBStore(client DynamoDBAPI) *DynamoDBStore {

	return &DynamoDBStore{client: client}
}

// NewDynamoDBClient builds a client for the configured store. The SDK's own retries are
// turned off since the bulk writer owns retry and backoff.
func NewDynamoDBClient(ctx context.Context, storeConfig config.StoreConfig) (*dynamodb.Client, error) {

	var opts []func(*awsconfig.LoadOptions) error
	if storeConfig.Region != "" {
		opts = append(opts, awsconfig.WithRegion(storeConfig.Region))
	}
	if storeConfig.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(storeConfig.AccessKeyID, storeConfig.SecretAccessKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if storeConfig.Endpoint != "" {
			o.BaseEndpoint = aws.String(storeConfig.Endpoint)
		}
		o.RetryMaxAttempts = 1
	}), nil
}

func (s *DynamoDBStore) BatchPut(ctx context.Context, table string, items []Item) ([]Item, error) {

	if len(items) == 0 {
		return nil, nil
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: requests},
	})
	if err != nil {
		if IsCapacityExceeded(err) {
			return nil, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
		}
		return nil, err
	}

	var unprocessed []Item
	for _, request := range out.UnprocessedItems[table] {
		if request.PutRequest != nil {
			unprocessed = append(unprocessed, request.PutRequest.Item)
		}
	}
	return unprocessed, nil
}

// IsCapacityExceeded reports whether err is one of the store's throttling errors.
func IsCapacityExceeded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCapacityExceeded) {
		return true
	}

	var throughputErr *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughputErr) {
		return true
	}
	var limitErr *types.RequestLimitExceeded
	if errors.As(err, &limitErr) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return capacityErrorCodes[apiErr.ErrorCode()]
	}
	return false
}
