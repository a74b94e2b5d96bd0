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
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamoDB struct {
	inputs []*dynamodb.BatchWriteItemInput
	output *dynamodb.BatchWriteItemOutput
	err    error
}

func (f *fakeDynamoDB) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput,
	_ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	if f.output == nil {
		return &dynamodb.BatchWriteItemOutput{}, nil
	}
	return f.output, nil
}

func item(id string) Item {
	return Item{"id": &types.AttributeValueMemberS{Value: id}}
}

func TestBatchPut_BuildsPutRequests(t *testing.T) {
	client := &fakeDynamoDB{}
	s := NewDynamoDBStore(client)

	unprocessed, err := s.BatchPut(context.Background(), "agents", []Item{item("a"), item("b")})

	require.NoError(t, err)
	assert.Empty(t, unprocessed)
	require.Len(t, client.inputs, 1)
	requests := client.inputs[0].RequestItems["agents"]
	require.Len(t, requests, 2)
	assert.Nil(t, requests[0].DeleteRequest)
	assert.Equal(t, item("a"), requests[0].PutRequest.Item)
	assert.Equal(t, item("b"), requests[1].PutRequest.Item)
}

func TestBatchPut_EmptyBatchMakesNoCall(t *testing.T) {
	client := &fakeDynamoDB{}

	unprocessed, err := NewDynamoDBStore(client).BatchPut(context.Background(), "agents", nil)

	require.NoError(t, err)
	assert.Nil(t, unprocessed)
	assert.Empty(t, client.inputs)
}

func TestBatchPut_ReturnsUnprocessedItems(t *testing.T) {
	client := &fakeDynamoDB{output: &dynamodb.BatchWriteItemOutput{
		UnprocessedItems: map[string][]types.WriteRequest{
			"agents": {{PutRequest: &types.PutRequest{Item: item("b")}}},
			"other":  {{PutRequest: &types.PutRequest{Item: item("z")}}},
		},
	}}

	unprocessed, err := NewDynamoDBStore(client).BatchPut(context.Background(), "agents",
		[]Item{item("a"), item("b")})

	require.NoError(t, err)
	assert.Equal(t, []Item{item("b")}, unprocessed)
}

func TestBatchPut_ThrottleIsMarked(t *testing.T) {
	throttled := &types.ProvisionedThroughputExceededException{Message: stringPtr("slow down")}
	client := &fakeDynamoDB{err: throttled}

	_, err := NewDynamoDBStore(client).BatchPut(context.Background(), "agents", []Item{item("a")})

	require.ErrorIs(t, err, ErrCapacityExceeded)
	var original *types.ProvisionedThroughputExceededException
	assert.True(t, errors.As(err, &original), "the SDK error stays reachable")
}

func TestBatchPut_OtherErrorsPassThrough(t *testing.T) {
	validation := &smithy.GenericAPIError{Code: "ValidationException", Message: "bad item"}
	client := &fakeDynamoDB{err: validation}

	_, err := NewDynamoDBStore(client).BatchPut(context.Background(), "agents", []Item{item("a")})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCapacityExceeded))
	assert.False(t, IsCapacityExceeded(err))
}

func TestIsCapacityExceeded(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", fmt.Errorf("%w: batch 3", ErrCapacityExceeded), true},
		{"provisioned throughput", &types.ProvisionedThroughputExceededException{}, true},
		{"request limit", fmt.Errorf("wrapped: %w", &types.RequestLimitExceeded{}), true},
		{"throttling code", &smithy.GenericAPIError{Code: "ThrottlingException"}, true},
		{"other code", &smithy.GenericAPIError{Code: "ResourceNotFoundException"}, false},
		{"plain error", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCapacityExceeded(tt.err))
		})
	}
}

func stringPtr(s string) *string {
	return &s
}
