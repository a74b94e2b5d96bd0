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

package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealdocs/agent-contact-import/internal/system/constants"
)

// GetOrGenerateRunID extracts the run ID from the context or generates a new one
func GetOrGenerateRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(constants.RunIDContextKey).(string); ok && runID != "" {
		return runID
	}
	return GenerateRunID()
}

// GenerateRunID generates a new UUID-based run ID
func GenerateRunID() string {
	return uuid.New().String()
}

// GetRunID extracts the run ID from the context, returns empty string if not found
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(constants.RunIDContextKey).(string); ok {
		return runID
	}
	return ""
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, constants.RunIDContextKey, runID)
}
