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

package model

// AgentContactItem is the shape of an agent contact in the key-value store.
type AgentContactItem struct {
	ID             string   `dynamodbav:"id"`
	Name           string   `dynamodbav:"name"`
	AgencyName     string   `dynamodbav:"agencyName,omitempty"`
	ProfileURL     string   `dynamodbav:"profileUrl,omitempty"`
	PhoneNumbers   []string `dynamodbav:"phoneNumbers,omitempty"`
	EmailAddresses []string `dynamodbav:"emailAddresses,omitempty"`
	Source         string   `dynamodbav:"source"`
	MetaData       string   `dynamodbav:"metaData,omitempty"`
	ImportDate     string   `dynamodbav:"importDate"`
	CreatedAt      string   `dynamodbav:"createdAt"`
	UpdatedAt      string   `dynamodbav:"updatedAt"`
}
